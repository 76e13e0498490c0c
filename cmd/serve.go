package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/internal/server"
)

const version = "1.0.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the pyramid job API",
	Long: `Start an HTTP server that plans and renders pyramids on request.

Sources are read below --source-root (or from gs:// paths) and pyramids are
written below --output-root. The server does not serve the tiles themselves.

Examples:
  # Start server on default port 8080
  tilepyramid serve

  # Start server with custom roots and four workers per job
  tilepyramid serve --source-root /data/images --output-root /data/tiles -j 4

  # Start server with custom bind address
  tilepyramid serve --bind 0.0.0.0 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 5*time.Minute, "request timeout")
	serveCmd.Flags().String("source-root", ".", "directory that request sources are resolved in")
	serveCmd.Flags().String("output-root", "output", "directory that pyramids are written below")
	serveCmd.Flags().IntP("workers", "j", 1, "tiles encoded in parallel per level")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("server.source-root", serveCmd.Flags().Lookup("source-root"))
	viper.BindPFlag("server.output-root", serveCmd.Flags().Lookup("output-root"))
	viper.BindPFlag("server.workers", serveCmd.Flags().Lookup("workers"))
}

func runServe(cmd *cobra.Command, args []string) error {
	bind := viper.GetString("server.bind")
	port := viper.GetInt("server.port")
	timeout := viper.GetDuration("server.timeout")

	addr := fmt.Sprintf("%s:%d", bind, port)
	log := newLogger(cmd.ErrOrStderr())

	loader := raster.NewLoader(nil)
	defer loader.Close()

	// Create server implementation
	apiServer := server.NewServer(version, server.Config{
		SourceRoot: viper.GetString("server.source-root"),
		OutputRoot: viper.GetString("server.output-root"),
		Workers:    max(viper.GetInt("server.workers"), 1),
		Loader:     loader,
		Logger:     log,
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	go func() {
		<-cmd.Context().Done()

		fmt.Fprintf(cmd.ErrOrStderr(), "\nShutting down server...\n")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting tilepyramid server on %s\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Health check: http://%s/api/v1/health\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Plan endpoint: http://%s/api/v1/plan\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Pyramid endpoint: http://%s/api/v1/pyramids\n", addr)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %v", err)
	}

	return nil
}
