package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/tilepyramid/internal/pyramid"
	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tilepyramid [flags] IMAGE",
	Short: "Cut an image into a multi-resolution tile pyramid",
	Long: `tilepyramid cuts a source image into a pyramid of square tiles.

Every level halves the resolution of the level above it. Level 1 is the
coarsest; the highest level holds the image at full resolution. Tiles are
written to <directory>/<level>/<name><row>_<col>.<ext>, where <name> is the
file name of the source without its extension.

With --cube the source must be a square cube face. Tiles are then always PNG
and named x<row>_<col>.png.

Sources can be PNG, JPEG, GIF, BMP, TIFF or WebP files, local or in Google
Cloud Storage (gs://bucket/object).

Examples:
  # JPEG tiles of 512 pixels into ./output
  tilepyramid panorama.jpg

  # PNG tiles of 256 pixels using four workers
  tilepyramid --png -s 256 -j 4 -d tiles scan.tif

  # A cube face with manifest and fallback image
  tilepyramid --cube --manifest --fallback-size 1024 -d face0 face0.png

  # Show the levels without writing anything
  tilepyramid plan panorama.jpg

  # Start HTTP server
  tilepyramid serve --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no args, show help
		if len(args) == 0 {
			return cmd.Help()
		}
		return runPyramid(cmd, args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tilepyramid.yaml)")
	rootCmd.PersistentFlags().IntP("tilesize", "s", tile.DefaultTileSize, "tile size in pixels")
	rootCmd.PersistentFlags().Bool("cube", false, "treat the source as a square cube face")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Output options
	rootCmd.Flags().BoolP("png", "p", false, "write PNG tiles instead of JPEG")
	rootCmd.Flags().StringP("directory", "d", "output", "output directory")
	rootCmd.Flags().IntP("quality", "q", raster.DefaultJPEGQuality, "JPEG quality (1-100)")
	rootCmd.Flags().Bool("manifest", false, "write a config.json describing the pyramid")
	rootCmd.Flags().Bool("autoload", false, "mark the manifest to load the pyramid when the viewer opens")
	rootCmd.Flags().Int("fallback-size", 0, "also write a fallback image with this long side (0 disables)")

	// Processing options
	rootCmd.Flags().IntP("workers", "j", 1, "tiles encoded in parallel per level")

	// Bind flags to viper for root command
	viper.BindPFlag("tilesize", rootCmd.PersistentFlags().Lookup("tilesize"))
	viper.BindPFlag("cube", rootCmd.PersistentFlags().Lookup("cube"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("png", rootCmd.Flags().Lookup("png"))
	viper.BindPFlag("directory", rootCmd.Flags().Lookup("directory"))
	viper.BindPFlag("quality", rootCmd.Flags().Lookup("quality"))
	viper.BindPFlag("manifest", rootCmd.Flags().Lookup("manifest"))
	viper.BindPFlag("autoload", rootCmd.Flags().Lookup("autoload"))
	viper.BindPFlag("fallback-size", rootCmd.Flags().Lookup("fallback-size"))
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tilepyramid" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tilepyramid")
	}

	// TILEPYRAMID_FALLBACK_SIZE, TILEPYRAMID_SERVER_PORT, ...
	viper.SetEnvPrefix("tilepyramid")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a text logger on out, at debug level with --verbose
func newLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func variantFromConfig() tile.Variant {
	if viper.GetBool("cube") {
		return tile.Cube
	}
	return tile.Rectangular
}

func loadSource(ctx context.Context, path string) (*raster.Source, error) {
	loader := raster.NewLoader(nil)
	defer loader.Close()

	return loader.Load(ctx, path)
}

func runPyramid(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	log := newLogger(cmd.ErrOrStderr())

	quality := viper.GetInt("quality")
	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	workers := viper.GetInt("workers")
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", workers)
	}

	src, err := loadSource(ctx, path)
	if err != nil {
		return err
	}

	opts := pyramid.Options{
		Output:       viper.GetString("directory"),
		TileSize:     viper.GetInt("tilesize"),
		PNG:          viper.GetBool("png"),
		Variant:      variantFromConfig(),
		Workers:      workers,
		JPEGQuality:  quality,
		Manifest:     viper.GetBool("manifest"),
		AutoLoad:     viper.GetBool("autoload"),
		FallbackSize: viper.GetInt("fallback-size"),
		Logger:       log,
	}

	// Planning rejects bad input before the output directory exists
	p, err := pyramid.New(src, opts)
	if err != nil {
		return err
	}

	if _, err := os.Stat(opts.Output); os.IsNotExist(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "creating directory %s\n", opts.Output)
	}
	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return tile.Wrap(tile.KindIO, "create output", opts.Output, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "==Levels: %d\n", p.Plan().Levels)
	fmt.Fprintf(cmd.ErrOrStderr(), "==Output: %s\n", p.Output())

	summary, err := p.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tiles in %d levels\n", summary.Total, summary.Plan.Levels)
	return nil
}
