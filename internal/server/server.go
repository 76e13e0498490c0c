package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kiesman99/tilepyramid/internal/api"
	"github.com/kiesman99/tilepyramid/internal/pyramid"
	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

const maxTileSize = 65535

// Config holds what the server needs to run pyramid jobs
type Config struct {
	// SourceRoot and OutputRoot confine request paths
	SourceRoot string
	OutputRoot string
	Workers    int
	Loader     *raster.Loader
	Logger     logrus.FieldLogger
}

// Server implements the ServerInterface of the api package
type Server struct {
	startTime time.Time
	version   string
	cfg       Config
	log       logrus.FieldLogger
}

// NewServer creates a new server instance
func NewServer(version string, cfg Config) *Server {
	if cfg.Loader == nil {
		cfg.Loader = raster.NewLoader(nil)
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		startTime: time.Now(),
		version:   version,
		cfg:       cfg,
		log:       log,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// GetPlan returns the plan of a pyramid for the given source size
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request, params api.GetPlanParams) {
	requestID := requestID(r)

	tileSize := tile.DefaultTileSize
	if params.TileSize != nil {
		tileSize = *params.TileSize
	}
	variant, err := parseVariant(params.Variant)
	if err != nil {
		s.writeValidationErrorResponse(w, "variant", err.Error(), &requestID)
		return
	}
	if tileSize < 1 || tileSize > maxTileSize {
		s.writeValidationErrorResponse(w, "tile_size", fmt.Sprintf("tile_size must be between 1 and %d", maxTileSize), &requestID)
		return
	}

	plan, err := tile.NewPlan(variant, params.Width, params.Height, tileSize)
	if err != nil {
		s.handlePyramidError(w, err, &requestID)
		return
	}

	response := api.PlanResponse{
		Variant:    api.Variant(plan.Variant.String()),
		TileSize:   plan.TileSize,
		Width:      plan.Width,
		Height:     plan.Height,
		Levels:     plan.Levels,
		TotalTiles: plan.TileCount(),
	}
	for level := plan.Levels; level >= 1; level-- {
		size := plan.LevelSize(level)
		cols, rows := plan.Grid(level)
		response.LevelSizes = append(response.LevelSizes, api.PlanLevel{
			Level:   level,
			Width:   size.Width,
			Height:  size.Height,
			Columns: cols,
			Rows:    rows,
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

// CreatePyramid renders a pyramid and reports what was written
func (s *Server) CreatePyramid(w http.ResponseWriter, r *http.Request) {
	requestID := requestID(r)

	// Parse request body
	var req api.PyramidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON",
			"Invalid JSON in request body", &requestID, nil)
		return
	}

	// Validate request
	opts, field, err := s.convertToPyramidOptions(&req)
	if err != nil {
		s.writeValidationErrorResponse(w, field, err.Error(), &requestID)
		return
	}

	sourcePath := req.Source
	if !raster.IsGoogleStorage(sourcePath) {
		sourcePath = confine(s.cfg.SourceRoot, req.Source)
	}

	log := s.log.WithFields(logrus.Fields{"request_id": requestID, "source": sourcePath})
	opts.Logger = log

	src, err := s.cfg.Loader.Load(r.Context(), sourcePath)
	if err != nil {
		s.handlePyramidError(w, err, &requestID)
		return
	}

	p, err := pyramid.New(src, opts)
	if err != nil {
		s.handlePyramidError(w, err, &requestID)
		return
	}

	summary, err := p.Build(r.Context())
	if err != nil {
		log.WithError(err).Error("Pyramid failed")
		s.handlePyramidError(w, err, &requestID)
		return
	}

	response := api.PyramidResponse{
		Output:        req.Output,
		Variant:       api.Variant(summary.Plan.Variant.String()),
		Levels:        summary.Plan.Levels,
		TileSize:      summary.Plan.TileSize,
		TilesPerLevel: summary.Tiles,
		TotalTiles:    summary.Total,
		RequestId:     &requestID,
	}

	w.Header().Set("X-Request-ID", requestID)
	s.writeJSON(w, http.StatusCreated, response)
}

// convertToPyramidOptions validates req and converts it to pyramid options.
// On failure it also returns the offending field.
func (s *Server) convertToPyramidOptions(req *api.PyramidRequest) (pyramid.Options, string, error) {
	opts := pyramid.Options{
		TileSize:    tile.DefaultTileSize,
		Workers:     s.cfg.Workers,
		JPEGQuality: raster.DefaultJPEGQuality,
	}

	if req.Source == "" {
		return opts, "source", fmt.Errorf("source is required")
	}
	if req.Output == "" {
		return opts, "output", fmt.Errorf("output is required")
	}
	opts.Output = confine(s.cfg.OutputRoot, req.Output)
	if opts.Output == filepath.Clean(s.cfg.OutputRoot) {
		return opts, "output", fmt.Errorf("output must name a directory below the output root")
	}

	if req.TileSize != nil {
		if *req.TileSize < 1 || *req.TileSize > maxTileSize {
			return opts, "tile_size", fmt.Errorf("tile_size must be between 1 and %d", maxTileSize)
		}
		opts.TileSize = *req.TileSize
	}

	variant, err := parseVariant(req.Variant)
	if err != nil {
		return opts, "variant", err
	}
	opts.Variant = variant

	if req.Png != nil {
		opts.PNG = *req.Png
	}
	if req.Quality != nil {
		if *req.Quality < 1 || *req.Quality > 100 {
			return opts, "quality", fmt.Errorf("quality must be between 1 and 100")
		}
		opts.JPEGQuality = *req.Quality
	}
	if req.Manifest != nil {
		opts.Manifest = *req.Manifest
	}

	return opts, "", nil
}

// handlePyramidError maps a failed run to a response
func (s *Server) handlePyramidError(w http.ResponseWriter, err error, requestID *string) {
	switch {
	case errors.Is(err, tile.ErrPlanning):
		s.writeErrorResponse(w, http.StatusBadRequest, "PLANNING_ERROR", err.Error(), requestID, nil)
	case errors.Is(err, tile.ErrUnsupportedSourceImage):
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, "UNSUPPORTED_SOURCE_IMAGE", err.Error(), requestID, nil)
	case errors.Is(err, tile.ErrIO) && errors.Is(err, fs.ErrNotExist):
		s.writeErrorResponse(w, http.StatusNotFound, "SOURCE_NOT_FOUND", "Source image not found", requestID, nil)
	case errors.Is(err, tile.ErrIO):
		s.writeErrorResponse(w, http.StatusInternalServerError, "IO_ERROR", err.Error(), requestID, nil)
	case errors.Is(err, tile.ErrImageProcessing):
		s.writeErrorResponse(w, http.StatusInternalServerError, "IMAGE_PROCESSING_ERROR", err.Error(), requestID, nil)
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID, nil)
	}
}

// HandleParamError reports query parameters that could not be bound
func (s *Server) HandleParamError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestID(r)
	s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), &requestID, nil)
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	s.writeJSON(w, statusCode, response)
}

// writeValidationErrorResponse writes a validation error response
func (s *Server) writeValidationErrorResponse(w http.ResponseWriter, field, message string, requestID *string) {
	response := api.ValidationErrorResponse{
		Error:     api.VALIDATIONERROR,
		Message:   message,
		RequestId: requestID,
		ValidationErrors: []struct {
			Code    *string `json:"code,omitempty"`
			Field   string  `json:"field"`
			Message string  `json:"message"`
		}{
			{
				Field:   field,
				Message: message,
			},
		},
	}

	s.writeJSON(w, http.StatusBadRequest, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("Error encoding response")
	}
}

func parseVariant(v *api.Variant) (tile.Variant, error) {
	if v == nil {
		return tile.Rectangular, nil
	}
	variant, ok := tile.ParseVariant(string(*v))
	if !ok {
		return tile.Rectangular, fmt.Errorf("invalid variant: %s", *v)
	}
	return variant, nil
}

// confine joins p below root. Leading slashes and .. elements cannot leave
// root.
func confine(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+filepath.ToSlash(p))))
}

// requestID returns the id assigned by the RequestID middleware, or a new one
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
