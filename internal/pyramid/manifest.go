package pyramid

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

const (
	manifestName = "config.json"
	fallbackDir  = "fallback"

	// DefaultHFOV is the horizontal field of view, in degrees, the viewer
	// opens the pyramid with.
	DefaultHFOV = 100
)

// Manifest is the viewer configuration written next to the level directories
type Manifest struct {
	HFOV     float64  `json:"hfov"`
	AutoLoad bool     `json:"autoLoad,omitempty"`
	Type     string   `json:"type"`
	MultiRes MultiRes `json:"multiRes"`
}

// MultiRes describes the tile layout. In Path, %l is the level, %y the row and
// %x the column.
type MultiRes struct {
	Path           string `json:"path"`
	FallbackPath   string `json:"fallbackPath,omitempty"`
	Extension      string `json:"extension"`
	TileResolution int    `json:"tileResolution"`
	MaxLevel       int    `json:"maxLevel"`
	CubeResolution int    `json:"cubeResolution,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// Manifest returns the viewer configuration of the pyramid
func (p *Pyramid) Manifest() Manifest {
	prefix := p.writer.Prefix
	if p.plan.Variant == tile.Cube {
		prefix = "x"
	}

	m := Manifest{
		HFOV:     DefaultHFOV,
		AutoLoad: p.opts.AutoLoad,
		Type:     "multires",
		MultiRes: MultiRes{
			Path:           "/%l/" + prefix + "%y_%x",
			Extension:      p.writer.Format.Ext(),
			TileResolution: p.plan.TileSize,
			MaxLevel:       p.plan.Levels,
		},
	}

	if p.plan.Variant == tile.Cube {
		m.MultiRes.CubeResolution = p.plan.CubeSize()
	} else {
		m.MultiRes.Width = p.plan.Width
		m.MultiRes.Height = p.plan.Height
	}
	if p.opts.FallbackSize > 0 {
		m.MultiRes.FallbackPath = "/" + fallbackDir + "/" + p.fallbackStem()
	}
	return m
}

func (p *Pyramid) writeManifest() error {
	data, err := json.MarshalIndent(p.Manifest(), "", "    ")
	if err != nil {
		return tile.Wrap(tile.KindIO, "encode manifest", "", err)
	}

	path := filepath.Join(p.opts.Output, manifestName)
	if err := writeFile(path, append(data, '\n')); err != nil {
		return tile.Wrap(tile.KindIO, "write manifest", path, err)
	}
	p.log.WithField("path", path).Info("Manifest written")
	return nil
}

func (p *Pyramid) fallbackStem() string {
	if p.plan.Variant == tile.Cube {
		return "x"
	}
	return p.writer.Prefix
}

// FallbackSize returns the dimensions of the single-image fallback. Its long
// side is FallbackSize.
func (p *Pyramid) FallbackSize() tile.Size {
	n := p.opts.FallbackSize
	w, h := p.plan.Width, p.plan.Height
	if w >= h {
		return tile.Size{Width: n, Height: max(h*n/w, 1)}
	}
	return tile.Size{Width: max(w*n/h, 1), Height: n}
}

// writeFallback stores the whole source scaled down to one image, for viewers
// that cannot page tiles.
func (p *Pyramid) writeFallback() error {
	dir := filepath.Join(p.opts.Output, fallbackDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return tile.Wrap(tile.KindIO, "create fallback directory", dir, err)
	}

	size := p.FallbackSize()
	img, err := raster.Resample(p.source.Image, size.Width, size.Height)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, p.fallbackStem()+"."+p.writer.Format.Ext())
	var buf bytes.Buffer
	if err := raster.Encode(&buf, img, p.writer.Format, p.writer.Quality); err != nil {
		return tile.Wrap(tile.KindImageProcessing, "encode fallback", path, err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return tile.Wrap(tile.KindIO, "write fallback", path, err)
	}
	return nil
}
