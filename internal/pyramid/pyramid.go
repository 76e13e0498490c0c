// Package pyramid renders a source image into a directory tree of tiles, one
// subdirectory per resolution level.
package pyramid

import (
	"context"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

// Options contains all configuration of a pyramid run
type Options struct {
	Output      string
	TileSize    int
	PNG         bool
	Variant     tile.Variant
	Workers     int
	JPEGQuality int
	Manifest    bool
	// AutoLoad marks the manifest so the viewer loads the pyramid on open
	AutoLoad     bool
	FallbackSize int
	Logger       logrus.FieldLogger
}

// Summary describes a finished run
type Summary struct {
	Plan   tile.Plan
	Output string
	// Tiles holds the number of tiles written per level, index 0 is level 1
	Tiles []int
	Total int
}

// Pyramid turns one source image into tiles
type Pyramid struct {
	source  *raster.Source
	plan    tile.Plan
	writer  *Writer
	workers int
	opts    Options
	log     logrus.FieldLogger
}

// New plans the pyramid for src. Nothing is written until Build is called, so
// a rejected source leaves the output untouched.
func New(src *raster.Source, opts Options) (*Pyramid, error) {
	if opts.TileSize == 0 {
		opts.TileSize = tile.DefaultTileSize
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = raster.DefaultJPEGQuality
	}

	plan, err := tile.NewPlan(opts.Variant, src.Width(), src.Height(), opts.TileSize)
	if err != nil {
		return nil, tile.Wrap(tile.KindPlanning, "plan", src.Path, err)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Pyramid{
		source: src,
		plan:   plan,
		writer: &Writer{
			Root:    opts.Output,
			Variant: opts.Variant,
			Format:  plan.Format(opts.PNG),
			Prefix:  src.Stem,
			Quality: opts.JPEGQuality,
		},
		workers: workers,
		opts:    opts,
		log:     log,
	}, nil
}

// Plan returns the computed plan
func (p *Pyramid) Plan() tile.Plan {
	return p.plan
}

// Output returns the root directory the tiles are written to
func (p *Pyramid) Output() string {
	return p.opts.Output
}

// Build writes every level from the finest to the coarsest. It stops at the
// first failure; tiles written so far stay on disk.
func (p *Pyramid) Build(ctx context.Context) (*Summary, error) {
	p.log.WithFields(logrus.Fields{
		"levels":    p.plan.Levels,
		"tile_size": p.plan.TileSize,
		"width":     p.plan.Width,
		"height":    p.plan.Height,
		"variant":   p.plan.Variant,
		"output":    p.opts.Output,
	}).Info("Creating tiles")

	summary := &Summary{
		Plan:   p.plan,
		Output: p.opts.Output,
		Tiles:  make([]int, p.plan.Levels),
	}

	img := p.source.Image
	size := tile.Size{Width: p.plan.Width, Height: p.plan.Height}

	for level := p.plan.Levels; level >= 1; level-- {
		if level < p.plan.Levels {
			size = tile.Size{Width: tile.Halve(size.Width), Height: tile.Halve(size.Height)}

			var err error
			img, err = raster.Resample(img, size.Width, size.Height)
			if err != nil {
				return nil, tile.Wrap(tile.KindImageProcessing, "resample level", tile.LevelDir(p.opts.Output, level), err)
			}
		}

		n, err := p.buildLevel(ctx, img, level, size)
		if err != nil {
			return nil, err
		}
		summary.Tiles[level-1] = n
		summary.Total += n
	}

	if p.opts.FallbackSize > 0 {
		if err := p.writeFallback(); err != nil {
			return nil, err
		}
	}
	if p.opts.Manifest {
		if err := p.writeManifest(); err != nil {
			return nil, err
		}
	}

	p.log.WithField("tiles", summary.Total).Info("Done")
	return summary, nil
}

// buildLevel writes all tiles of one level. img must already have the level's
// dimensions and is only read from here on.
func (p *Pyramid) buildLevel(ctx context.Context, img image.Image, level int, size tile.Size) (int, error) {
	if err := p.writer.EnsureLevel(level); err != nil {
		return 0, err
	}

	cells := tile.Partition(level, size.Width, size.Height, p.plan.TileSize)
	log := p.log.WithFields(logrus.Fields{
		"level":  level,
		"width":  size.Width,
		"height": size.Height,
		"tiles":  len(cells),
	})
	log.Debug("Tiling level")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, cell := range cells {
		if gctx.Err() != nil {
			break
		}
		cell := cell
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.writer.Write(img, cell)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	log.Info("Level written")
	return len(cells), nil
}
