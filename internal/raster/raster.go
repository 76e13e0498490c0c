// Package raster adapts the imaging library to the operations a pyramid
// needs: decoding sources, resampling levels, cropping cells and encoding
// tiles.
package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/kiesman99/tilepyramid/pkg/tile"
)

// DefaultJPEGQuality is used when no quality is configured
const DefaultJPEGQuality = 75

// Resample scales img to width x height with a triangle filter
func Resample(img image.Image, width, height int) (image.Image, error) {
	if width < 1 || height < 1 {
		return nil, tile.Errorf(tile.KindImageProcessing, "resample", "", "invalid target size %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Linear), nil
}

// Crop copies the region r of img. The rectangle is relative to the top left
// corner of img and must lie inside it.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	b := img.Bounds()
	abs := r.Add(b.Min)
	if r.Empty() || !abs.In(b) {
		return nil, tile.Errorf(tile.KindImageProcessing, "crop", "", "region %v outside %dx%d raster", r, b.Dx(), b.Dy())
	}
	return imaging.Crop(img, abs), nil
}

// Encode writes img to w as PNG or JPEG. Quality only applies to JPEG.
func Encode(w io.Writer, img image.Image, format tile.Format, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var f imaging.Format
	switch format {
	case tile.FormatPNG:
		f = imaging.PNG
	case tile.FormatJPEG:
		f = imaging.JPEG
	default:
		return fmt.Errorf("unknown tile format %d", format)
	}

	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(quality)); err != nil {
		return tile.Wrap(tile.KindImageProcessing, "encode", "", err)
	}
	return nil
}
