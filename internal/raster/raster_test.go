package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiesman99/tilepyramid/pkg/tile"
)

func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestResample(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
	}{
		{name: "halve", width: 50, height: 30},
		{name: "odd target", width: 33, height: 7},
		{name: "single pixel", width: 1, height: 1},
	}

	src := gradient(101, 61)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Resample(src, tc.width, tc.height)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if b := out.Bounds(); b.Dx() != tc.width || b.Dy() != tc.height {
				t.Errorf("Expected %dx%d, got %dx%d", tc.width, tc.height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestResampleInvalidSize(t *testing.T) {
	_, err := Resample(gradient(10, 10), 0, 5)
	if !errors.Is(err, tile.ErrImageProcessing) {
		t.Errorf("Expected image processing error, got %v", err)
	}
}

func TestCrop(t *testing.T) {
	src := gradient(100, 80)

	out, err := Crop(src, image.Rect(64, 64, 100, 80))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Bounds().Dx() != 36 || out.Bounds().Dy() != 16 {
		t.Errorf("Expected 36x16, got %v", out.Bounds())
	}
	if got := out.NRGBAAt(0, 0); got != src.NRGBAAt(64, 64) {
		t.Errorf("Expected pixel %v, got %v", src.NRGBAAt(64, 64), got)
	}
}

func TestCropOffsetOrigin(t *testing.T) {
	src := gradient(100, 100).SubImage(image.Rect(20, 10, 60, 50))

	out, err := Crop(src, image.Rect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := color.NRGBA{R: 20, G: 10, B: 30, A: 255}
	if got := out.NRGBAAt(0, 0); got != want {
		t.Errorf("Expected pixel %v, got %v", want, got)
	}
}

func TestCropOutside(t *testing.T) {
	_, err := Crop(gradient(10, 10), image.Rect(5, 5, 15, 10))
	if !errors.Is(err, tile.ErrImageProcessing) {
		t.Errorf("Expected image processing error, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		format tile.Format
		magic  []byte
	}{
		{name: "png", format: tile.FormatPNG, magic: []byte{0x89, 0x50, 0x4E, 0x47}},
		{name: "jpeg", format: tile.FormatJPEG, magic: []byte{0xFF, 0xD8}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, gradient(16, 16), tc.format, 90); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), tc.magic) {
				t.Errorf("Output does not start with %x", tc.magic)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, gradient(7, 5)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("Expected 7x5, got %v", b)
	}

	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Expected decode error")
	}
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, encodePNG(t, gradient(12, 9)), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	l := NewLoader(nil)
	defer l.Close()

	src, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if src.Width() != 12 || src.Height() != 9 {
		t.Errorf("Expected 12x9, got %dx%d", src.Width(), src.Height())
	}
	if src.Stem != "scan" {
		t.Errorf("Expected stem scan, got %q", src.Stem)
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	testCases := []struct {
		name     string
		path     string
		expected error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.png"), expected: tile.ErrIO},
		{name: "undecodable file", path: garbage, expected: tile.ErrUnsupportedSourceImage},
		{name: "malformed storage path", path: "gs://bucket-only", expected: tile.ErrIO},
	}

	l := NewLoader(nil)
	defer l.Close()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tc.path)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestLoaderSize(t *testing.T) {
	dir := t.TempDir()

	// Signature and IHDR only: the header is readable, the pixels are not
	headerOnly := filepath.Join(dir, "header.png")
	if err := os.WriteFile(headerOnly, encodePNG(t, gradient(40, 25))[:33], 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	l := NewLoader(nil)
	defer l.Close()

	size, err := l.Size(context.Background(), headerOnly)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if size != (tile.Size{Width: 40, Height: 25}) {
		t.Errorf("Expected 40x25, got %v", size)
	}
	if _, err := l.Load(context.Background(), headerOnly); !errors.Is(err, tile.ErrUnsupportedSourceImage) {
		t.Errorf("Expected full decode of a header-only file to fail, got %v", err)
	}

	if _, err := l.Size(context.Background(), garbage); !errors.Is(err, tile.ErrUnsupportedSourceImage) {
		t.Errorf("Expected %v, got %v", tile.ErrUnsupportedSourceImage, err)
	}
	if _, err := l.Size(context.Background(), filepath.Join(dir, "missing.png")); !errors.Is(err, tile.ErrIO) {
		t.Errorf("Expected %v, got %v", tile.ErrIO, err)
	}
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := SplitGoogleStoragePath("gs://panoramas/2024/face.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bucket != "panoramas" || object != "2024/face.png" {
		t.Errorf("Unexpected split %q %q", bucket, object)
	}

	if _, _, err := SplitGoogleStoragePath("gs:///face.png"); err == nil {
		t.Error("Expected error for empty bucket")
	}
}
