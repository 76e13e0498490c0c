package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kiesman99/tilepyramid/pkg/tile"
)

const googleStoragePrefix = "gs://"

// Source is a decoded source image together with where it came from
type Source struct {
	Image image.Image
	Path  string
	Stem  string
}

// Width returns the source width in pixels
func (s *Source) Width() int {
	return s.Image.Bounds().Dx()
}

// Height returns the source height in pixels
func (s *Source) Height() int {
	return s.Image.Bounds().Dy()
}

// NewSource wraps an already decoded image
func NewSource(img image.Image, path string) *Source {
	return &Source{
		Image: img,
		Path:  path,
		Stem:  tile.Stem(path),
	}
}

// Loader reads source images from the local filesystem or from Google Storage
type Loader struct {
	mu     sync.Mutex
	client *storage.Client
}

// NewLoader creates a loader. The storage client may be nil, in which case one
// is created with default credentials the first time a gs:// path is opened.
func NewLoader(client *storage.Client) *Loader {
	return &Loader{client: client}
}

// Load reads and decodes the image at path
func (l *Loader) Load(ctx context.Context, path string) (*Source, error) {
	data, err := l.read(ctx, path)
	if err != nil {
		return nil, tile.Wrap(tile.KindIO, "open source", path, err)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, tile.Wrap(tile.KindUnsupportedSourceImage, "decode", path, err)
	}

	return NewSource(img, path), nil
}

// Size reads only the header of the image at path and returns its
// dimensions. The raster is not decoded.
func (l *Loader) Size(ctx context.Context, path string) (tile.Size, error) {
	data, err := l.read(ctx, path)
	if err != nil {
		return tile.Size{}, tile.Wrap(tile.KindIO, "open source", path, err)
	}

	size, err := DecodeSize(data)
	if err != nil {
		return tile.Size{}, tile.Wrap(tile.KindUnsupportedSourceImage, "decode header", path, err)
	}
	return size, nil
}

// Close releases the storage client if the loader created one
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client == nil {
		return nil
	}
	err := l.client.Close()
	l.client = nil
	return err
}

// The image decoders swallow reader errors, so the whole file is read first
// and decoding happens on a byte reader.
func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	if !IsGoogleStorage(path) {
		return os.ReadFile(path)
	}

	bucket, object, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, err
	}

	client, err := l.storageClient(ctx)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (l *Loader) storageClient(ctx context.Context) (*storage.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	l.client = client
	return client, nil
}

// IsGoogleStorage reports whether path names a Google Storage object
func IsGoogleStorage(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// SplitGoogleStoragePath splits gs://bucket/object into bucket and object
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("google storage path %q is not of the form gs://bucket/object", path)
	}
	return parts[0], parts[1], nil
}

// Decode decodes an image in any registered format: PNG, JPEG, GIF, BMP,
// TIFF or WebP.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}
	return img, nil
}

// DecodeSize returns the dimensions stored in the header of an encoded image
func DecodeSize(data []byte) (tile.Size, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return tile.Size{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return tile.Size{}, fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	return tile.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
