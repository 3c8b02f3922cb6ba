package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	"github.com/google/renameio/v2"
)

// Extension is the file extension of every thumbnail written.
const Extension = ".webp"

const (
	DefaultMaxWidth  = 1000
	DefaultMaxHeight = 600
	DefaultQuality   = 80
	// DefaultMaxPixels bounds the source image area accepted for decoding.
	DefaultMaxPixels = 64 << 20
)

var (
	// ErrDecode reports bytes that are not a supported, sane image.
	ErrDecode = errors.New("thumbnail: decode image")
	// ErrEncode reports a failure producing WebP output.
	ErrEncode = errors.New("thumbnail: encode webp")
	// ErrWrite reports a failure persisting the thumbnail.
	ErrWrite = errors.New("thumbnail: write file")
)

// Options configures a Normalizer. Zero fields take the defaults.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	MaxPixels int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Result describes a written thumbnail.
type Result struct {
	Path   string
	Width  int
	Height int
	Size   int
}

// Normalizer holds immutable options and is safe for concurrent use.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer for opts.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize decodes data, fits it into the bounding box, encodes it as
// WebP and writes it to Path(dir, id). Nothing is written unless every
// earlier step succeeded. The directory must already exist.
func (n *Normalizer) Normalize(data []byte, dir, id string) (Result, error) {
	img, err := n.Decode(data)
	if err != nil {
		return Result{}, err
	}
	img = n.Fit(img)
	encoded, err := n.Encode(img)
	if err != nil {
		return Result{}, err
	}
	p, err := n.Write(dir, id, encoded)
	if err != nil {
		return Result{}, err
	}
	b := img.Bounds()
	return Result{Path: p, Width: b.Dx(), Height: b.Dy(), Size: len(encoded)}, nil
}

// Decode parses data in any registered format, applying EXIF orientation.
// gen2brain/webp registers WebP; imaging brings JPEG, PNG, GIF, BMP and TIFF.
// Images whose declared area exceeds MaxPixels are refused before their
// pixels are allocated.
func (n *Normalizer) Decode(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s image has no pixels", ErrDecode, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(n.opts.MaxPixels) {
		return nil, fmt.Errorf("%w: %s image %dx%d exceeds %d pixels", ErrDecode, format, cfg.Width, cfg.Height, n.opts.MaxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Fit scales img down with a Lanczos filter so it fits MaxWidth x
// MaxHeight, keeping its aspect ratio. Images already inside the box are
// returned unchanged.
func (n *Normalizer) Fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= n.opts.MaxWidth && b.Dy() <= n.opts.MaxHeight {
		return img
	}
	return imaging.Fit(img, n.opts.MaxWidth, n.opts.MaxHeight, imaging.Lanczos)
}

// Encode produces lossy WebP at the configured quality.
func (n *Normalizer) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: n.opts.Quality, Method: 4}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrEncode)
	}
	return buf.Bytes(), nil
}

// Path returns where the thumbnail for id lives under dir.
func Path(dir, id string) string {
	return filepath.Join(dir, id+Extension)
}

// Write atomically replaces Path(dir, id) with data: the bytes go to a
// temporary file in dir which is synced and renamed into place, so a
// failure never leaves a partial thumbnail behind.
func (n *Normalizer) Write(dir, id string, data []byte) (string, error) {
	target := Path(dir, id)

	pending, err := renameio.NewPendingFile(target, renameio.WithPermissions(0o644))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write(data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	return target, nil
}
