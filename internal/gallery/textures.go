package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// UploadCategory is the category given to items built from uploads.
const UploadCategory = "Upload"

// ErrUnsupportedImage is returned when an upload cannot be decoded.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Textures turns uploaded images into item textures stored on disk.
type Textures struct {
	dir     string
	prefix  string
	width   int
	height  int
	quality int
	format  string
}

// TextureOptions configures a Textures.
type TextureOptions struct {
	// Dir is where textures are written.
	Dir string
	// URLPrefix is prepended to the file name to form the item URL.
	URLPrefix string
	Width     int
	Height    int
	Quality   int
	// Format is "jpeg" or "webp".
	Format string
}

// NewTextures creates the texture directory if needed.
func NewTextures(opts TextureOptions) (*Textures, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	format := opts.Format
	if format == "" {
		format = "jpeg"
	}
	return &Textures{
		dir:     opts.Dir,
		prefix:  opts.URLPrefix,
		width:   opts.Width,
		height:  opts.Height,
		quality: opts.Quality,
		format:  format,
	}, nil
}

// Dir returns the directory textures are written to.
func (t *Textures) Dir() string {
	return t.dir
}

// Import decodes an image, fits it into the texture size and stores it. The
// returned item is titled after the original file name.
func (t *Textures) Import(r io.Reader, filename string) (Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Item{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	img, err := Decode(data)
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", filename, err)
	}
	img = imaging.Fit(img, t.width, t.height, imaging.Lanczos)

	id := uuid.New().String()
	name := id + t.ext()
	if err := t.save(img, filepath.Join(t.dir, name)); err != nil {
		return Item{}, fmt.Errorf("failed to save %s: %w", filename, err)
	}

	return Item{
		ID:       id,
		URL:      t.prefix + name,
		Title:    filename,
		Category: UploadCategory,
	}, nil
}

// Decode reads any of the registered formats, falling back to the libwebp
// decoder for WebP variants the pure Go decoder rejects.
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, ErrUnsupportedImage
}

func (t *Textures) ext() string {
	if t.format == "webp" {
		return ".webp"
	}
	return ".jpg"
}

func (t *Textures) save(img image.Image, path string) error {
	if t.format == "webp" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(t.quality)})
	}
	return imaging.Save(img, path, imaging.JPEGQuality(t.quality))
}
