package imagesrc

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned when a file is not an image this package can decode.
var ErrUnsupported = errors.New("unsupported image format")

// Load decodes the image file at path into an RGBA PixelBuffer.
// PNG, JPEG, GIF, BMP, TIFF and WebP are detected from the content; TGA has no magic number
// and is picked by the .tga extension.
func Load(path string) (*PixelBuffer, error) {
	img, err := decode(path)
	if err != nil {
		return nil, fmt.Errorf("imagesrc: %w", err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("imagesrc: %s: empty image", path)
	}
	return FromImage(img), nil
}

func decode(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return decodeTGA(path)
	}
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return nil, err
	}
	if kind == filetype.Unknown || kind.MIME.Type != "image" {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, kind.Extension, err)
	}
	return img, nil
}

func decodeTGA(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := tga.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
