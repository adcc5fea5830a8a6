package loaders

import (
	"image"
	_ "image/gif" // GIF decoder

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image
func LoadImage(filename string) (image.Image, error) {
	img, err := gg.LoadImage(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load image %s", filename)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.Errorf("image %s is empty", filename)
	}
	return img, nil
}
