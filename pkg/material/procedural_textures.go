package material

import (
	"image"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/fogleman/gg"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture.
// The check touching the top left corner uses color1.
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	dc := gg.NewContext(width, height)
	setColor(dc, color1)
	dc.Clear()

	setColor(dc, color2)
	for y := 0; y < height; y += checkSize {
		for x := 0; x < width; x += checkSize {
			if (x/checkSize+y/checkSize)%2 == 1 {
				dc.DrawRectangle(float64(x), float64(y), float64(checkSize), float64(checkSize))
			}
		}
	}
	dc.Fill()

	return NewImageTextureFromImage(dc.Image())
}

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		t := float32(0)
		if height > 1 {
			t = float32(y) / float32(height-1)
		}
		color := color1.Multiply(1 - t).Add(color2.Multiply(t))

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewImageTextureFromImage converts any decoded image into a texture
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(float32(r)/65535, float32(g)/65535, float32(b)/65535)
		}
	}

	return NewImageTexture(width, height, pixels)
}

func setColor(dc *gg.Context, c core.Vec3) {
	dc.SetRGB(float64(c.X), float64(c.Y), float64(c.Z))
}
