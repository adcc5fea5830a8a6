package material

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the texel nearest to uv. UVs wrap, and V=0 is the bottom row.
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	u := uv.X - math32.Floor(uv.X)
	v := uv.Y - math32.Floor(uv.Y)

	x := int(u * float32(t.Width))
	y := int((1 - v) * float32(t.Height))

	x = clampIndex(x, t.Width)
	y = clampIndex(y, t.Height)

	return t.Pixels[y*t.Width+x]
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
