package renderer

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// Camera generates primary rays from a fixed eye through a unit viewport
// one unit in front of it
type Camera struct {
	origin         core.Vec3
	view           core.Matrix33
	width          int
	height         int
	viewportWidth  float32
	viewportHeight float32
	focalLength    float32
}

// NewCamera creates a camera for the scene's eye, view rotation and image size
func NewCamera(s *scene.Scene) *Camera {
	return &Camera{
		origin:         s.Eye,
		view:           s.View(),
		width:          s.Width,
		height:         s.Height,
		viewportWidth:  1,
		viewportHeight: 1,
		focalLength:    1,
	}
}

// Direction returns the unit direction through pixel (x, y). Image rows grow
// along +Y.
func (c *Camera) Direction(x, y int) core.Vec3 {
	dir := core.NewVec3(
		c.viewportWidth*float32(x-c.width/2)/float32(c.width),
		c.viewportHeight*float32(y-c.height/2)/float32(c.height),
		c.focalLength,
	).Normalize()
	return dir.MulMatrix(c.view)
}

// GetRay generates the primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y int) core.Ray {
	return core.NewRay(c.origin, c.Direction(x, y))
}
