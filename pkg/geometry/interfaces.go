package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// IntersectionResult describes the interval a ray spends inside a solid.
// Distance and MaxDistance are ray parameters, not lengths: callers may pass
// unnormalised directions.
type IntersectionResult struct {
	Distance    float32   // Entry parameter
	MaxDistance float32   // Exit parameter
	Normal      core.Vec3 // Surface normal at the entry point
	ExitNormal  core.Vec3 // Surface normal at the exit point
	Color       core.Vec3 // Override colour, valid when HasColor is set
	HasColor    bool
}

// Shape interface for solids that can be tested against a ray in their local frame
type Shape interface {
	Intersects(start, direction core.Vec3) (IntersectionResult, bool)
}

// Initializer interface for shapes that need one-time setup before tracing
type Initializer interface {
	Init() error
}

// initShape runs Init on shapes that implement Initializer
func initShape(shape Shape) error {
	if initializer, ok := shape.(Initializer); ok {
		return initializer.Init()
	}
	return nil
}
