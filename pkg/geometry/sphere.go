package geometry

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
)

const sphereRadius = 0.5

// Sphere is a sphere of radius 0.5 centred on the local origin
type Sphere struct{}

// NewSphere creates a new sphere
func NewSphere() *Sphere {
	return &Sphere{}
}

// Intersects solves |start + t*direction|^2 = r^2. Both roots are returned
// even when they lie behind the ray origin.
func (s *Sphere) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := direction.Dot(direction)
	halfB := start.Dot(direction)
	c := start.Dot(start) - sphereRadius*sphereRadius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return IntersectionResult{}, false
	}

	sqrtD := math32.Sqrt(discriminant)
	entry := (-halfB - sqrtD) / a
	exit := (-halfB + sqrtD) / a

	return IntersectionResult{
		Distance:    entry,
		MaxDistance: exit,
		Normal:      start.Add(direction.Multiply(entry)).Normalize(),
		ExitNormal:  start.Add(direction.Multiply(exit)).Normalize(),
	}, true
}
