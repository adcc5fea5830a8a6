package geometry

import "github.com/df07/go-csg-raytracer/pkg/core"

// NoneShape is never hit
type NoneShape struct{}

func (NoneShape) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	return IntersectionResult{}, false
}
