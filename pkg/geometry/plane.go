package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// planeTolerance widens the plane's bounding box so hits on its border survive rounding
const planeTolerance = 1e-5

// Plane is a bounded parallelogram spanned by two edges from a corner point
type Plane struct {
	Point core.Vec3 // Corner of the parallelogram
	Edge1 core.Vec3
	Edge2 core.Vec3

	normal core.Vec3
	offset float32 // normal . Point
	bounds core.AABB
}

// NewPlane creates the unit plane at z=0 spanning [-0.5,0.5] on X and Y, facing -Z
func NewPlane() *Plane {
	return NewPlaneFromEdges(
		core.NewVec3(0.5, -0.5, 0),
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0),
	)
}

// NewPlaneFromEdges creates a plane from a corner and two edge vectors.
// The normal is Edge1 x Edge2.
func NewPlaneFromEdges(point, edge1, edge2 core.Vec3) *Plane {
	p := &Plane{Point: point, Edge1: edge1, Edge2: edge2}
	// Degenerate edges leave a zero normal which never reports a hit
	_ = p.Init()
	return p
}

// Init precomputes the normal, plane offset and bounding box
func (p *Plane) Init() error {
	cross := p.Edge1.Cross(p.Edge2)
	if cross.LengthSquared() == 0 {
		p.normal = core.Vec3{}
		return errors.Errorf("plane edges %v and %v are parallel", p.Edge1, p.Edge2)
	}

	p.normal = cross.Normalize()
	p.offset = p.normal.Dot(p.Point)
	p.bounds = core.NewAABBFromPoints(
		p.Point,
		p.Point.Add(p.Edge1),
		p.Point.Add(p.Edge2),
		p.Point.Add(p.Edge1).Add(p.Edge2),
	).Expand(planeTolerance)
	return nil
}

// Normal returns the plane's unit normal
func (p *Plane) Normal() core.Vec3 {
	return p.normal
}

// Intersects reports the single crossing with the bounded plane; entry equals exit
func (p *Plane) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	denominator := direction.Dot(p.normal)
	if denominator == 0 {
		return IntersectionResult{}, false
	}

	t := (p.offset - start.Dot(p.normal)) / denominator
	if t < 0 {
		return IntersectionResult{}, false
	}

	if !p.bounds.Contains(start.Add(direction.Multiply(t))) {
		return IntersectionResult{}, false
	}

	return IntersectionResult{
		Distance:    t,
		MaxDistance: t,
		Normal:      p.normal,
		ExitNormal:  p.normal,
	}, true
}
