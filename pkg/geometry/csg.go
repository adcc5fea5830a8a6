package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Operands of both combinators must be convex: each contributes a single
// [entry, exit] interval.

// Intersection is the solid shared by both operands
type Intersection struct {
	A *Object
	B *Object
}

// NewIntersection creates A ∩ B
func NewIntersection(a, b *Object) *Intersection {
	return &Intersection{A: a, B: b}
}

func (c *Intersection) Init() error {
	return initOperands(c.A, c.B)
}

func (c *Intersection) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	a, _, ok := c.A.Intersects(start, direction)
	if !ok {
		return IntersectionResult{}, false
	}
	b, _, ok := c.B.Intersects(start, direction)
	if !ok {
		return IntersectionResult{}, false
	}

	result := a
	if b.Distance > a.Distance {
		result.Distance = b.Distance
		result.Normal = b.Normal
	}
	if b.MaxDistance < a.MaxDistance {
		result.MaxDistance = b.MaxDistance
		result.ExitNormal = b.ExitNormal
	}

	if result.MaxDistance < result.Distance {
		return IntersectionResult{}, false
	}
	return result, true
}

// Difference is the part of A outside B
type Difference struct {
	A *Object
	B *Object
}

// NewDifference creates A − B
func NewDifference(a, b *Object) *Difference {
	return &Difference{A: a, B: b}
}

func (c *Difference) Init() error {
	return initOperands(c.A, c.B)
}

func (c *Difference) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	a, _, ok := c.A.Intersects(start, direction)
	if !ok {
		return IntersectionResult{}, false
	}
	b, _, ok := c.B.Intersects(start, direction)
	if !ok {
		return a, true
	}

	switch {
	case a.Distance < b.Distance:
		// A is visible until the ray reaches B
		if b.Distance < a.MaxDistance {
			a.MaxDistance = b.Distance
			a.ExitNormal = b.Normal.Negate()
		}
		return a, true
	case b.MaxDistance < a.Distance:
		// B lies entirely in front of A
		return a, true
	default:
		// The surface carved out by B, facing back along the ray
		if a.MaxDistance < b.MaxDistance {
			return IntersectionResult{}, false
		}
		a.Distance = b.MaxDistance
		a.Normal = b.ExitNormal.Negate()
		return a, true
	}
}

func initOperands(a, b *Object) error {
	if a == nil || b == nil {
		return errors.New("boolean shape needs two operands")
	}
	if err := a.Init(); err != nil {
		return errors.Wrap(err, "first operand")
	}
	return errors.Wrap(b.Init(), "second operand")
}
