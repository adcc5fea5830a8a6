package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// Triangle is a mesh face stored as a base vertex and two edges
type Triangle struct {
	V0    core.Vec3
	Edge1 core.Vec3 // V1 - V0
	Edge2 core.Vec3 // V2 - V0

	UV0, UV1, UV2 core.Vec2 // Texture coordinates of the three corners

	normal core.Vec3 // Cached unit normal
	bbox   core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	return NewTexturedTriangle(v0, v1, v2, core.Vec2{}, core.Vec2{}, core.Vec2{})
}

// NewTexturedTriangle creates a triangle with per-vertex texture coordinates
func NewTexturedTriangle(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2) *Triangle {
	t := &Triangle{
		V0:    v0,
		Edge1: v1.Subtract(v0),
		Edge2: v2.Subtract(v0),
		UV0:   uv0,
		UV1:   uv1,
		UV2:   uv2,
	}

	// Degenerate triangles keep a zero normal; they are never hit anyway
	if cross := t.Edge1.Cross(t.Edge2); cross.LengthSquared() > 0 {
		t.normal = cross.Normalize()
	}
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// Intersect tests the ray against both faces of the triangle using the
// Möller-Trumbore algorithm. It returns the ray parameter and the
// barycentric coordinates of the hit.
func (t *Triangle) Intersect(start, direction core.Vec3) (dist, u, v float32, ok bool) {
	h := direction.Cross(t.Edge2)
	det := t.Edge1.Dot(h)

	// Ray parallel to the triangle's plane
	if det == 0 {
		return 0, 0, 0, false
	}

	f := 1 / det
	s := start.Subtract(t.V0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(t.Edge1)
	v = f * direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	dist = f * t.Edge2.Dot(q)
	if dist < core.Epsilon {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// FacingNormal returns the unit normal flipped to oppose the ray direction
func (t *Triangle) FacingNormal(direction core.Vec3) core.Vec3 {
	if t.normal.Dot(direction) > 0 {
		return t.normal.Negate()
	}
	return t.normal
}

// TexCoord interpolates the corner texture coordinates at barycentric (u, v)
func (t *Triangle) TexCoord(u, v float32) core.Vec2 {
	return t.UV0.Multiply(1 - u - v).Add(t.UV1.Multiply(u)).Add(t.UV2.Multiply(v))
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
