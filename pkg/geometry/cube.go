package geometry

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
)

const (
	// cubePadding is the minimum thickness given to a flat box
	cubePadding = 1e-4
	// hitMergeTolerance merges face hits at the same distance, e.g. through an edge
	hitMergeTolerance = 1e-6
)

// Cube is an axis-aligned box made up of 6 bounded planes with outward normals
type Cube struct {
	Min   core.Vec3
	Max   core.Vec3
	faces [6]*Plane
}

// NewCube creates the unit cube [-0.5,0.5]³
func NewCube() *Cube {
	return NewCubeFromCorners(core.NewVec3(-0.5, -0.5, -0.5), core.NewVec3(0.5, 0.5, 0.5))
}

// NewCubeFromCorners creates a box between two opposite corners.
// Axes with no extent are padded so every face stays a proper parallelogram.
func NewCubeFromCorners(a, b core.Vec3) *Cube {
	minCorner := a.MinVec(b)
	maxCorner := a.MaxVec(b)
	for axis := 0; axis < 3; axis++ {
		if maxCorner.Get(axis)-minCorner.Get(axis) < cubePadding {
			minCorner, maxCorner = padAxis(minCorner, maxCorner, axis)
		}
	}

	c := &Cube{Min: minCorner, Max: maxCorner}
	c.generateFaces()
	return c
}

func padAxis(minCorner, maxCorner core.Vec3, axis int) (core.Vec3, core.Vec3) {
	center := (minCorner.Get(axis) + maxCorner.Get(axis)) / 2
	low, high := center-cubePadding/2, center+cubePadding/2
	return withAxis(minCorner, axis, low), withAxis(maxCorner, axis, high)
}

// generateFaces creates the 6 faces. Edge order is chosen so each normal points outward.
func (c *Cube) generateFaces() {
	size := c.Max.Subtract(c.Min)
	dx := core.NewVec3(size.X, 0, 0)
	dy := core.NewVec3(0, size.Y, 0)
	dz := core.NewVec3(0, 0, size.Z)

	// -Z, +Z, -X, +X, -Y, +Y
	c.faces = [6]*Plane{
		NewPlaneFromEdges(c.Min, dy, dx),
		NewPlaneFromEdges(core.NewVec3(c.Min.X, c.Min.Y, c.Max.Z), dx, dy),
		NewPlaneFromEdges(c.Min, dz, dy),
		NewPlaneFromEdges(core.NewVec3(c.Max.X, c.Min.Y, c.Min.Z), dy, dz),
		NewPlaneFromEdges(c.Min, dx, dz),
		NewPlaneFromEdges(core.NewVec3(c.Min.X, c.Max.Y, c.Min.Z), dz, dx),
	}
}

// Intersects finds the two nearest distinct face hits. A single hit means
// the ray starts inside the box, so the entry is reported at 0.
func (c *Cube) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	var hits [2]IntersectionResult
	count := 0

	for _, face := range c.faces {
		hit, ok := face.Intersects(start, direction)
		if !ok {
			continue
		}
		if count == 1 && math32.Abs(hit.Distance-hits[0].Distance) <= hitMergeTolerance {
			continue
		}
		hits[count] = hit
		count++
		if count == 2 {
			break
		}
	}

	switch count {
	case 0:
		return IntersectionResult{}, false
	case 1:
		return IntersectionResult{
			Distance:    0,
			MaxDistance: hits[0].Distance,
			Normal:      hits[0].Normal,
			ExitNormal:  hits[0].Normal,
		}, true
	}

	entry, exit := hits[0], hits[1]
	if exit.Distance < entry.Distance {
		entry, exit = exit, entry
	}
	return IntersectionResult{
		Distance:    entry.Distance,
		MaxDistance: exit.Distance,
		Normal:      entry.Normal,
		ExitNormal:  exit.Normal,
	}, true
}
