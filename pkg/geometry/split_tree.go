package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/material"
	"github.com/samber/lo"
)

// Leaf threshold: nodes with fewer triangles than this are not split
const splitLeafSize = 256

// splitBoxPadding keeps triangles lying on a child box face inside that box
const splitBoxPadding = 1e-5

// splitNode is a node of the mesh partition. Leaves hold triangles; internal
// nodes hold two children and a box around each of them.
type splitNode struct {
	triangles []*Triangle

	left, right       *splitNode
	leftBox, rightBox *Cube
}

func (n *splitNode) isLeaf() bool {
	return n.left == nil
}

// buildSplitTree recursively partitions triangles at the midpoint of the
// longest axis of their bounds. Triangles straddling the split go to both
// sides. An axis that leaves one side with every triangle is abandoned for
// the next longest; when all three fail the node becomes a leaf.
func buildSplitTree(triangles []*Triangle) *splitNode {
	if len(triangles) < splitLeafSize {
		return &splitNode{triangles: triangles}
	}

	bounds := trianglesBounds(triangles)
	var tried [3]bool
	for {
		axis := bounds.LongestAxis(tried)
		if axis < 0 {
			return &splitNode{triangles: triangles}
		}
		tried[axis] = true

		mid := (bounds.Min.Get(axis) + bounds.Max.Get(axis)) / 2
		left, right := partitionTriangles(triangles, axis, mid)
		if len(left) == len(triangles) || len(right) == len(triangles) {
			continue
		}

		return &splitNode{
			left:     buildSplitTree(left),
			right:    buildSplitTree(right),
			leftBox:  boxAround(left),
			rightBox: boxAround(right),
		}
	}
}

// partitionTriangles buckets triangles by which side of the split they touch
func partitionTriangles(triangles []*Triangle, axis int, mid float32) ([]*Triangle, []*Triangle) {
	left := lo.Filter(triangles, func(t *Triangle, _ int) bool {
		return t.bbox.Min.Get(axis) <= mid
	})
	right := lo.Filter(triangles, func(t *Triangle, _ int) bool {
		return t.bbox.Max.Get(axis) > mid
	})
	return left, right
}

func trianglesBounds(triangles []*Triangle) core.AABB {
	return lo.Reduce(triangles[1:], func(box core.AABB, t *Triangle, _ int) core.AABB {
		return box.Union(t.bbox)
	}, triangles[0].bbox)
}

func boxAround(triangles []*Triangle) *Cube {
	bounds := trianglesBounds(triangles).Expand(splitBoxPadding)
	return NewCubeFromCorners(bounds.Min, bounds.Max)
}

// intersect returns the nearest triangle hit below this node
func (n *splitNode) intersect(start, direction core.Vec3, texture *material.ImageTexture) (IntersectionResult, bool) {
	if n.isLeaf() {
		return intersectTriangles(n.triangles, start, direction, texture)
	}

	leftHit, leftOk := n.leftBox.Intersects(start, direction)
	rightHit, rightOk := n.rightBox.Intersects(start, direction)

	switch {
	case !leftOk && !rightOk:
		return IntersectionResult{}, false
	case !rightOk:
		return n.left.intersect(start, direction, texture)
	case !leftOk:
		return n.right.intersect(start, direction, texture)
	}

	near, far, farEntry := n.left, n.right, rightHit.Distance
	if rightHit.Distance < leftHit.Distance {
		near, far, farEntry = n.right, n.left, leftHit.Distance
	}

	nearResult, nearOk := near.intersect(start, direction, texture)
	// Every triangle of the far child lies beyond its box entry
	if nearOk && nearResult.Distance <= farEntry {
		return nearResult, true
	}

	farResult, farOk := far.intersect(start, direction, texture)
	if !farOk || (nearOk && nearResult.Distance <= farResult.Distance) {
		return nearResult, nearOk
	}
	return farResult, true
}

// intersectTriangles scans triangles for the nearest hit
func intersectTriangles(triangles []*Triangle, start, direction core.Vec3, texture *material.ImageTexture) (IntersectionResult, bool) {
	var closest *Triangle
	var closestDist, closestU, closestV float32

	for _, t := range triangles {
		dist, u, v, ok := t.Intersect(start, direction)
		if ok && (closest == nil || dist < closestDist) {
			closest, closestDist, closestU, closestV = t, dist, u, v
		}
	}

	if closest == nil {
		return IntersectionResult{}, false
	}

	normal := closest.FacingNormal(direction)
	result := IntersectionResult{
		Distance:    closestDist,
		MaxDistance: closestDist,
		Normal:      normal,
		ExitNormal:  normal,
	}
	if texture != nil {
		result.Color = texture.Sample(closest.TexCoord(closestU, closestV))
		result.HasColor = true
	}
	return result, true
}

// splitTreeStats contains statistics about a partition tree
type splitTreeStats struct {
	leaves       int
	maxDepth     int
	maxLeafSize  int
	triangleRefs int // triangles counted once per leaf they appear in
}

func (n *splitNode) stats() splitTreeStats {
	var s splitTreeStats
	n.collectStats(0, &s)
	return s
}

func (n *splitNode) collectStats(depth int, s *splitTreeStats) {
	if depth > s.maxDepth {
		s.maxDepth = depth
	}
	if n.isLeaf() {
		s.leaves++
		s.triangleRefs += len(n.triangles)
		s.maxLeafSize = max(s.maxLeafSize, len(n.triangles))
		return
	}
	n.left.collectStats(depth+1, s)
	n.right.collectStats(depth+1, s)
}
