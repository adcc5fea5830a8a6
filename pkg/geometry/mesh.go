package geometry

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/loaders"
	"github.com/df07/go-csg-raytracer/pkg/material"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Mesh is a triangle soup normalised to fit the unit cube, partitioned by a
// split tree. A texture, when present, overrides the owning object's colour.
type Mesh struct {
	ModelPath   string // .obj or .ply file, loaded by Init
	TexturePath string // Optional texture image

	triangles []*Triangle
	texture   *material.ImageTexture
	bounds    *Object
	root      *splitNode
	scale     float32
}

// NewMesh creates a mesh that is loaded from disk on Init
func NewMesh(modelPath, texturePath string) *Mesh {
	return &Mesh{ModelPath: modelPath, TexturePath: texturePath}
}

// NewMeshFromData builds a mesh from in-memory geometry
func NewMeshFromData(data loaders.MeshData, texture *material.ImageTexture) (*Mesh, error) {
	m := &Mesh{texture: texture}
	if err := m.build(data); err != nil {
		return nil, err
	}
	return m, nil
}

// Init loads the model and texture and builds the split tree. Meshes built
// from data are already initialised.
func (m *Mesh) Init() error {
	if m.root != nil {
		return nil
	}
	if m.ModelPath == "" {
		return errors.New("mesh has no model path")
	}

	data, err := loaders.LoadMesh(m.ModelPath)
	if err != nil {
		return errors.Wrapf(err, "loading mesh %s", m.ModelPath)
	}

	if m.TexturePath != "" {
		img, err := loaders.LoadImage(m.TexturePath)
		if err != nil {
			return errors.Wrapf(err, "loading texture %s", m.TexturePath)
		}
		m.texture = material.NewImageTextureFromImage(img)
	}

	return errors.Wrapf(m.build(*data), "building mesh %s", m.ModelPath)
}

// build validates the faces, normalises the vertices and partitions the triangles
func (m *Mesh) build(data loaders.MeshData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if len(data.Faces) == 0 {
		return errors.New("mesh has no faces")
	}
	if len(data.TexCoords) == 0 {
		m.texture = nil
	}

	bounds := core.NewAABBFromPoints(referencedVertices(data)...)
	extent := bounds.Size()

	m.scale = math32.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if e := extent.Get(axis); e > 0 {
			m.scale = math32.Min(m.scale, 1/e)
		}
	}
	if math32.IsInf(m.scale, 1) {
		return errors.New("mesh has no extent")
	}
	move := bounds.Center().Multiply(m.scale)

	vertex := func(i int) core.Vec3 {
		return data.Vertices[i].Multiply(m.scale).Subtract(move)
	}
	texCoord := func(i int) core.Vec2 {
		if len(data.TexCoords) == 0 {
			return core.Vec2{}
		}
		return data.TexCoords[i]
	}

	m.triangles = make([]*Triangle, 0, len(data.Faces)/3)
	for i := 0; i < len(data.Faces); i += 3 {
		i0, i1, i2 := data.Faces[i], data.Faces[i+1], data.Faces[i+2]
		m.triangles = append(m.triangles, NewTexturedTriangle(
			vertex(i0), vertex(i1), vertex(i2),
			texCoord(i0), texCoord(i1), texCoord(i2),
		))
	}

	size := extent.Multiply(m.scale)
	for axis := 0; axis < 3; axis++ {
		size = withAxis(size, axis, math32.Max(size.Get(axis), cubePadding)+2*splitBoxPadding)
	}
	m.bounds = NewObject(NewCube()).WithSize(size)
	if err := m.bounds.Init(); err != nil {
		return err
	}

	m.root = buildSplitTree(m.triangles)
	return nil
}

// Intersects tests the bounding box first, then walks the split tree
func (m *Mesh) Intersects(start, direction core.Vec3) (IntersectionResult, bool) {
	if m.root == nil {
		return IntersectionResult{}, false
	}
	if _, _, ok := m.bounds.Intersects(start, direction); !ok {
		return IntersectionResult{}, false
	}
	return m.root.intersect(start, direction, m.texture)
}

// IntersectsBruteForce tests every triangle without the split tree
func (m *Mesh) IntersectsBruteForce(start, direction core.Vec3) (IntersectionResult, bool) {
	return intersectTriangles(m.triangles, start, direction, m.texture)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Scale returns the uniform factor applied to the source vertices
func (m *Mesh) Scale() float32 {
	return m.scale
}

// referencedVertices returns the vertices used by at least one face
func referencedVertices(data loaders.MeshData) []core.Vec3 {
	return lo.Map(data.Faces, func(index int, _ int) core.Vec3 {
		return data.Vertices[index]
	})
}

func withAxis(v core.Vec3, axis int, value float32) core.Vec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}
