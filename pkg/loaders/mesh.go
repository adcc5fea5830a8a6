package loaders

import (
	"path/filepath"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// MeshData is an indexed triangle list
type MeshData struct {
	Vertices  []core.Vec3 // Vertex positions
	TexCoords []core.Vec2 // Per-vertex texture coordinates, empty if not present
	Faces     []int       // Triangle indices (3 per triangle)
}

// TriangleCount returns the number of triangles described by Faces
func (m MeshData) TriangleCount() int {
	return len(m.Faces) / 3
}

// Validate checks that every face index refers to a vertex
func (m MeshData) Validate() error {
	if len(m.Faces)%3 != 0 {
		return errors.Errorf("face index count %d is not a multiple of 3", len(m.Faces))
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != len(m.Vertices) {
		return errors.Errorf("%d texture coordinates for %d vertices", len(m.TexCoords), len(m.Vertices))
	}
	for i, index := range m.Faces {
		if index < 0 || index >= len(m.Vertices) {
			return errors.Errorf("face %d refers to vertex %d of %d", i/3, index, len(m.Vertices))
		}
	}
	return nil
}

// fan appends a polygon as a triangle fan around its first corner
func (m *MeshData) fan(polygon []int) {
	for i := 1; i+1 < len(polygon); i++ {
		m.Faces = append(m.Faces, polygon[0], polygon[i], polygon[i+1])
	}
}

// LoadMesh loads a mesh file, choosing the parser from the file extension
func LoadMesh(filename string) (*MeshData, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, errors.Errorf("unsupported mesh format %q", ext)
	}
}
