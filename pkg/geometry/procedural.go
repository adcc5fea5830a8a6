package geometry

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/loaders"
)

// NewUVSphereData tessellates a sphere of radius 0.5 into latitude rings and
// longitude segments, with equirectangular texture coordinates. Pole caps are
// single triangles rather than degenerate quads.
func NewUVSphereData(rings, segments int) loaders.MeshData {
	data := loaders.MeshData{}

	for i := 0; i <= rings; i++ {
		theta := math32.Pi * float32(i) / float32(rings)
		for j := 0; j <= segments; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(segments)
			data.Vertices = append(data.Vertices, core.NewVec3(
				math32.Sin(theta)*math32.Cos(phi),
				math32.Cos(theta),
				math32.Sin(theta)*math32.Sin(phi),
			).Multiply(sphereRadius))
			data.TexCoords = append(data.TexCoords, core.NewVec2(
				float32(j)/float32(segments),
				1-float32(i)/float32(rings),
			))
		}
	}

	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := i*(segments+1) + j
			b := a + segments + 1
			if i != 0 {
				data.Faces = append(data.Faces, a, b, a+1)
			}
			if i != rings-1 {
				data.Faces = append(data.Faces, a+1, b, b+1)
			}
		}
	}

	return data
}
