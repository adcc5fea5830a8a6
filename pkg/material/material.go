package material

import "github.com/df07/go-csg-raytracer/pkg/core"

// Material describes how an object's surface responds to light
type Material struct {
	Color      core.Vec3 // Base colour, each channel in [0,1]
	Specular   uint32    // Phong exponent, 0 disables highlights
	Reflection float32   // Mirror fraction in [0,1]
}

// DefaultMaterial returns a matte white material
func DefaultMaterial() Material {
	return Material{Color: core.NewVec3(1, 1, 1)}
}

// IsReflective reports whether the material mirrors any light
func (m Material) IsReflective() bool {
	return m.Reflection > 0
}
