package lights

import "github.com/df07/go-csg-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint   LightType = "point"
	LightTypeAmbient LightType = "ambient"
)

// Light interface for sources that contribute scalar intensity at a surface point
type Light interface {
	Type() LightType

	// Diffuse returns the Lambertian intensity at point with surface normal
	Diffuse(point, normal core.Vec3) float32

	// Specular returns the Phong highlight seen along eye for the given exponent
	Specular(point, normal, eye core.Vec3, exponent uint32) float32

	// Position returns the light's location. Lights without one are never shadow tested.
	Position() (core.Vec3, bool)
}
