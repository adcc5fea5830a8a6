package lights

import "github.com/df07/go-csg-raytracer/pkg/core"

// AmbientLight lights every surface evenly
type AmbientLight struct {
	Intensity float32
}

// NewAmbientLight creates a new ambient light
func NewAmbientLight(intensity float32) *AmbientLight {
	return &AmbientLight{Intensity: intensity}
}

func (al *AmbientLight) Type() LightType {
	return LightTypeAmbient
}

func (al *AmbientLight) Diffuse(point, normal core.Vec3) float32 {
	return al.Intensity
}

func (al *AmbientLight) Specular(point, normal, eye core.Vec3, exponent uint32) float32 {
	return 0
}

func (al *AmbientLight) Position() (core.Vec3, bool) {
	return core.Vec3{}, false
}
