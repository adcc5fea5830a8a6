package lights

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// PointLight radiates from a single position
type PointLight struct {
	Origin    core.Vec3
	Intensity float32
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity float32) *PointLight {
	return &PointLight{Origin: position, Intensity: intensity}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Diffuse scales the intensity by the cosine between the normal and the light direction
func (pl *PointLight) Diffuse(point, normal core.Vec3) float32 {
	toLight := pl.Origin.Subtract(point)
	return math32.Max(toLight.Cos(normal), 0) * pl.Intensity
}

// Specular mirrors the light direction about the normal and compares it with the view ray
func (pl *PointLight) Specular(point, normal, eye core.Vec3, exponent uint32) float32 {
	toLight := pl.Origin.Subtract(point)
	r := toLight.Reflect(normal.Normalize())

	eyeCosR := -eye.Cos(r)
	if eyeCosR <= 0 {
		return 0
	}
	return pl.Intensity * math32.Pow(eyeCosR, float32(exponent))
}

func (pl *PointLight) Position() (core.Vec3, bool) {
	return pl.Origin, true
}
