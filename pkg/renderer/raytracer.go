package renderer

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// primaryTMin skips everything between the eye and the viewport
const primaryTMin = 1

// Raytracer shades rays against a read-only scene. A Raytracer keeps its own
// ray counters, so each worker needs its own instance.
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	stats  RenderStats
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:  s,
		camera: NewCamera(s),
	}
}

// hitWorld returns the nearest object whose entry distance lies in [tMin, tMax]
func (rt *Raytracer) hitWorld(start, direction core.Vec3, tMin, tMax float32) (geometry.IntersectionResult, *geometry.Object, bool) {
	var closest geometry.IntersectionResult
	var closestObject *geometry.Object

	for _, object := range rt.scene.Objects {
		result, hitObject, ok := object.Intersects(start, direction)
		if !ok || result.Distance < tMin || result.Distance > tMax {
			continue
		}
		if closestObject == nil || result.Distance < closest.Distance {
			closest = result
			closestObject = hitObject
		}
	}

	return closest, closestObject, closestObject != nil
}

// Trace returns the colour seen along a ray, or false when the ray hits
// nothing or depth is exhausted
func (rt *Raytracer) Trace(start, direction core.Vec3, tMin, tMax float32, depth int) (core.Vec3, bool) {
	if depth <= 0 {
		return core.Vec3{}, false
	}

	hit, object, ok := rt.hitWorld(start, direction, tMin, tMax)
	if !ok {
		return core.Vec3{}, false
	}

	point := start.Add(direction.Multiply(hit.Distance))
	intensity := rt.lightIntensity(point, hit.Normal, direction, object.Material.Specular)

	base := object.Material.Color
	if hit.HasColor {
		base = hit.Color
	}
	result := base.Multiply(intensity)

	reflection := object.Reflection()
	if reflection > 0 {
		result = result.Multiply(1 - reflection)

		reflected := direction.Negate().Reflect(hit.Normal.Normalize()).Normalize()
		rt.stats.ReflectionRays++
		if reflectedColor, ok := rt.Trace(point, reflected, core.Epsilon, math32.Inf(1), depth-1); ok {
			result = result.Add(reflectedColor.Multiply(reflection))
		}
	}

	return result, true
}

// lightIntensity sums the diffuse and specular terms of every unoccluded light
func (rt *Raytracer) lightIntensity(point, normal, direction core.Vec3, specular uint32) float32 {
	var intensity float32

	for _, light := range rt.scene.Lights {
		if position, ok := light.Position(); ok && rt.inShadow(point, position) {
			continue
		}
		intensity += light.Diffuse(point, normal)
		if specular > 0 {
			intensity += light.Specular(point, normal, direction, specular)
		}
	}

	return intensity
}

// inShadow reports whether anything lies strictly between point and the light
func (rt *Raytracer) inShadow(point, lightPosition core.Vec3) bool {
	rt.stats.ShadowRays++
	toLight := lightPosition.Subtract(point)
	hit, _, ok := rt.hitWorld(point, toLight, core.Epsilon, 1)
	return ok && hit.Distance < 1
}

// TracePixel traces the primary ray through pixel (x, y)
func (rt *Raytracer) TracePixel(x, y int) (core.Vec3, bool) {
	rt.stats.PrimaryRays++
	ray := rt.camera.GetRay(x, y)
	return rt.Trace(ray.Origin, ray.Direction, primaryTMin, math32.Inf(1), rt.scene.MaxDepth)
}

// HitPixel returns the nearest object along the primary ray through pixel (x, y)
func (rt *Raytracer) HitPixel(x, y int) (core.Ray, geometry.IntersectionResult, *geometry.Object, bool) {
	ray := rt.camera.GetRay(x, y)
	hit, object, ok := rt.hitWorld(ray.Origin, ray.Direction, primaryTMin, math32.Inf(1))
	return ray, hit, object, ok
}

// RenderBounds renders the pixels inside bounds into img and returns the
// counters accumulated while doing so
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) RenderStats {
	rt.stats = RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rt.stats.TotalPixels++
			c, ok := rt.TracePixel(x, y)
			if !ok {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			rt.stats.HitPixels++
			img.SetRGBA(x, y, toRGBA(c))
		}
	}

	return rt.stats
}

// toRGBA clamps each channel to [0,1] and scales it to 8 bits
func toRGBA(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(c.X * 255),
		G: uint8(c.Y * 255),
		B: uint8(c.Z * 255),
		A: 255,
	}
}
