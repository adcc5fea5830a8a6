package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

const tolerance = 1e-4

// newTestScene builds an initialised scene of the given size
func newTestScene(t *testing.T, width, height int, build func(s *scene.Scene)) *scene.Scene {
	t.Helper()
	s := scene.NewScene()
	s.Width = width
	s.Height = height
	build(s)
	if err := s.Init(); err != nil {
		t.Fatalf("scene Init failed: %v", err)
	}
	return s
}

func sphereAt(position core.Vec3) *geometry.Object {
	return geometry.NewObject(geometry.NewSphere()).WithPosition(position)
}

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestRaytracer_DepthZeroReturnsNothing(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 4)))
		s.AddAmbientLight(1)
	})
	rt := NewRaytracer(s)

	if _, ok := rt.Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 0); ok {
		t.Error("Expected no colour at depth 0")
	}
	if c, ok := rt.Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 1); !ok || !vecClose(c, core.NewVec3(1, 1, 1)) {
		t.Errorf("Expected white at depth 1, got %v (%t)", c, ok)
	}
}

func TestRaytracer_DiffuseLighting(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		lights   func(s *scene.Scene)
		expected core.Vec3
	}{
		{
			name:     "ambient only",
			color:    core.NewVec3(1, 0.5, 0),
			lights:   func(s *scene.Scene) { s.AddAmbientLight(0.2) },
			expected: core.NewVec3(0.2, 0.1, 0),
		},
		{
			name:     "point light at the eye faces the surface",
			color:    core.NewVec3(1, 1, 1),
			lights:   func(s *scene.Scene) { s.AddPointLight(core.Vec3{}, 0.6) },
			expected: core.NewVec3(0.6, 0.6, 0.6),
		},
		{
			name:  "point and ambient add up",
			color: core.NewVec3(0, 1, 0),
			lights: func(s *scene.Scene) {
				s.AddPointLight(core.Vec3{}, 0.6)
				s.AddAmbientLight(0.2)
			},
			expected: core.NewVec3(0, 0.8, 0),
		},
		{
			name:     "point light behind the surface",
			color:    core.NewVec3(1, 1, 1),
			lights:   func(s *scene.Scene) { s.AddPointLight(core.NewVec3(0, 0, 10), 0.6) },
			expected: core.NewVec3(0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, 4, 4, func(s *scene.Scene) {
				s.AddObject(sphereAt(core.NewVec3(0, 0, 4)).WithColor(tt.color))
				tt.lights(s)
			})

			c, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 4)
			if !ok {
				t.Fatal("Expected a hit")
			}
			if !vecClose(c, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, c)
			}
		})
	}
}

func TestRaytracer_Specular(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 4)).WithSpecular(10))
		s.AddPointLight(core.Vec3{}, 0.5)
	})

	// Diffuse 0.5 plus a full highlight of 0.5 along the mirror direction
	c, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 4)
	if !ok || !vecClose(c, core.NewVec3(1, 1, 1)) {
		t.Errorf("Expected (1, 1, 1), got %v (%t)", c, ok)
	}
}

func TestRaytracer_Shadows(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 2)).WithSize(core.NewVec3(0.5, 0.5, 0.5)))
	})
	rt := NewRaytracer(s)

	tests := []struct {
		name     string
		point    core.Vec3
		light    core.Vec3
		expected bool
	}{
		{"occluder between point and light", core.NewVec3(0, 0, 4), core.NewVec3(0, 0, 0), true},
		{"light to the side", core.NewVec3(0, 0, 4), core.NewVec3(5, 0, 4), false},
		{"occluder beyond the light", core.NewVec3(0, 0, 4), core.NewVec3(0, 0, 3), false},
		{"point on the occluder facing the light", core.NewVec3(0, 0, 1.75), core.NewVec3(0, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rt.inShadow(tt.point, tt.light); got != tt.expected {
				t.Errorf("Expected inShadow %t, got %t", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_ShadowedPointLightOnlyLeavesAmbient(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		s.AddObject(geometry.NewObject(geometry.NewPlane()).
			WithPosition(core.NewVec3(0, 0, 4)).
			WithSize(core.NewVec3(4, 4, 1)))
		// Occluder sits between the plane and a light placed off the view axis
		s.AddObject(sphereAt(core.NewVec3(1, 0, 3)).WithSize(core.NewVec3(0.5, 0.5, 0.5)))
		s.AddPointLight(core.NewVec3(2, 0, 2), 0.6)
		s.AddAmbientLight(0.2)
	})

	c, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 4)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !vecClose(c, core.NewVec3(0.2, 0.2, 0.2)) {
		t.Errorf("Expected only ambient light, got %v", c)
	}
}

func TestRaytracer_Reflection(t *testing.T) {
	tests := []struct {
		name       string
		reflection float32
		depth      int
		expected   core.Vec3
	}{
		// The reflected ray heads back past the eye and escapes
		{"half mirror reflecting nothing", 0.5, 4, core.NewVec3(0.5, 0.5, 0.5)},
		// At depth 1 the reflected ray is never traced
		{"full mirror at depth 1", 1, 1, core.NewVec3(0, 0, 0)},
		{"matte surface", 0, 4, core.NewVec3(1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, 4, 4, func(s *scene.Scene) {
				s.AddObject(sphereAt(core.NewVec3(0, 0, 4)).WithReflection(tt.reflection))
				s.AddAmbientLight(1)
			})

			c, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), tt.depth)
			if !ok {
				t.Fatal("Expected a hit")
			}
			if !vecClose(c, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, c)
			}
		})
	}
}

func TestRaytracer_ReflectionPicksUpOtherObjects(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		// A mirror plane at z=4 facing the eye, and a red sphere behind the eye
		s.AddObject(geometry.NewObject(geometry.NewPlane()).
			WithPosition(core.NewVec3(0, 0, 4)).
			WithSize(core.NewVec3(10, 10, 1)).
			WithReflection(1))
		s.AddObject(sphereAt(core.NewVec3(0, 0, -2)).WithColor(core.NewVec3(1, 0, 0)))
		s.AddAmbientLight(1)
	})

	c, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 2)
	if !ok || !vecClose(c, core.NewVec3(1, 0, 0)) {
		t.Errorf("Expected the mirror to show the red sphere, got %v (%t)", c, ok)
	}
}

func TestRaytracer_TMinSkipsNearObjects(t *testing.T) {
	s := newTestScene(t, 4, 4, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 0.5)).WithSize(core.NewVec3(0.2, 0.2, 0.2)))
		s.AddAmbientLight(1)
	})

	if _, ok := NewRaytracer(s).Trace(core.Vec3{}, core.NewVec3(0, 0, 1), 1, math32.Inf(1), 4); ok {
		t.Error("Expected the object in front of the viewport to be skipped")
	}
}

func TestRaytracer_RenderBounds(t *testing.T) {
	s := newTestScene(t, 8, 8, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 4)))
		s.AddAmbientLight(1)
	})

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	stats := NewRaytracer(s).RenderBounds(image.Rect(0, 0, 8, 8), img)

	if stats.TotalPixels != 64 || stats.PrimaryRays != 64 {
		t.Errorf("Expected 64 pixels and primary rays, got %d and %d", stats.TotalPixels, stats.PrimaryRays)
	}
	if stats.HitPixels == 0 || stats.HitPixels == 64 {
		t.Errorf("Expected some but not all pixels to hit, got %d", stats.HitPixels)
	}
	if got := img.RGBAAt(4, 4); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Expected the centre to be white, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected the corner to be black, got %v", got)
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"over-exposed clamps", core.NewVec3(2, 1.5, 1), color.RGBA{255, 255, 255, 255}},
		{"negative clamps", core.NewVec3(-1, 0, 0.5), color.RGBA{0, 0, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toRGBA(tt.input); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRaytracer_HitPixel(t *testing.T) {
	s := newTestScene(t, 8, 8, func(s *scene.Scene) {
		s.AddObject(sphereAt(core.NewVec3(0, 0, 4)))
	})
	rt := NewRaytracer(s)

	ray, hit, object, ok := rt.HitPixel(4, 4)
	if !ok || object != s.Objects[0] {
		t.Fatal("Expected the centre pixel to hit the sphere")
	}
	if !vecClose(ray.Direction, core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected the centre ray along +Z, got %v", ray.Direction)
	}
	if math32.Abs(hit.Distance-3.5) > tolerance {
		t.Errorf("Expected distance 3.5, got %f", hit.Distance)
	}

	if _, _, _, ok := rt.HitPixel(0, 0); ok {
		t.Error("Expected the corner pixel to miss")
	}
}
