package scene

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/material"
)

// lensShape returns the intersection of a unit sphere and a half-size sphere
// shifted along +X
func lensShape() geometry.Shape {
	return geometry.NewIntersection(
		geometry.NewObject(geometry.NewSphere()),
		geometry.NewObject(geometry.NewSphere()).
			WithSize(core.NewVec3(0.5, 0.5, 0.5)).
			WithPosition(core.NewVec3(0.5, 0, 0)),
	)
}

// bittenShape returns a unit sphere with a half-size sphere carved out of its +X side
func bittenShape() geometry.Shape {
	return geometry.NewDifference(
		geometry.NewObject(geometry.NewSphere()),
		geometry.NewObject(geometry.NewSphere()).
			WithSize(core.NewVec3(0.5, 0.5, 0.5)).
			WithPosition(core.NewVec3(0.5, 0, 0)),
	)
}

// NewDefaultScene creates the CSG showcase: a sphere intersection, a sphere
// difference and a green plane, lit from the eye
func NewDefaultScene() *Scene {
	s := NewScene()

	s.AddObject(geometry.NewObject(lensShape()).
		WithPosition(core.NewVec3(0, 0, 4)).
		WithSize(core.NewVec3(0.8, 0.8, 0.8)).
		WithRotation(core.NewVec3(0, -30, 0)))

	s.AddObject(geometry.NewObject(bittenShape()).
		WithPosition(core.NewVec3(0.5, 1, 4)).
		WithSize(core.NewVec3(0.8, 0.8, 0.8)).
		WithRotation(core.NewVec3(0, -70, 0)))

	s.AddObject(geometry.NewObject(geometry.NewPlane()).
		WithPosition(core.NewVec3(0.5, 1, 4)).
		WithRotation(core.NewVec3(0, -70, 0)).
		WithColor(core.NewVec3(0, 1, 0)))

	s.AddPointLight(core.NewVec3(0, 0, 0), 0.6)
	s.AddAmbientLight(0.2)
	return s
}

// NewMirrorScene creates a corridor of half-mirrored walls with two spheres
// bouncing between them
func NewMirrorScene() *Scene {
	s := NewScene()
	s.MaxDepth = 6

	white := core.NewVec3(1, 1, 1)
	wallSize := core.NewVec3(5, 2, 1)

	s.AddObject(geometry.NewObject(geometry.NewPlane()).
		WithPosition(core.NewVec3(-1, 0, 3.5)).
		WithRotation(core.NewVec3(0, 90, 0)).
		WithSize(wallSize).
		WithColor(white).
		WithReflection(0.5).
		WithSpecular(10))

	s.AddObject(geometry.NewObject(geometry.NewPlane()).
		WithPosition(core.NewVec3(1, 0, 3.5)).
		WithRotation(core.NewVec3(0, -90, 0)).
		WithSize(wallSize).
		WithColor(white).
		WithReflection(0.5).
		WithSpecular(10))

	s.AddObject(geometry.NewObject(geometry.NewPlane()).
		WithPosition(core.NewVec3(0, 0, 5)).
		WithSize(core.NewVec3(2, 2, 1)).
		WithColor(white).
		WithReflection(0.5).
		WithSpecular(10))

	ball := core.NewVec3(0.35, 0.35, 0.35)
	s.AddObject(geometry.NewObject(geometry.NewSphere()).
		WithPosition(core.NewVec3(-0.5, -0.5, 2)).
		WithSize(ball).
		WithColor(core.NewVec3(1, 0, 0)).
		WithSpecular(1000))

	s.AddObject(geometry.NewObject(geometry.NewSphere()).
		WithPosition(core.NewVec3(0.5, 0.5, 2.5)).
		WithSize(ball).
		WithColor(core.NewVec3(0, 0, 1)).
		WithReflection(0.5).
		WithSpecular(10))

	s.AddPointLight(core.NewVec3(0, 0, 0), 0.6)
	s.AddAmbientLight(0.2)
	return s
}

// NewMeshScene creates a checker-textured UV sphere mesh next to a CSG cube
// with a spherical bite taken out of it
func NewMeshScene() (*Scene, error) {
	s := NewScene()

	checker := material.NewCheckerboardTexture(256, 128, 16,
		core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.8, 0.1, 0.1))
	globe, err := geometry.NewMeshFromData(geometry.NewUVSphereData(24, 48), checker)
	if err != nil {
		return nil, err
	}

	s.AddObject(geometry.NewObject(globe).
		WithPosition(core.NewVec3(-0.6, 0, 4)).
		WithRotation(core.NewVec3(-20, 30, 0)).
		WithSpecular(50))

	s.AddObject(geometry.NewObject(geometry.NewDifference(
		geometry.NewObject(geometry.NewCube()),
		geometry.NewObject(geometry.NewSphere()).
			WithSize(core.NewVec3(1.3, 1.3, 1.3)).
			WithPosition(core.NewVec3(0, 0.5, -0.5)),
	)).
		WithPosition(core.NewVec3(0.8, 0.2, 4.5)).
		WithSize(core.NewVec3(0.8, 0.8, 0.8)).
		WithRotation(core.NewVec3(20, 35, 0)).
		WithColor(core.NewVec3(0.2, 0.4, 1)).
		WithSpecular(100))

	s.AddObject(geometry.NewObject(geometry.NewPlane()).
		WithPosition(core.NewVec3(0, 0.7, 4)).
		WithRotation(core.NewVec3(90, 0, 0)).
		WithSize(core.NewVec3(4, 4, 1)).
		WithReflection(0.3))

	s.AddPointLight(core.NewVec3(-1, -1, 1), 0.6)
	s.AddAmbientLight(0.2)
	return s, nil
}

// NewEmptyScene creates a scene with no objects and only ambient light
func NewEmptyScene() *Scene {
	s := NewScene()
	s.AddAmbientLight(0.2)
	return s
}
