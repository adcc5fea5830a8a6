package scene

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/lights"
	"github.com/df07/go-csg-raytracer/pkg/loaders"
	"github.com/df07/go-csg-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Width        int       // Image width
	Height       int       // Image height
	MaxDepth     int       // Maximum reflection depth, 1 disables reflections
	Eye          core.Vec3 // Camera position
	ViewRotation core.Vec3 // Camera rotation in degrees around X, Y and Z

	Objects []*geometry.Object // Objects in the scene, tested linearly
	Lights  []lights.Light     // Lights in the scene

	view core.Matrix33
}

// NewScene creates an empty scene with the default dimensions and depth
func NewScene() *Scene {
	return &Scene{
		Width:    loaders.DefaultWidth,
		Height:   loaders.DefaultHeight,
		MaxDepth: loaders.DefaultDepth,
		Objects:  make([]*geometry.Object, 0),
		Lights:   make([]lights.Light, 0),
		view:     core.Identity(),
	}
}

// AddObject appends an object to the scene and returns it for chaining
func (s *Scene) AddObject(object *geometry.Object) *geometry.Object {
	s.Objects = append(s.Objects, object)
	return object
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position core.Vec3, intensity float32) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// AddAmbientLight adds an ambient light to the scene
func (s *Scene) AddAmbientLight(intensity float32) {
	s.Lights = append(s.Lights, lights.NewAmbientLight(intensity))
}

// Init validates the scene and initialises every object. After Init returns
// successfully the scene is read-only and safe to trace from many goroutines.
func (s *Scene) Init() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Errorf("image size %dx%d must be positive", s.Width, s.Height)
	}
	if s.MaxDepth < 0 {
		return errors.Errorf("negative reflection depth %d", s.MaxDepth)
	}

	for i, object := range s.Objects {
		if object == nil {
			return errors.Errorf("object %d is nil", i)
		}
		if err := object.Init(); err != nil {
			return errors.Wrapf(err, "object %d", i)
		}
	}

	s.view = core.NewRotationVec(s.ViewRotation)
	return nil
}

// View returns the camera rotation applied to primary ray directions
func (s *Scene) View() core.Matrix33 {
	return s.view
}

// GetPrimitiveCount returns the number of leaf primitives in the scene,
// counting each mesh triangle separately
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, object := range s.Objects {
		count += countPrimitivesInShape(object.Shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, descending into CSG operands
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.Mesh:
		return obj.TriangleCount()
	case *geometry.Intersection:
		return countPrimitivesInShape(obj.A.Shape) + countPrimitivesInShape(obj.B.Shape)
	case *geometry.Difference:
		return countPrimitivesInShape(obj.A.Shape) + countPrimitivesInShape(obj.B.Shape)
	case geometry.NoneShape:
		return 0
	default:
		return 1
	}
}

// Build converts a parsed scene description into an initialised scene
func Build(desc *loaders.SceneDescription, logger core.Logger) (*Scene, error) {
	if desc == nil {
		return nil, errors.New("scene description is nil")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := NewScene()
	s.Width = desc.Width
	s.Height = desc.Height
	s.MaxDepth = desc.DepthOrDefault()
	s.Eye = desc.Start.Vec3()
	s.ViewRotation = desc.ViewRotation.Vec3()

	for i := range desc.Objects {
		object, err := NewObjectFromDescription(&desc.Objects[i])
		if err != nil {
			return nil, errors.Wrapf(err, "object %d", i)
		}
		s.AddObject(object)
	}

	for i, lightDesc := range desc.Lights {
		light, err := NewLightFromDescription(lightDesc)
		if err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}
		s.Lights = append(s.Lights, light)
	}

	if err := s.Init(); err != nil {
		return nil, err
	}

	logger.Printf("Scene: %d objects, %d primitives, %d lights, %dx%d depth %d\n",
		len(s.Objects), s.GetPrimitiveCount(), len(s.Lights), s.Width, s.Height, s.MaxDepth)
	return s, nil
}

// NewObjectFromDescription builds an object and its shape tree. The result
// still needs Init.
func NewObjectFromDescription(desc *loaders.ObjectDescription) (*geometry.Object, error) {
	shape, err := newShapeFromDescription(&desc.Shape)
	if err != nil {
		return nil, err
	}

	object := geometry.NewObject(shape).
		WithPosition(desc.Position.Vec3()).
		WithSize(desc.SizeOrDefault()).
		WithRotation(desc.Rotation.Vec3())
	object.Material = material.Material{
		Color:      desc.ColorOrDefault(),
		Specular:   desc.Specular,
		Reflection: desc.Reflection,
	}
	return object, nil
}

func newShapeFromDescription(desc *loaders.ShapeDescription) (geometry.Shape, error) {
	switch desc.Type {
	case "sphere":
		return geometry.NewSphere(), nil
	case "cube":
		return geometry.NewCube(), nil
	case "plane":
		if desc.Point == nil && desc.Edge1 == nil && desc.Edge2 == nil {
			return geometry.NewPlane(), nil
		}
		if desc.Point == nil || desc.Edge1 == nil || desc.Edge2 == nil {
			return nil, errors.New("plane needs point, edge1 and edge2 together")
		}
		return geometry.NewPlaneFromEdges(desc.Point.Vec3(), desc.Edge1.Vec3(), desc.Edge2.Vec3()), nil
	case "intersection", "difference":
		a, b, err := newOperands(desc)
		if err != nil {
			return nil, errors.Wrap(err, desc.Type)
		}
		if desc.Type == "intersection" {
			return geometry.NewIntersection(a, b), nil
		}
		return geometry.NewDifference(a, b), nil
	case "mesh":
		if desc.Path == "" {
			return nil, errors.New("mesh shape needs a path")
		}
		return geometry.NewMesh(desc.Path, desc.Texture), nil
	case "none", "":
		return geometry.NoneShape{}, nil
	default:
		return nil, errors.Errorf("unknown shape type %q", desc.Type)
	}
}

func newOperands(desc *loaders.ShapeDescription) (*geometry.Object, *geometry.Object, error) {
	if desc.Shape1 == nil || desc.Shape2 == nil {
		return nil, nil, errors.New("shape1 and shape2 are required")
	}
	a, err := NewObjectFromDescription(desc.Shape1)
	if err != nil {
		return nil, nil, errors.Wrap(err, "shape1")
	}
	b, err := NewObjectFromDescription(desc.Shape2)
	if err != nil {
		return nil, nil, errors.Wrap(err, "shape2")
	}
	return a, b, nil
}

// NewLightFromDescription builds a light from its type tag
func NewLightFromDescription(desc loaders.LightDescription) (lights.Light, error) {
	switch lights.LightType(desc.Type) {
	case lights.LightTypePoint:
		return lights.NewPointLight(desc.Position.Vec3(), desc.Intensity), nil
	case lights.LightTypeAmbient:
		return lights.NewAmbientLight(desc.Intensity), nil
	default:
		return nil, errors.Errorf("unknown light type %q", desc.Type)
	}
}
