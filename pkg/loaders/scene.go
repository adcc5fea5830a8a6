package loaders

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Scene description defaults
const (
	DefaultWidth  = 512
	DefaultHeight = 512
	DefaultDepth  = 4
)

// Vector is a JSON [x, y, z] triple
type Vector [3]float32

// Vec3 converts the triple to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneDescription is the JSON form of a scene
type SceneDescription struct {
	Name         string              `json:"name,omitempty"`
	Description  string              `json:"description,omitempty"`
	Width        int                 `json:"width,omitempty"`
	Height       int                 `json:"height,omitempty"`
	Depth        *int                `json:"depth,omitempty"` // reflection depth, 0 renders black
	Start        Vector              `json:"start"`
	ViewRotation Vector              `json:"view_rotation"` // degrees
	Objects      []ObjectDescription `json:"objects"`
	Lights       []LightDescription  `json:"lights"`
}

// ObjectDescription is the JSON form of an object. Size and Color default
// to (1, 1, 1) when omitted.
type ObjectDescription struct {
	Shape      ShapeDescription `json:"shape"`
	Position   Vector           `json:"position"`
	Size       *Vector          `json:"size,omitempty"`
	Rotation   Vector           `json:"rotation"` // degrees
	Specular   uint32           `json:"specular,omitempty"`
	Reflection float32          `json:"reflection,omitempty"`
	Color      *Vector          `json:"color,omitempty"`
}

// ShapeDescription selects a shape by its type tag
type ShapeDescription struct {
	Type string `json:"type"` // sphere, plane, cube, intersection, difference, mesh or none

	// intersection and difference
	Shape1 *ObjectDescription `json:"shape1,omitempty"`
	Shape2 *ObjectDescription `json:"shape2,omitempty"`

	// mesh, relative paths are resolved against the scene file
	Path    string `json:"path,omitempty"`
	Texture string `json:"texture,omitempty"`

	// plane, the unit plane is used when omitted
	Point *Vector `json:"point,omitempty"`
	Edge1 *Vector `json:"edge1,omitempty"`
	Edge2 *Vector `json:"edge2,omitempty"`
}

// LightDescription is the JSON form of a light
type LightDescription struct {
	Type      string  `json:"type"` // point or ambient
	Position  Vector  `json:"position"`
	Intensity float32 `json:"intensity"`
}

// LoadSceneFile reads a JSON scene and resolves mesh paths relative to the file
func LoadSceneFile(filename string) (*SceneDescription, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scene file")
	}
	defer file.Close()

	desc, err := ParseScene(file)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", filename)
	}

	baseDir := filepath.Dir(filename)
	for i := range desc.Objects {
		desc.Objects[i].resolvePaths(baseDir)
	}
	return desc, nil
}

// ParseScene decodes a JSON scene and fills in defaults
func ParseScene(r io.Reader) (*SceneDescription, error) {
	desc := &SceneDescription{}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(desc); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene JSON")
	}

	if desc.Width == 0 {
		desc.Width = DefaultWidth
	}
	if desc.Height == 0 {
		desc.Height = DefaultHeight
	}
	if desc.Depth == nil {
		depth := DefaultDepth
		desc.Depth = &depth
	}
	if desc.Width < 0 || desc.Height < 0 || *desc.Depth < 0 {
		return nil, errors.Errorf("negative scene dimensions %dx%d depth %d", desc.Width, desc.Height, *desc.Depth)
	}
	return desc, nil
}

// DepthOrDefault returns the reflection depth, DefaultDepth if omitted
func (d *SceneDescription) DepthOrDefault() int {
	if d.Depth == nil {
		return DefaultDepth
	}
	return *d.Depth
}

// SizeOrDefault returns the object's size, (1, 1, 1) if omitted
func (o *ObjectDescription) SizeOrDefault() core.Vec3 {
	if o.Size == nil {
		return core.NewVec3(1, 1, 1)
	}
	return o.Size.Vec3()
}

// ColorOrDefault returns the object's colour, white if omitted
func (o *ObjectDescription) ColorOrDefault() core.Vec3 {
	if o.Color == nil {
		return core.NewVec3(1, 1, 1)
	}
	return o.Color.Vec3()
}

func (o *ObjectDescription) resolvePaths(baseDir string) {
	shape := &o.Shape
	shape.Path = resolvePath(baseDir, shape.Path)
	shape.Texture = resolvePath(baseDir, shape.Texture)
	if shape.Shape1 != nil {
		shape.Shape1.resolvePaths(baseDir)
	}
	if shape.Shape2 != nil {
		shape.Shape2.resolvePaths(baseDir)
	}
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
