package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// Object places a Shape in its parent's space with a position, a
// non-uniform size and a rotation, and carries the material it is shaded with.
type Object struct {
	Shape          Shape
	Position       core.Vec3
	Size           core.Vec3
	RotationAngles core.Vec3 // Euler angles in degrees, applied X then Y then Z
	Material       material.Material

	rotation core.Matrix33 // parent -> local
	reverse  core.Matrix33 // local -> parent
}

// NewObject wraps a shape with an identity transform and the default material
func NewObject(shape Shape) *Object {
	if shape == nil {
		shape = NoneShape{}
	}
	return &Object{
		Shape:    shape,
		Size:     core.NewVec3(1, 1, 1),
		Material: material.DefaultMaterial(),
		rotation: core.Identity(),
		reverse:  core.Identity(),
	}
}

func (o *Object) WithPosition(position core.Vec3) *Object {
	o.Position = position
	return o
}

func (o *Object) WithSize(size core.Vec3) *Object {
	o.Size = size
	return o
}

// WithRotation sets the rotation in degrees around X, Y and Z
func (o *Object) WithRotation(angles core.Vec3) *Object {
	o.RotationAngles = angles
	return o
}

func (o *Object) WithColor(color core.Vec3) *Object {
	o.Material.Color = color
	return o
}

func (o *Object) WithSpecular(exponent uint32) *Object {
	o.Material.Specular = exponent
	return o
}

func (o *Object) WithReflection(reflection float32) *Object {
	o.Material.Reflection = reflection
	return o
}

// Init derives the rotation matrices and initialises the shape. It must run
// once before the object is traced.
func (o *Object) Init() error {
	if o.Size.X == 0 || o.Size.Y == 0 || o.Size.Z == 0 {
		return errors.Errorf("object size %v has a zero component", o.Size)
	}
	if o.Reflection() < 0 || o.Reflection() > 1 {
		return errors.Errorf("reflection %g is outside [0, 1]", o.Reflection())
	}
	if o.Shape == nil {
		o.Shape = NoneShape{}
	}

	o.rotation = core.NewRotationVec(o.RotationAngles)
	o.reverse = o.rotation.Transpose()

	return errors.Wrapf(initShape(o.Shape), "initialising %T", o.Shape)
}

// Reflection returns the mirror fraction of the object's material
func (o *Object) Reflection() float32 {
	return o.Material.Reflection
}

// Intersects maps a ray from the parent frame into the shape's frame and back.
// Ray parameters are preserved by the affine map, so distances need no correction.
func (o *Object) Intersects(start, direction core.Vec3) (IntersectionResult, *Object, bool) {
	localStart := o.rotation.MulVec(start.Subtract(o.Position)).DivideVec(o.Size)
	localDirection := o.rotation.MulVec(direction).DivideVec(o.Size)

	result, ok := o.Shape.Intersects(localStart, localDirection)
	if !ok {
		return IntersectionResult{}, nil, false
	}

	result.Normal = o.toParentNormal(result.Normal)
	result.ExitNormal = o.toParentNormal(result.ExitNormal)
	return result, o, true
}

// toParentNormal applies the inverse transpose of the parent -> local map
func (o *Object) toParentNormal(n core.Vec3) core.Vec3 {
	return o.reverse.MulVec(n.DivideVec(o.Size)).Normalize()
}
