package core

import "github.com/chewxy/math32"

// Matrix33 is a row-major 3x3 matrix
type Matrix33 [9]float32

// Identity returns the identity matrix
func Identity() Matrix33 {
	return Matrix33{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// NewRotation builds Rx * Ry * Rz from Euler angles given in degrees
func NewRotation(xDeg, yDeg, zDeg float32) Matrix33 {
	x := xDeg / 180 * math32.Pi
	y := yDeg / 180 * math32.Pi
	z := zDeg / 180 * math32.Pi

	rx := Matrix33{
		1, 0, 0,
		0, math32.Cos(x), -math32.Sin(x),
		0, math32.Sin(x), math32.Cos(x),
	}
	ry := Matrix33{
		math32.Cos(y), 0, math32.Sin(y),
		0, 1, 0,
		-math32.Sin(y), 0, math32.Cos(y),
	}
	rz := Matrix33{
		math32.Cos(z), -math32.Sin(z), 0,
		math32.Sin(z), math32.Cos(z), 0,
		0, 0, 1,
	}
	return rx.Mul(ry).Mul(rz)
}

// NewRotationVec is NewRotation with the angles packed in a vector
func NewRotationVec(angles Vec3) Matrix33 {
	return NewRotation(angles.X, angles.Y, angles.Z)
}

// MulVec returns m * v treating v as a column vector
func (m Matrix33) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// MulMatrix returns v * m treating v as a row vector
func (v Vec3) MulMatrix(m Matrix33) Vec3 {
	return Vec3{
		X: v.X*m[0] + v.Y*m[3] + v.Z*m[6],
		Y: v.X*m[1] + v.Y*m[4] + v.Z*m[7],
		Z: v.X*m[2] + v.Y*m[5] + v.Z*m[8],
	}
}

// Mul returns the composition m * other
func (m Matrix33) Mul(other Matrix33) Matrix33 {
	var r Matrix33
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*other[col] +
				m[row*3+1]*other[3+col] +
				m[row*3+2]*other[6+col]
		}
	}
	return r
}

// Transpose returns the transposed matrix. For a rotation this is its inverse.
func (m Matrix33) Transpose() Matrix33 {
	return Matrix33{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}
