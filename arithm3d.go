/*
Package arithm3d implements 3D vectors, unit quaternions and the numeric
predicates shared by the spline, sampling and frame packages.

Vectors and quaternions are plain values on top of gonum's r3.Vec and
quat.Number; all operations return new values and never allocate.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package arithm3d

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'arithm3d'
func tracer() tracing.Trace {
	return tracing.Select("arithm3d")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Clamp01 clamps t to [0,1].
func Clamp01(t float64) float64 {
	if t > 1 {
		return 1
	} else if t < 0 {
		return 0
	}
	return t
}

// === Vector Data Type ======================================================

// Vec3 is a 3D vector or point.
type Vec3 r3.Vec

// Origin represents the frequently used constant (0,0,0).
var Origin = V(0, 0, 0)

// Frequently used axis directions.
var (
	XAxis = V(1, 0, 0)
	YAxis = V(0, 1, 0)
	ZAxis = V(0, 0, 1)
)

// V is a quick notation for constructing a vector from floats.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Pretty Stringer for vectors.
func (v Vec3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

func (v Vec3) r3() r3.Vec {
	return r3.Vec(v)
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3(r3.Add(v.r3(), w.r3()))
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3(r3.Sub(v.r3(), w.r3()))
}

// Scale returns v scaled by factor a.
func (v Vec3) Scale(a float64) Vec3 {
	return Vec3(r3.Scale(a, v.r3()))
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return V(-v.X, -v.Y, -v.Z)
}

// Dot returns the dot product v·w.
func (v Vec3) Dot(w Vec3) float64 {
	return r3.Dot(v.r3(), w.r3())
}

// Cross returns the cross product v×w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3(r3.Cross(v.r3(), w.r3()))
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return r3.Norm(v.r3())
}

// LenSqr returns the squared length of v.
func (v Vec3) LenSqr() float64 {
	return r3.Norm2(v.r3())
}

// Dist returns the distance between points v and w.
func (v Vec3) Dist(w Vec3) float64 {
	return v.Sub(w).Len()
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged (r3.Unit would produce NaNs).
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp interpolates linearly between v (t=0) and w (t=1).
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return v.Scale(1 - t).Add(w.Scale(t))
}

// Rotate returns v transformed by the rotation q.
func (v Vec3) Rotate(q Quat) Vec3 {
	return q.Rotate(v)
}

// Zap rounds all components to Epsilon.
func (v Vec3) Zap() Vec3 {
	return V(Zap(v.X), Zap(v.Y), Zap(v.Z))
}

// IsOrigin is a predicate: is this vector the origin?
func (v Vec3) IsOrigin() bool {
	return v.Equal(Origin)
}

// Equal compares two vectors, using Epsilon.
func (v Vec3) Equal(w Vec3) bool {
	return Is0(v.X-w.X) && Is0(v.Y-w.Y) && Is0(v.Z-w.Z)
}

// IsNaN is a predicate: does any component hold a NaN?
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Angle returns the unsigned angle between v and w in radians.
func (v Vec3) Angle(w Vec3) float64 {
	return math.Atan2(v.Cross(w).Len(), v.Dot(w))
}

// === Quaternions ===========================================================

// Quat is a rotation quaternion. Real is the scalar part, Imag/Jmag/Kmag
// hold the vector part.
type Quat quat.Number

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{Real: 1}
}

func (q Quat) String() string {
	return fmt.Sprintf("(%g,%g,%g|%g)", q.Imag, q.Jmag, q.Kmag, q.Real)
}

func (q Quat) number() quat.Number {
	return quat.Number(q)
}

// Axis returns the vector part of q.
func (q Quat) Axis() Vec3 {
	return V(q.Imag, q.Jmag, q.Kmag)
}

// Mul returns the Hamilton product q·p, i.e. p is applied first.
func (q Quat) Mul(p Quat) Quat {
	return Quat(quat.Mul(q.number(), p.number()))
}

// Len returns the norm of q.
func (q Quat) Len() float64 {
	return quat.Abs(q.number())
}

// Normalize returns q scaled to unit length. A zero quaternion is returned
// unchanged.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l == 0 {
		return q
	}
	return Quat(quat.Scale(1/l, q.number()))
}

// Conj returns the conjugate of q, the inverse rotation for unit quaternions.
func (q Quat) Conj() Quat {
	return Quat(quat.Conj(q.number()))
}

// Rotate returns v rotated by q, computed as q·v·q*.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q.number(), p), quat.Conj(q.number()))
	return V(r.Imag, r.Jmag, r.Kmag)
}

// QuatFromAxisAngle creates a rotation of rad radians around axis.
// The axis should be normalized.
func QuatFromAxisAngle(axis Vec3, rad float64) Quat {
	s, c := math.Sincos(rad * 0.5)
	return Quat{Real: c, Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// QuatFromSwing returns the shortest-arc rotation turning unit vector a onto
// unit vector b.
//
// For opposite vectors the rotation axis is ambiguous; a half turn around an
// axis perpendicular to a is returned.
func QuatFromSwing(a, b Vec3) Quat {
	dot := a.Dot(b)
	if dot < -0.999999 {
		axis := V(-1, 0, 0).Cross(a)
		if axis.Len() < 0.000001 {
			axis = YAxis.Cross(a)
		}
		tracer().Debugf("swing between opposite vectors %s and %s", a, b)
		return QuatFromAxisAngle(axis.Normalize(), math.Pi)
	} else if dot > 0.999999 {
		return QuatIdentity()
	}
	v := a.Cross(b)
	q := Quat{Real: 1 + dot, Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	return q.Normalize()
}
