/*
Package bezier evaluates single quadratic and cubic Bézier segments in 3D.

All functions are total: they take control points and a curve parameter and
return position, first derivative (velocity) or second derivative
(acceleration) by value. Non-finite control points propagate into the result.

Position and velocity clamp the parameter to [0,1]. Cubic acceleration clamps
as well, whereas quadratic acceleration is constant along a segment and takes
no parameter at all.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"github.com/npillmayer/arithm3d"
)

// === Quadratic segments ====================================================

// QuadPosition evaluates
//
//	(1-t)·((1-t)·a + t·b) + t·((1-t)·b + t·c)
func QuadPosition(a, b, c arithm3d.Vec3, t float64) arithm3d.Vec3 {
	t = arithm3d.Clamp01(t)
	s := 1 - t
	return arithm3d.Vec3{
		X: s*(s*a.X+t*b.X) + t*(s*b.X+t*c.X),
		Y: s*(s*a.Y+t*b.Y) + t*(s*b.Y+t*c.Y),
		Z: s*(s*a.Z+t*b.Z) + t*(s*b.Z+t*c.Z),
	}
}

// QuadVelocity evaluates the first derivative 2(1-t)(b-a) + 2t(c-b).
func QuadVelocity(a, b, c arithm3d.Vec3, t float64) arithm3d.Vec3 {
	t = arithm3d.Clamp01(t)
	s2 := 2 * (1 - t)
	t2 := 2 * t
	return arithm3d.Vec3{
		X: s2*(b.X-a.X) + t2*(c.X-b.X),
		Y: s2*(b.Y-a.Y) + t2*(c.Y-b.Y),
		Z: s2*(b.Z-a.Z) + t2*(c.Z-b.Z),
	}
}

// QuadAcceleration returns the second derivative 2(c - 2b + a), which does not
// depend on the curve parameter.
func QuadAcceleration(a, b, c arithm3d.Vec3) arithm3d.Vec3 {
	return arithm3d.Vec3{
		X: -4*b.X + 2*a.X + 2*c.X,
		Y: -4*b.Y + 2*a.Y + 2*c.Y,
		Z: -4*b.Z + 2*a.Z + 2*c.Z,
	}
}

// === Cubic segments ========================================================

// CubicPosition evaluates the cubic Bernstein blend of a, b, c, d at t.
func CubicPosition(a, b, c, d arithm3d.Vec3, t float64) arithm3d.Vec3 {
	t = arithm3d.Clamp01(t)
	i := 1 - t
	ii := i * i
	iii := ii * i
	tt := t * t
	ttt := tt * t
	iit3 := 3 * ii * t
	itt3 := 3 * i * tt
	return arithm3d.Vec3{
		X: iii*a.X + iit3*b.X + itt3*c.X + ttt*d.X,
		Y: iii*a.Y + iit3*b.Y + itt3*c.Y + ttt*d.Y,
		Z: iii*a.Z + iit3*b.Z + itt3*c.Z + ttt*d.Z,
	}
}

// CubicVelocity evaluates the first derivative, a quadratic blend of the
// control point differences scaled by 3.
func CubicVelocity(a, b, c, d arithm3d.Vec3, t float64) arithm3d.Vec3 {
	t = arithm3d.Clamp01(t)
	i := 1 - t
	ii3 := 3 * i * i
	it6 := 6 * i * t
	tt3 := 3 * t * t
	return arithm3d.Vec3{
		X: ii3*(b.X-a.X) + it6*(c.X-b.X) + tt3*(d.X-c.X),
		Y: ii3*(b.Y-a.Y) + it6*(c.Y-b.Y) + tt3*(d.Y-c.Y),
		Z: ii3*(b.Z-a.Z) + it6*(c.Z-b.Z) + tt3*(d.Z-c.Z),
	}
}

// CubicAcceleration evaluates the second derivative
//
//	6t·(d + 3(b-c) - a) + 6(a - 2b + c)
func CubicAcceleration(a, b, c, d arithm3d.Vec3, t float64) arithm3d.Vec3 {
	t = arithm3d.Clamp01(t)
	t6 := 6 * t
	return arithm3d.Vec3{
		X: t6*(d.X+3*(b.X-c.X)-a.X) + 6*(a.X-2*b.X+c.X),
		Y: t6*(d.Y+3*(b.Y-c.Y)-a.Y) + 6*(a.Y-2*b.Y+c.Y),
		Z: t6*(d.Z+3*(b.Z-c.Z)-a.Z) + 6*(a.Z-2*b.Z+c.Z),
	}
}
