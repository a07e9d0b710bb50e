/*
Package rmf computes rotation minimizing frames along sampled splines.

A frame consists of the sample's tangent (forward), a normal (up) and a
binormal (right), pairwise orthogonal and of unit length. Frames are carried
from sample to sample with the double reflection method: the previous normal
is reflected through the plane bisecting the two tangents and then realigned
with the new tangent. This keeps the rotation around the tangent minimal,
i.e., the frame does not twist on its own.

An artistic twist may be applied afterwards with ApplyLinearTwist.

	samples := sampler.Uniform(s, table, 64)
	rmf.TransportNormal(samples, nil)
	rmf.ApplyLinearTwist(samples, 0, math.Pi/2)

Degenerate configurations (tangents parallel to the up vector, opposite
tangents, vanishing tangents at cusps) are resolved by fallbacks; transport
never fails.

# Reference

Wenping Wang, Bert Jüttler, Dayue Zheng, Yang Liu: Computation of Rotation
Minimizing Frames. ACM Transactions on Graphics, 27(1), 2008.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package rmf

import (
	"math"

	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/sampler"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'rmf'
func tracer() tracing.Trace {
	return tracing.Select("rmf")
}

// DefaultUp is the reference up direction for the first frame.
var DefaultUp = arithm3d.YAxis

// Thresholds for the fallback branches.
const (
	minProjection = 0.001  // minimum length of up projected onto the normal plane
	minReflection = 0.0001 // minimum squared length of a reflection vector
	nudge         = 0.0001 // tangent perturbation for parallel tangent and normal
)

// Frame is an orthonormal frame at a sample.
type Frame struct {
	Tangent  arithm3d.Vec3 // forward
	Normal   arithm3d.Vec3 // up
	Binormal arithm3d.Vec3 // right
}

// FrameOf returns the frame of a sample.
func FrameOf(smp sampler.Sample) Frame {
	return Frame{Tangent: smp.Tangent, Normal: smp.Normal, Binormal: smp.Binormal}
}

// SetFrame copies f into a sample.
func SetFrame(smp *sampler.Sample, f Frame) {
	smp.Tangent, smp.Normal, smp.Binormal = f.Tangent, f.Normal, f.Binormal
}

// === Alignment =============================================================

// StableNormal returns a unit vector orthogonal to tangent, as close to up as
// possible. If tangent and up are (nearly) parallel, an alternative
// reference is used: (0,0,-1) if up is vertical, (1,0,0) otherwise.
func StableNormal(tangent, up arithm3d.Vec3) arithm3d.Vec3 {
	n := up.Sub(tangent.Scale(tangent.Dot(up)))
	if n.Len() < minProjection {
		alt := arithm3d.XAxis
		if math.Abs(up.Y) > 0.9 {
			alt = arithm3d.ZAxis.Negate()
		}
		tracer().Debugf("tangent %s parallel to up vector, using %s", tangent, alt)
		n = alt.Sub(tangent.Scale(tangent.Dot(alt)))
	}
	return n.Normalize()
}

// FixOrthogonal makes f orthonormal again after its tangent or normal have
// been modified. The tangent is kept; the binormal is derived as
// normal × tangent and the normal re-derived as tangent × binormal.
//
// If tangent and normal are parallel, the tangent is nudged slightly off
// before deriving the binormal.
func FixOrthogonal(f *Frame) {
	b := f.Normal.Cross(f.Tangent)
	if arithm3d.Is0(b.Len()) {
		if arithm3d.Is1(math.Abs(f.Normal.Z)) {
			f.Tangent.X += nudge
		} else {
			f.Tangent.Z += nudge
		}
		f.Tangent = f.Tangent.Normalize()
		b = f.Normal.Cross(f.Tangent)
	}
	f.Binormal = b.Normalize()
	f.Normal = f.Tangent.Cross(f.Binormal).Normalize()
}

// === Transport =============================================================

// TransportFrame carries frame from over to the next tangent, using the
// double reflection method followed by a swing rotation between the two
// tangents. toTangent should be of unit length.
func TransportFrame(from Frame, toTangent arithm3d.Vec3) Frame {
	t1, r1, t2 := from.Tangent, from.Normal, toTangent
	// first reflection: plane bisecting t1 and t2
	riL, tiL := r1, t1
	v1 := t1.Add(t2)
	if c1 := v1.LenSqr(); c1 > minReflection {
		riL = r1.Sub(v1.Scale(2 / c1 * v1.Dot(r1)))
		tiL = t1.Sub(v1.Scale(2 / c1 * v1.Dot(t1)))
	}
	// second reflection: align with the new tangent
	n := riL
	v2 := tiL.Add(t2)
	if c2 := v2.LenSqr(); c2 > minReflection {
		n = riL.Sub(v2.Scale(2 / c2 * v2.Dot(riL)))
	}
	n = n.Normalize()
	// swing through sharp turns
	n = arithm3d.QuatFromSwing(t1, t2).Rotate(n)
	f := Frame{Tangent: t2, Normal: n}
	FixOrthogonal(&f)
	return f
}

// TransportNormal computes frames for a sequence of samples with given
// tangents, modifying the samples in place. The first normal is initialUp if
// given, else derived from DefaultUp by StableNormal. All subsequent frames
// are transported from their predecessor.
//
// Samples with a vanishing tangent (cusps) inherit the tangent of their
// predecessor. An empty slice is left alone.
func TransportNormal(samples []sampler.Sample, initialUp *arithm3d.Vec3) {
	if len(samples) == 0 {
		return
	}
	fillTangents(samples)
	first := Frame{Tangent: samples[0].Tangent}
	if initialUp != nil {
		first.Normal = *initialUp
	} else {
		first.Normal = StableNormal(first.Tangent, DefaultUp)
	}
	FixOrthogonal(&first)
	SetFrame(&samples[0], first)
	prev := first
	for i := 1; i < len(samples); i++ {
		prev = TransportFrame(prev, samples[i].Tangent)
		SetFrame(&samples[i], prev)
	}
	tracer().Debugf("transported frames along %d samples", len(samples))
}

// fillTangents replaces zero tangents with the previous non-zero tangent.
// Leading zero tangents take the first non-zero tangent; if all tangents
// are zero, (0,0,1) is used.
func fillTangents(samples []sampler.Sample) {
	var last arithm3d.Vec3
	for _, smp := range samples {
		if !isZero(smp.Tangent) {
			last = smp.Tangent
			break
		}
	}
	if isZero(last) {
		tracer().Debugf("no usable tangent in %d samples", len(samples))
		last = arithm3d.ZAxis
	}
	for i := range samples {
		if isZero(samples[i].Tangent) {
			samples[i].Tangent = last
		} else {
			last = samples[i].Tangent
		}
	}
}

func isZero(v arithm3d.Vec3) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// === Twisting ==============================================================

// ApplyLinearTwist rotates the frames of transported samples around their
// tangents. The angle is interpolated linearly from aRad at the first sample
// to bRad at the last, by sample position within the sequence.
func ApplyLinearTwist(samples []sampler.Sample, aRad, bRad float64) {
	n := len(samples)
	for i := range samples {
		var pos float64
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		rad := aRad*(1-pos) + bRad*pos
		s, c := math.Sincos(rad)
		smp := &samples[i]
		smp.Normal = smp.Normal.Scale(c).Add(smp.Binormal.Scale(s)).Normalize()
		smp.Binormal = smp.Normal.Cross(smp.Tangent).Normalize()
	}
}
