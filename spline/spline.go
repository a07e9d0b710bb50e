/*
Package spline deals with piecewise Bézier paths in 3D, built from an ordered
sequence of control points.

Two flavours of spline are available: cubic splines (*Cubic), where every
segment is made of an anchor, two handles and the next anchor, and quadratic
splines (*Quad), where a single handle sits between two anchors. Both share
the point container and the rules for mapping a global curve parameter
t ∈ [0,1] onto a segment and a local parameter.

A spline may be open or closed (looped). For loops the final segment wraps
around and re-uses the first points, with indices taken modulo the point
count.

# Usage

Splines are built with a small builder API, similar to the one for Hobby
paths:

	s := spline.NewCubic().
	    Knot(arithm3d.V(0, 0, 0)).Knot(arithm3d.V(1, 1, 0)).
	    Knot(arithm3d.V(2, 1, 0)).Knot(arithm3d.V(3, 0, 0)).End()

	var pos, vel arithm3d.Vec3
	s.At(0.5, &pos, &vel, nil)

Output arguments of At and AtSegment are optional: passing nil skips the
corresponding computation. Splines with too few points for a single segment
evaluate to nothing at all; the outputs are left untouched.

Splines are not synchronized. Clients which mutate control points while other
goroutines evaluate the spline must provide their own locking.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'spline'
func tracer() tracing.Trace {
	return tracing.Select("spline")
}

// ErrIndexOutOfRange is returned when addressing a control point which does
// not exist.
var ErrIndexOutOfRange = errors.New("control point index out of range")

// Role describes the purpose of a control point. It is metadata for editors
// and has no influence on evaluation.
type Role uint8

// Control points either lie on the curve (anchors) or pull it (handles).
const (
	Anchor Role = iota
	Handle
)

func (r Role) String() string {
	switch r {
	case Anchor:
		return "anchor"
	case Handle:
		return "handle"
	}
	return "<unknown>"
}

// ControlPoint is a point of a spline together with its role.
type ControlPoint struct {
	Position arithm3d.Vec3
	Role     Role
}

// Index locates a global curve parameter on a spline: the segment, the
// indices of the segment's control points and the local parameter T within
// the segment. Quadratic splines use P[0..2] only.
type Index struct {
	Segment int
	P       [4]int
	T       float64
}

// Spline is the common interface of cubic and quadratic Bézier splines.
type Spline interface {
	Degree() int                                                // 2 or 3
	Add(pos arithm3d.Vec3) int                                  // append point with layout role
	AddRole(pos arithm3d.Vec3, role Role) int                   // append point with explicit role
	SetPosition(i int, pos arithm3d.Vec3) error                 // move point i
	Point(i int) ControlPoint                                   // get point i
	Points() []ControlPoint                                     // copy of all points
	PointCount() int                                            // number of control points
	CurveCount() int                                            // number of Bézier segments
	IsLoop() bool                                               // is the spline closed?
	SetLoop(loop bool)                                          // open or close the spline
	IsValid() bool                                              // is the topology well formed?
	CurveIndex(t float64) Index                                 // map global t to a segment
	At(t float64, pos, vel, acc *arithm3d.Vec3)                 // evaluate at global t
	AtSegment(seg int, t float64, pos, vel, acc *arithm3d.Vec3) // evaluate segment seg at local t
	Segment(seg int) []ControlPoint                             // control points of segment seg
	Bounds() r3.Box                                             // bounding box of the control hull
}

// === Point container =======================================================

// points is the container shared by all spline flavours. step is the number
// of points a segment advances: 2 for quadratic, 3 for cubic splines.
type points struct {
	pts      []ControlPoint
	loop     bool
	step     int
	curveCnt int // segment count of the open spline
}

func (ps *points) add(pos arithm3d.Vec3, role Role) int {
	ps.pts = append(ps.pts, ControlPoint{Position: pos, Role: role})
	ps.curveCnt = max(0, (len(ps.pts)-1)/ps.step)
	return len(ps.pts) - 1
}

// SetPosition moves control point i to pos.
func (ps *points) SetPosition(i int, pos arithm3d.Vec3) error {
	if i < 0 || i >= len(ps.pts) {
		return fmt.Errorf("%w: %d, spline has %d points", ErrIndexOutOfRange, i, len(ps.pts))
	}
	ps.pts[i].Position = pos
	return nil
}

// Point returns control point i. Indices wrap around the point count, as
// they do for loops. Point panics on an empty spline.
func (ps *points) Point(i int) ControlPoint {
	return ps.pts[mod(i, len(ps.pts))]
}

// Points returns a copy of the control points.
func (ps *points) Points() []ControlPoint {
	cp := make([]ControlPoint, len(ps.pts))
	copy(cp, ps.pts)
	return cp
}

// PointCount returns the number of control points.
func (ps *points) PointCount() int {
	return len(ps.pts)
}

// CurveCount returns the number of Bézier segments. Loops have one extra
// segment connecting the end back to the start. Splines with fewer points
// than a single segment needs have no segments, looped or not.
func (ps *points) CurveCount() int {
	if ps.curveCnt == 0 {
		return 0
	}
	if ps.loop {
		return ps.curveCnt + 1
	}
	return ps.curveCnt
}

// IsLoop is a predicate: is this spline closed?
func (ps *points) IsLoop() bool {
	return ps.loop
}

// SetLoop opens or closes the spline.
func (ps *points) SetLoop(loop bool) {
	ps.loop = loop
}

// Segment returns the control points of segment seg, taking the
// wrap-around segment of loops into account. It returns nil for segments out
// of range.
func (ps *points) Segment(seg int) []ControlPoint {
	if seg < 0 || seg >= ps.CurveCount() {
		return nil
	}
	idx := ps.segmentIndex(seg, 0)
	cps := make([]ControlPoint, ps.step+1)
	for k := range cps {
		cps[k] = ps.pts[idx.P[k]]
	}
	return cps
}

// Bounds returns the bounding box of all control points. As a Bézier curve
// lies within the convex hull of its control points, the box encloses the
// curve as well.
func (ps *points) Bounds() r3.Box {
	if len(ps.pts) == 0 {
		return r3.Box{}
	}
	lo, hi := ps.pts[0].Position, ps.pts[0].Position
	for _, p := range ps.pts[1:] {
		v := p.Position
		lo = arithm3d.V(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z))
		hi = arithm3d.V(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z))
	}
	return r3.NewBox(lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
}

// CurveIndex maps a global parameter t onto a segment. t is clamped to [0,1].
// CurveIndex returns the zero Index if the spline has no segments.
func (ps *points) CurveIndex(t float64) Index {
	if ps.CurveCount() == 0 {
		return Index{}
	}
	t = arithm3d.Clamp01(t)
	if ps.loop {
		return ps.curveIndexLoop(t)
	}
	return ps.curveIndexOpen(t)
}

// curveIndexOpen uses the segment count as a scale: the integer part of t·n
// is the segment, the fraction the local parameter.
func (ps *points) curveIndexOpen(t float64) Index {
	cc := ps.curveCnt
	seg, tt := cc-1, 1.0
	if t != 1 {
		seg, tt = split(t, cc)
	}
	idx := Index{Segment: seg, T: tt}
	i := seg * ps.step
	for k := 0; k <= ps.step; k++ {
		idx.P[k] = i + k
	}
	return idx
}

// curveIndexLoop works like curveIndexOpen, with one more segment of
// parameter space for the wrap-around. t = 1 resolves to the segment ending
// at point 0, which makes the loop close exactly.
func (ps *points) curveIndexLoop(t float64) Index {
	cc := ps.curveCnt + 1
	n := len(ps.pts)
	var seg, i int
	tt := 1.0
	if t != 1 {
		seg, tt = split(t, cc)
		i = seg * ps.step
	} else {
		seg, i = cc-1, n-ps.step
	}
	idx := Index{Segment: seg, T: tt}
	for k := 0; k <= ps.step; k++ {
		idx.P[k] = mod(i+k, n)
	}
	return idx
}

// segmentIndex returns the point indices of segment seg.
func (ps *points) segmentIndex(seg int, t float64) Index {
	idx := Index{Segment: seg, T: arithm3d.Clamp01(t)}
	i := seg * ps.step
	for k := 0; k <= ps.step; k++ {
		idx.P[k] = mod(i+k, len(ps.pts))
	}
	return idx
}

// split t·n into integer and fractional part. Rounding may push t·n onto n
// for t just below 1; this is folded back into the last segment.
func split(t float64, n int) (int, float64) {
	tt := t * float64(n)
	seg := int(math.Floor(tt))
	if seg >= n {
		return n - 1, 1
	}
	return seg, tt - float64(seg)
}

// mod handles negative a, e.g. mod(-1, 5) = 4.
func mod(a, b int) int {
	v := a % b
	if v < 0 {
		return b + v
	}
	return v
}

// AsString returns a human readable form of a spline, e.g.
//
//	(0,0,0) .. controls (1,1,0) and (2,1,0) .. (3,0,0)
//
// for cubic splines and
//
//	(0,0,0) .. control (1,1,0) .. (2,0,0) .. cycle
//
// for quadratic ones.
func AsString(s Spline) string {
	if s == nil || s.PointCount() == 0 {
		return "<empty spline>"
	}
	var sb strings.Builder
	n, deg := s.PointCount(), s.Degree()
	for i := 0; i < n; i++ {
		p := s.Point(i).Position
		switch {
		case i == 0:
			sb.WriteString(p.String())
		case deg == 3 && i%3 == 1:
			fmt.Fprintf(&sb, " .. controls %s", p)
		case deg == 3 && i%3 == 2:
			fmt.Fprintf(&sb, " and %s", p)
		case deg == 2 && i%2 == 1:
			fmt.Fprintf(&sb, " .. control %s", p)
		default:
			fmt.Fprintf(&sb, " .. %s", p)
		}
	}
	if s.IsLoop() {
		sb.WriteString(" .. cycle")
	}
	return sb.String()
}
