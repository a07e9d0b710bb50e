package spline

import (
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/bezier"
)

// Quad is a spline of quadratic Bézier segments. Points are laid out as
//
//	anchor, handle, anchor, handle, anchor, …
//
// A loop of 5 points has 3 segments. The last one, {4,0,1}, wraps around
// and ends on point 1 for t < 1, while t = 1 maps to the segment {3,4,0}
// ending on point 0. Positions therefore jump from point 1 to point 0 right
// at the end of such a loop.
type Quad struct {
	points
}

var _ Spline = (*Quad)(nil)

// NewQuad creates an empty open quadratic spline, to be extended by
// subsequent builder calls.
func NewQuad() *Quad {
	return &Quad{points: points{step: 2}}
}

// Degree returns 2.
func (q *Quad) Degree() int {
	return 2
}

// Add appends a control point and returns its index. Points at odd indices
// are handles.
func (q *Quad) Add(pos arithm3d.Vec3) int {
	role := Anchor
	if len(q.pts)%2 == 1 {
		role = Handle
	}
	return q.add(pos, role)
}

// AddRole appends a control point with an explicit role.
func (q *Quad) AddRole(pos arithm3d.Vec3, role Role) int {
	return q.add(pos, role)
}

// Knot adds a control point. Part of builder functionality.
func (q *Quad) Knot(pos arithm3d.Vec3) *Quad {
	q.Add(pos)
	return q
}

// Knots adds a sequence of control points. Part of builder functionality.
func (q *Quad) Knots(pos ...arithm3d.Vec3) *Quad {
	for _, p := range pos {
		q.Add(p)
	}
	return q
}

// Cycle closes the spline. Part of builder functionality.
func (q *Quad) Cycle() *Quad {
	q.SetLoop(true)
	if !q.IsValidLoop() {
		tracer().Debugf("quadratic loop of %d points is not valid", q.PointCount())
	}
	return q
}

// End ends an open spline. Part of builder functionality.
func (q *Quad) End() *Quad {
	q.SetLoop(false)
	return q
}

// IsValidCurve is a predicate: are there enough points for an open curve?
func (q *Quad) IsValidCurve() bool {
	n := len(q.pts)
	return n >= 3 && (n-1)%2 == 0
}

// IsValidLoop is a predicate: are there enough points for a working loop?
func (q *Quad) IsValidLoop() bool {
	n := len(q.pts)
	return n >= 5 && (n-1)&2 == 0
}

// IsValid checks the topology according to the loop state.
func (q *Quad) IsValid() bool {
	if q.loop {
		return q.IsValidLoop()
	}
	return q.IsValidCurve()
}

// At evaluates position, velocity and acceleration at global parameter t.
// Outputs which are nil are skipped.
func (q *Quad) At(t float64, pos, vel, acc *arithm3d.Vec3) {
	if q.CurveCount() == 0 {
		return
	}
	q.eval(q.CurveIndex(t), pos, vel, acc)
}

// AtSegment evaluates segment seg at local parameter t, bypassing the
// global mapping. Segments out of range are ignored.
func (q *Quad) AtSegment(seg int, t float64, pos, vel, acc *arithm3d.Vec3) {
	if seg < 0 || seg >= q.CurveCount() {
		return
	}
	q.eval(q.segmentIndex(seg, t), pos, vel, acc)
}

func (q *Quad) eval(idx Index, pos, vel, acc *arithm3d.Vec3) {
	a := q.pts[idx.P[0]].Position
	b := q.pts[idx.P[1]].Position
	c := q.pts[idx.P[2]].Position
	if pos != nil {
		*pos = bezier.QuadPosition(a, b, c, idx.T)
	}
	if vel != nil {
		*vel = bezier.QuadVelocity(a, b, c, idx.T)
	}
	if acc != nil {
		*acc = bezier.QuadAcceleration(a, b, c)
	}
}
