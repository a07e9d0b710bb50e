package spline

import (
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/bezier"
)

// Cubic is a spline of cubic Bézier segments. Points are laid out as
//
//	anchor, handle, handle, anchor, handle, handle, anchor, …
//
// with consecutive segments sharing their end anchors.
type Cubic struct {
	points
}

var _ Spline = (*Cubic)(nil)

// NewCubic creates an empty open cubic spline, to be extended by subsequent
// builder calls.
func NewCubic() *Cubic {
	return &Cubic{points: points{step: 3}}
}

// Degree returns 3.
func (c *Cubic) Degree() int {
	return 3
}

// Add appends a control point and returns its index. Points at index
// positions 1 and 2 (mod 3) are handles, all others anchors.
func (c *Cubic) Add(pos arithm3d.Vec3) int {
	role := Anchor
	if m := len(c.pts) % 3; m == 1 || m == 2 {
		role = Handle
	}
	return c.add(pos, role)
}

// AddRole appends a control point with an explicit role.
func (c *Cubic) AddRole(pos arithm3d.Vec3, role Role) int {
	return c.add(pos, role)
}

// Knot adds a control point. Part of builder functionality.
func (c *Cubic) Knot(pos arithm3d.Vec3) *Cubic {
	c.Add(pos)
	return c
}

// Knots adds a sequence of control points. Part of builder functionality.
func (c *Cubic) Knots(pos ...arithm3d.Vec3) *Cubic {
	for _, p := range pos {
		c.Add(p)
	}
	return c
}

// Cycle closes the spline. Part of builder functionality.
func (c *Cubic) Cycle() *Cubic {
	c.SetLoop(true)
	if !c.IsValidLoop() {
		tracer().Debugf("cubic loop of %d points does not close evenly", c.PointCount())
	}
	return c
}

// End ends an open spline. Part of builder functionality.
func (c *Cubic) End() *Cubic {
	c.SetLoop(false)
	return c
}

// IsValidCurve is a predicate: do the points form complete open segments?
func (c *Cubic) IsValidCurve() bool {
	n := len(c.pts)
	return n >= 4 && (n-1)%3 == 0
}

// IsValidLoop is a predicate: do the points form complete segments when
// wrapped around, i.e., is every anchor followed by two handles?
func (c *Cubic) IsValidLoop() bool {
	n := len(c.pts)
	return n >= 6 && n%3 == 0
}

// IsValid checks the topology according to the loop state.
func (c *Cubic) IsValid() bool {
	if c.loop {
		return c.IsValidLoop()
	}
	return c.IsValidCurve()
}

// At evaluates position, velocity and acceleration at global parameter t.
// Outputs which are nil are skipped.
func (c *Cubic) At(t float64, pos, vel, acc *arithm3d.Vec3) {
	if c.CurveCount() == 0 {
		return
	}
	c.eval(c.CurveIndex(t), pos, vel, acc)
}

// AtSegment evaluates segment seg at local parameter t, bypassing the
// global mapping. Segments out of range are ignored.
func (c *Cubic) AtSegment(seg int, t float64, pos, vel, acc *arithm3d.Vec3) {
	if seg < 0 || seg >= c.CurveCount() {
		return
	}
	c.eval(c.segmentIndex(seg, t), pos, vel, acc)
}

func (c *Cubic) eval(idx Index, pos, vel, acc *arithm3d.Vec3) {
	a := c.pts[idx.P[0]].Position
	b := c.pts[idx.P[1]].Position
	cc := c.pts[idx.P[2]].Position
	d := c.pts[idx.P[3]].Position
	if pos != nil {
		*pos = bezier.CubicPosition(a, b, cc, d, idx.T)
	}
	if vel != nil {
		*vel = bezier.CubicVelocity(a, b, cc, d, idx.T)
	}
	if acc != nil {
		*acc = bezier.CubicAcceleration(a, b, cc, d, idx.T)
	}
}
