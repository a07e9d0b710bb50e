package spline

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func diff(t *testing.T, want, got interface{}) {
	t.Helper()
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got)\n%s", d)
	}
}

func testcubic() *Cubic {
	return NewCubic().Knots(
		arithm3d.V(0, 0, 0), arithm3d.V(1, 1, 0), arithm3d.V(2, 1, 0), arithm3d.V(3, 0, 0),
		arithm3d.V(4, -1, 1), arithm3d.V(5, -1, 2), arithm3d.V(6, 0, 2),
	).End()
}

func testquadloop() *Quad {
	return NewQuad().Knots(
		arithm3d.V(0, 0, 0), arithm3d.V(1, 0, 1), arithm3d.V(2, 0, 0),
		arithm3d.V(1, 0, -1), arithm3d.V(0, 0, -2),
	).Cycle()
}

func TestCreateSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	assert.Equal(t, 3, s.Degree())
	assert.Equal(t, 7, s.PointCount())
	assert.Equal(t, 2, s.CurveCount())
	assert.True(t, s.IsValid())
	assert.False(t, s.IsLoop())
	tracing.Select("spline").Infof("spline = %s", AsString(s))
}

func TestCubicRoles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	roles := []Role{Anchor, Handle, Handle, Anchor, Handle, Handle, Anchor}
	for i, r := range roles {
		assert.Equal(t, r, s.Point(i).Role, "role of point #%d", i)
	}
	q := NewQuad().Knots(arithm3d.Origin, arithm3d.XAxis, arithm3d.YAxis)
	assert.Equal(t, Handle, q.Point(1).Role)
	assert.Equal(t, Anchor, q.Point(2).Role)
	i := q.AddRole(arithm3d.ZAxis, Anchor)
	assert.Equal(t, 3, i)
	assert.Equal(t, Anchor, q.Point(3).Role)
	assert.Equal(t, "handle", Handle.String())
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCubic().Knots(
		arithm3d.V(0, 0, 0), arithm3d.V(1, 0, 0), arithm3d.V(2, 0, 0), arithm3d.V(3, 0, 0),
	).End()
	var pos, vel, acc arithm3d.Vec3
	s.At(0.5, &pos, &vel, &acc)
	assert.InDelta(t, 1.5, pos.X, 1e-12)
	assert.InDelta(t, 3.0, vel.X, 1e-12)
	assert.InDelta(t, 0.0, acc.Len(), 1e-12)
	assert.Equal(t, 0.0, pos.Y)
	assert.Equal(t, 0.0, pos.Z)
}

func TestOpenEndpoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	var pos arithm3d.Vec3
	s.At(0, &pos, nil, nil)
	if pos != s.Point(0).Position {
		t.Errorf("expected open spline to start at first point, is %s", pos)
	}
	s.At(1, &pos, nil, nil)
	if pos != s.Point(6).Position {
		t.Errorf("expected open spline to end at last point, is %s", pos)
	}
	s.At(1.5, &pos, nil, nil)
	if pos != s.Point(6).Position {
		t.Errorf("expected parameter to be clamped, is %s", pos)
	}
}

func TestCurveIndexOpen(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	diff(t, Index{Segment: 0, P: [4]int{0, 1, 2, 3}, T: 0}, s.CurveIndex(-1))
	diff(t, Index{Segment: 0, P: [4]int{0, 1, 2, 3}, T: 0.5}, s.CurveIndex(0.25))
	diff(t, Index{Segment: 1, P: [4]int{3, 4, 5, 6}, T: 0}, s.CurveIndex(0.5))
	diff(t, Index{Segment: 1, P: [4]int{3, 4, 5, 6}, T: 0.5}, s.CurveIndex(0.75))
	diff(t, Index{Segment: 1, P: [4]int{3, 4, 5, 6}, T: 1}, s.CurveIndex(1))
}

func TestQuadLoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testquadloop()
	assert.True(t, s.IsValid())
	assert.Equal(t, 3, s.CurveCount())
	idx0, idx1 := s.CurveIndex(0), s.CurveIndex(1)
	diff(t, Index{Segment: 0, P: [4]int{0, 1, 2}, T: 0}, idx0)
	diff(t, Index{Segment: 2, P: [4]int{3, 4, 0}, T: 1}, idx1)
	if idx1.P[2] != idx0.P[0] {
		t.Errorf("expected loop to end on the first point")
	}
	diff(t, Index{Segment: 1, P: [4]int{2, 3, 4}, T: 0.5}, s.CurveIndex(0.5))
	var p0, p1 arithm3d.Vec3
	s.At(0, &p0, nil, nil)
	s.At(1, &p1, nil, nil)
	assert.InDelta(t, 0.0, p0.Dist(p1), 1e-9)
}

func TestQuadLoopEndJump(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testquadloop()
	diff(t, [4]int{4, 0, 1}, s.CurveIndex(0.999999).P)
	diff(t, [4]int{3, 4, 0}, s.CurveIndex(1).P)
	var before, end arithm3d.Vec3
	s.At(0.999999, &before, nil, nil)
	s.At(1, &end, nil, nil)
	assert.InDelta(t, 0.0, before.Dist(s.Point(1).Position), 1e-4)
	assert.InDelta(t, 0.0, end.Dist(s.Point(0).Position), 1e-9)
	assert.InDelta(t, math.Sqrt2, before.Dist(end), 1e-4)
}

func TestCubicLoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCubic().Knots(
		arithm3d.V(0, 0, 0), arithm3d.V(1, 0, 1), arithm3d.V(2, 0, 1),
		arithm3d.V(3, 0, 0), arithm3d.V(2, 0, -1), arithm3d.V(1, 0, -1),
	).Cycle()
	assert.True(t, s.IsValidLoop())
	assert.False(t, s.IsValidCurve())
	assert.Equal(t, 2, s.CurveCount())
	diff(t, Index{Segment: 1, P: [4]int{3, 4, 5, 0}, T: 1}, s.CurveIndex(1))
	diff(t, Index{Segment: 1, P: [4]int{3, 4, 5, 0}, T: 0.5}, s.CurveIndex(0.75))
	var p0, p1, v0, v1 arithm3d.Vec3
	s.At(0, &p0, &v0, nil)
	s.At(1, &p1, &v1, nil)
	assert.InDelta(t, 0.0, p0.Dist(p1), 1e-9)
	s.End()
	assert.Equal(t, 1, s.CurveCount())
	assert.False(t, s.IsValid())
}

func TestInvalidLoopDoesNotCrash(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic().Cycle()
	assert.False(t, s.IsValid())
	assert.Equal(t, 3, s.CurveCount())
	var pos arithm3d.Vec3
	for i := 0; i <= 100; i++ {
		s.At(float64(i)/100, &pos, nil, nil)
		if pos.IsNaN() {
			t.Fatalf("unexpected NaN at t=%g", float64(i)/100)
		}
	}
	q := NewQuad().Knots(arithm3d.Origin, arithm3d.XAxis, arithm3d.YAxis,
		arithm3d.ZAxis, arithm3d.V(1, 1, 1), arithm3d.V(2, 2, 2), arithm3d.V(3, 3, 3)).Cycle()
	assert.False(t, q.IsValidLoop())
	q.At(1, &pos, nil, nil)
	assert.False(t, pos.IsNaN())
}

func TestValidity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := NewQuad()
	var curve, loop []bool
	for i := 0; i < 9; i++ {
		q.Add(arithm3d.V(float64(i), 0, 0))
		curve = append(curve, q.IsValidCurve())
		loop = append(loop, q.IsValidLoop())
	}
	diff(t, []bool{false, false, true, false, true, false, true, false, true}, curve)
	diff(t, []bool{false, false, false, false, true, true, false, false, true}, loop)
	c := NewCubic()
	curve, loop = nil, nil
	for i := 0; i < 9; i++ {
		c.Add(arithm3d.V(float64(i), 0, 0))
		curve = append(curve, c.IsValidCurve())
		loop = append(loop, c.IsValidLoop())
	}
	diff(t, []bool{false, false, false, true, false, false, true, false, false}, curve)
	diff(t, []bool{false, false, false, false, false, true, false, false, true}, loop)
}

func TestUnderPopulated(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCubic().Knot(arithm3d.V(0, 0, 0)).Knot(arithm3d.V(1, 0, 0)).Cycle()
	assert.Equal(t, 0, s.CurveCount())
	sentinel := arithm3d.V(42, 42, 42)
	pos, vel := sentinel, sentinel
	s.At(0.5, &pos, &vel, nil)
	assert.Equal(t, sentinel, pos)
	assert.Equal(t, sentinel, vel)
	diff(t, Index{}, s.CurveIndex(0.5))
	s.AtSegment(0, 0.5, &pos, nil, nil)
	assert.Equal(t, sentinel, pos)
	q := NewQuad()
	q.At(0.3, &pos, nil, nil)
	assert.Equal(t, sentinel, pos)
	assert.Equal(t, "<empty spline>", AsString(q))
}

func TestAtSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := NewQuad().Knots(arithm3d.V(0, 0, 0), arithm3d.V(1, 2, 0),
		arithm3d.V(2, 0, 0), arithm3d.V(3, -2, 0), arithm3d.V(4, 0, 1)).End()
	var a, b, va, vb arithm3d.Vec3
	q.AtSegment(1, 0.5, &a, &va, nil)
	q.At(0.75, &b, &vb, nil)
	assert.Equal(t, b, a)
	assert.Equal(t, vb, va)
	c := arithm3d.V(-1, -1, -1)
	q.AtSegment(2, 0.5, &c, nil, nil)
	assert.Equal(t, arithm3d.V(-1, -1, -1), c)
	var acc arithm3d.Vec3
	q.AtSegment(0, 0.3, nil, nil, &acc)
	assert.Equal(t, arithm3d.V(0, -8, 0), acc)
}

func TestSetPosition(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	err := s.SetPosition(3, arithm3d.V(3, 5, 0))
	assert.NoError(t, err)
	assert.Equal(t, arithm3d.V(3, 5, 0), s.Point(3).Position)
	var pos arithm3d.Vec3
	s.At(0.5, &pos, nil, nil)
	assert.Equal(t, arithm3d.V(3, 5, 0), pos)
	err = s.SetPosition(7, arithm3d.Origin)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	err = s.SetPosition(-1, arithm3d.Origin)
	assert.Error(t, err)
}

func TestPointsIsCopy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	pts := s.Points()
	pts[0].Position = arithm3d.V(100, 100, 100)
	assert.Equal(t, arithm3d.Origin, s.Point(0).Position)
	assert.Equal(t, s.Point(6), s.Point(-1))
}

func TestBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	box := s.Bounds()
	assert.Equal(t, 0.0, box.Min.X)
	assert.Equal(t, -1.0, box.Min.Y)
	assert.Equal(t, 0.0, box.Min.Z)
	assert.Equal(t, 6.0, box.Max.X)
	assert.Equal(t, 1.0, box.Max.Y)
	assert.Equal(t, 2.0, box.Max.Z)
	var pos arithm3d.Vec3
	for i := 0; i <= 20; i++ {
		s.At(float64(i)/20, &pos, nil, nil)
		if pos.X < box.Min.X || pos.X > box.Max.X || pos.Y < box.Min.Y || pos.Y > box.Max.Y {
			t.Errorf("curve point %s outside of control hull box", pos)
		}
	}
}

func TestNoRoundingOverflow(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testcubic()
	idx := s.CurveIndex(math.Nextafter(1, 0))
	assert.Equal(t, 1, idx.Segment)
	assert.LessOrEqual(t, idx.T, 1.0)
}

func TestAsString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCubic().Knots(arithm3d.V(0, 0, 0), arithm3d.V(1, 1, 0),
		arithm3d.V(2, 1, 0), arithm3d.V(3, 0, 0)).End()
	assert.Equal(t, "(0,0,0) .. controls (1,1,0) and (2,1,0) .. (3,0,0)", AsString(s))
	q := NewQuad().Knots(arithm3d.V(0, 0, 0), arithm3d.V(1, 1, 0), arithm3d.V(2, 0, 0)).Cycle()
	assert.Equal(t, "(0,0,0) .. control (1,1,0) .. (2,0,0) .. cycle", AsString(q))
}

func ExampleCubic() {
	s := NewCubic().
		Knot(arithm3d.V(0, 0, 0)).Knot(arithm3d.V(1, 1, 0)).
		Knot(arithm3d.V(2, 1, 0)).Knot(arithm3d.V(3, 0, 0)).End()
	var pos arithm3d.Vec3
	s.At(0.5, &pos, nil, nil)
	fmt.Println(pos)
	// Output: (1.5,0.75,0)
}

func TestSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := testquadloop()
	seg := s.Segment(2)
	if assert.Len(t, seg, 3) {
		assert.Equal(t, s.Point(4), seg[0])
		assert.Equal(t, s.Point(0), seg[1])
		assert.Equal(t, s.Point(1), seg[2])
	}
	assert.Nil(t, s.Segment(3))
	assert.Nil(t, s.Segment(-1))
	assert.Len(t, testcubic().Segment(1), 4)
}
