/*
Package polygon deals with footprints of rails in the ground plane.

Polygons consist of one or more closed contours. Contours nested inside
others are holes (even-odd rule). Polygons can be combined with boolean
operations, which are delegated to polyclip-go (an implementation of the
Martinez–Rueda–Feito clipping algorithm).

Polygons are built with a builder API:

	pg := polygon.NullPolygon().Knot(polygon.P(0, 0)).Knot(polygon.P(1, 3)).
	    Knot(polygon.P(3, 0)).Cycle()

Rail footprints are derived from framed samples with FromSamples. The ground
plane is the X/Z plane of 3D space; polygon point (x,y) corresponds to
(x,·,y).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/schuko/tracing"
)

// L writes to trace with key 'polygon'
func L() tracing.Trace {
	return tracing.Select("polygon")
}

// Point is a point in the ground plane.
type Point = polyclip.Point

// P is a quick notation for constructing a point from floats.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Ground projects a 3D position onto the ground plane.
func Ground(v arithm3d.Vec3) Point {
	return Point{X: v.X, Y: v.Z}
}

// Polygon is a set of closed contours.
type Polygon struct {
	contours polyclip.Polygon
	current  polyclip.Contour // contour under construction
}

// NullPolygon creates an empty polygon, to be extended by subsequent builder
// calls.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot adds a point to the contour under construction. Part of builder
// functionality.
func (pg *Polygon) Knot(p Point) *Polygon {
	pg.current.Add(p)
	return pg
}

// Knots adds a sequence of points to the contour under construction. Part of
// builder functionality.
func (pg *Polygon) Knots(pts ...Point) *Polygon {
	for _, p := range pts {
		pg.current.Add(p)
	}
	return pg
}

// Cycle closes the contour under construction. Subsequent knots start a new
// contour. Contours with less than 3 points are dropped. Part of builder
// functionality.
func (pg *Polygon) Cycle() *Polygon {
	if len(pg.current) < 3 {
		L().Debugf("dropping degenerate contour of %d points", len(pg.current))
	} else {
		pg.contours.Add(pg.current)
	}
	pg.current = nil
	return pg
}

// Box creates a rectangle from two opposite corners.
func Box(p1, p2 Point) *Polygon {
	x0, x1 := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	y0, y1 := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	return NullPolygon().Knot(P(x0, y0)).Knot(P(x1, y0)).Knot(P(x1, y1)).Knot(P(x0, y1)).Cycle()
}

func wrap(pc polyclip.Polygon) *Polygon {
	return &Polygon{contours: pc}
}

// N returns the number of vertices of all closed contours.
func (pg *Polygon) N() int {
	return pg.contours.NumVertices()
}

// Contours returns the number of closed contours.
func (pg *Polygon) Contours() int {
	return len(pg.contours)
}

// Contour returns a copy of the vertices of contour i.
func (pg *Polygon) Contour(i int) []Point {
	c := make([]Point, len(pg.contours[i]))
	copy(c, pg.contours[i])
	return c
}

// IsEmpty is a predicate: does this polygon have no closed contours?
func (pg *Polygon) IsEmpty() bool {
	return len(pg.contours) == 0
}

// BoundingBox returns the bounding rectangle of all contours. The
// bounding box of an empty polygon is the zero rectangle.
func (pg *Polygon) BoundingBox() polyclip.Rectangle {
	if pg.IsEmpty() {
		return polyclip.Rectangle{}
	}
	return pg.contours.BoundingBox()
}

// Contains is a predicate: is p inside of pg (even-odd rule)?
func (pg *Polygon) Contains(p Point) bool {
	inside := false
	for _, c := range pg.contours {
		if c.Contains(p) {
			inside = !inside
		}
	}
	return inside
}

// Area returns the area covered by pg. Contours inside of an odd number of
// other contours are holes and subtract from the area.
func (pg *Polygon) Area() float64 {
	var area float64
	for i, c := range pg.contours {
		a := math.Abs(shoelace(c))
		depth := 0
		for j, other := range pg.contours {
			if i != j && other.Contains(c[0]) {
				depth++
			}
		}
		if depth%2 == 1 {
			area -= a
		} else {
			area += a
		}
	}
	return area
}

// shoelace returns the signed area of a contour, positive for
// counter-clockwise orientation.
func shoelace(c polyclip.Contour) float64 {
	var a float64
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// === Boolean operations ====================================================

// Union returns the union of pg and other.
func (pg *Polygon) Union(other *Polygon) *Polygon {
	return pg.construct(polyclip.UNION, other)
}

// Intersection returns the intersection of pg and other.
func (pg *Polygon) Intersection(other *Polygon) *Polygon {
	return pg.construct(polyclip.INTERSECTION, other)
}

// Difference returns pg minus other.
func (pg *Polygon) Difference(other *Polygon) *Polygon {
	return pg.construct(polyclip.DIFFERENCE, other)
}

// Xor returns the symmetric difference of pg and other.
func (pg *Polygon) Xor(other *Polygon) *Polygon {
	return pg.construct(polyclip.XOR, other)
}

// Overlaps is a predicate: do pg and other share any area?
func (pg *Polygon) Overlaps(other *Polygon) bool {
	return !pg.Intersection(other).IsEmpty()
}

func (pg *Polygon) construct(op polyclip.Op, other *Polygon) *Polygon {
	if other == nil {
		other = NullPolygon()
	}
	result := pg.contours.Construct(op, other.contours)
	L().Debugf("boolean op %d: %d × %d contours → %d", op, len(pg.contours),
		len(other.contours), len(result))
	return wrap(result)
}

// AsString returns a human readable form of a polygon, e.g.
//
//	(0,0)--(1,3)--(3,0)--cycle
//
// Contours are separated by " & ".
func AsString(pg *Polygon) string {
	if pg == nil || pg.IsEmpty() {
		return "<empty polygon>"
	}
	var sb strings.Builder
	for i, c := range pg.contours {
		if i > 0 {
			sb.WriteString(" & ")
		}
		for _, p := range c {
			fmt.Fprintf(&sb, "(%g,%g)--", p.X, p.Y)
		}
		sb.WriteString("cycle")
	}
	return sb.String()
}
