package polygon

import (
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/sampler"
)

// FromSamples creates the ground footprint of a rail of width 2·halfWidth,
// following framed samples. The sides of the rail are offset along the
// samples' binormals, projected onto the ground plane. Where a binormal is
// vertical, the side direction is derived from the tangent instead.
//
// If the first and last sample coincide, the rail is a loop and the
// footprint is a ring: an outer contour with a hole. Otherwise the footprint
// is a single contour running up the left side and down the right side.
// Samples without a usable side direction are skipped.
func FromSamples(samples []sampler.Sample, halfWidth float64) *Polygon {
	var left, right []Point
	for _, smp := range samples {
		side, ok := sideOf(smp)
		if !ok {
			continue
		}
		c := Ground(smp.Position)
		left = append(left, P(c.X+side.X*halfWidth, c.Y+side.Y*halfWidth))
		right = append(right, P(c.X-side.X*halfWidth, c.Y-side.Y*halfWidth))
	}
	pg := NullPolygon()
	if len(left) < 2 {
		L().Debugf("footprint needs at least 2 samples, have %d", len(left))
		return pg
	}
	n := len(samples)
	if n > 2 && samples[0].Position.Equal(samples[n-1].Position) {
		pg.Knots(left[:len(left)-1]...).Cycle()
		pg.Knots(right[:len(right)-1]...).Cycle()
		return pg
	}
	pg.Knots(left...)
	for i := len(right) - 1; i >= 0; i-- {
		pg.Knot(right[i])
	}
	return pg.Cycle()
}

// sideOf returns the unit direction from a sample's center line to its
// left side, in ground coordinates.
func sideOf(smp sampler.Sample) (Point, bool) {
	b := arithm3d.V(smp.Binormal.X, 0, smp.Binormal.Z)
	if arithm3d.Is0(b.Len()) {
		// perpendicular to the ground projection of the tangent
		b = arithm3d.V(smp.Tangent.Z, 0, -smp.Tangent.X)
		if arithm3d.Is0(b.Len()) {
			return Point{}, false
		}
	}
	b = b.Normalize()
	return P(b.X, b.Z), true
}
