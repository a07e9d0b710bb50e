/*
Package sampler re-parameterizes splines by arc length.

A spline's global parameter t does not advance at constant speed: segments of
different length get equal shares of [0,1], and handles bunch up positions
within a segment. An ArcLengthTable samples the spline as a polyline and maps
a fraction u of the total length back onto the parameter t, such that the
spline position at t has travelled u·length along the curve.

	table, err := sampler.FromSpline(s, 16)
	...
	t := table.At(0.25)   // a quarter of the way, by distance
	s.At(t, &pos, nil, nil)

Tables are immutable and independent of the spline they have been built from;
they have to be rebuilt after control points move.

Package sampler also collects Samples, i.e. positions along a spline decorated
with distance bookkeeping and a local frame. Frames are computed by package
rmf.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package sampler

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'sampler'
func tracer() tracing.Trace {
	return tracing.Select("sampler")
}

// Errors returned when building tables.
var (
	ErrNilSpline     = errors.New("cannot sample nil spline")
	ErrTooFewSamples = errors.New("need at least 2 samples per curve")
)

// ArcLengthTable holds cumulative arc lengths of a spline at evenly spaced
// parameter values of each segment. The table has
//
//	curveCount·(samplesPerCurve-1) + 1
//
// entries; entry 0 is the start of the spline, and segments share their
// boundary entries.
type ArcLengthTable struct {
	curveCnt        int
	samplesPerCurve int
	total           float64
	lengths         []float64 // cumulative length at each sample
	increments      []float64 // length travelled since the previous sample
	params          []float64 // segment index + local parameter
}

// FromSpline samples s with samplesPerCurve samples per segment (including
// both end points of a segment) and returns the resulting table.
//
// Splines without segments produce a table with a single entry, mapping
// everything to 0.
func FromSpline(s spline.Spline, samplesPerCurve int) (*ArcLengthTable, error) {
	if s == nil {
		return nil, ErrNilSpline
	}
	if samplesPerCurve < 2 {
		return nil, fmt.Errorf("%w, have %d", ErrTooFewSamples, samplesPerCurve)
	}
	cc := s.CurveCount()
	steps := samplesPerCurve - 1
	n := cc*steps + 1
	table := &ArcLengthTable{
		curveCnt:        cc,
		samplesPerCurve: samplesPerCurve,
		lengths:         make([]float64, n),
		increments:      make([]float64, n),
		params:          make([]float64, n),
	}
	var v0, v1 arithm3d.Vec3
	s.At(0, &v0, nil, nil)
	a := 1
	for i := 0; i < cc; i++ {
		for j := 1; j <= steps; j++ {
			t := float64(j) / float64(steps)
			s.AtSegment(i, t, &v1, nil, nil)
			l := v0.Dist(v1)
			table.total += l
			table.lengths[a] = table.total
			table.increments[a] = l
			table.params[a] = float64(i) + t
			v0 = v1
			a++
		}
	}
	tracer().P("curves", cc).Infof("arc-length table with %d samples, length = %g", n, table.total)
	return table, nil
}

// MustFromSpline is like FromSpline, but panics on error.
func MustFromSpline(s spline.Spline, samplesPerCurve int) *ArcLengthTable {
	table, err := FromSpline(s, samplesPerCurve)
	if err != nil {
		panic(err)
	}
	return table
}

// Len returns the number of entries of the table.
func (table *ArcLengthTable) Len() int {
	return len(table.lengths)
}

// Total returns the total length of the sampled polyline, which approximates
// the arc length of the spline from below.
func (table *ArcLengthTable) Total() float64 {
	return table.total
}

// CurveCount returns the number of segments of the sampled spline.
func (table *ArcLengthTable) CurveCount() int {
	return table.curveCnt
}

// SamplesPerCurve returns the number of samples taken per segment.
func (table *ArcLengthTable) SamplesPerCurve() int {
	return table.samplesPerCurve
}

// Entry returns the cumulative length, the increment and the global spline
// parameter of entry i.
func (table *ArcLengthTable) Entry(i int) (length, increment, t float64) {
	t = table.params[i]
	if table.curveCnt > 0 {
		t /= float64(table.curveCnt)
	}
	return table.lengths[i], table.increments[i], t
}

// AtDistance returns the global spline parameter at which the spline has
// travelled dist. The search is restricted to entries lo…hi, where hi is at
// most Len()-2. The entry found is the last one with a cumulative length
// below dist; if there is none, AtDistance returns 0.
func (table *ArcLengthTable) AtDistance(dist float64, lo, hi int) float64 {
	lo = max(lo, 0)
	hi = min(hi, len(table.lengths)-2)
	if lo > hi {
		return 0
	}
	// first entry with length >= dist; lengths are non-decreasing
	j, _ := slices.BinarySearch(table.lengths[lo:hi+1], dist)
	i := lo + j - 1
	if i < lo {
		return 0
	}
	var tt float64
	if inc := table.increments[i+1]; inc > 0 {
		tt = arithm3d.Clamp01((dist - table.lengths[i]) / inc)
	}
	t := table.params[i]*(1-tt) + table.params[i+1]*tt
	return t / float64(table.curveCnt)
}

// At maps a fraction u of the total length onto the global spline parameter.
// u is clamped to [0,1], with the end points mapping exactly onto 0 and 1.
func (table *ArcLengthTable) At(u float64) float64 {
	if u >= 1 {
		return 1
	} else if u <= 0 || math.IsNaN(u) {
		return 0
	}
	return table.AtDistance(table.total*u, 0, len(table.lengths)-2)
}

// AtRange maps a fraction t of the distance between the start of segment a
// and the start of segment b onto the global spline parameter. Passing
// b = CurveCount() addresses the end of the spline. t = 0 and empty ranges
// resolve to the start of segment a.
func (table *ArcLengthTable) AtRange(a, b int, t float64) float64 {
	last := len(table.lengths) - 1
	if last == 0 {
		return 0
	}
	step := table.samplesPerCurve - 1
	ai := min(max(a*step, 0), last-1)
	bi := min(max(b*step, 0), last)
	t = arithm3d.Clamp01(t)
	dist := table.lengths[ai]*(1-t) + table.lengths[bi]*t
	if dist <= table.lengths[ai] {
		return table.params[ai] / float64(table.curveCnt)
	}
	return table.AtDistance(dist, ai, bi)
}

// Positions re-evaluates s at every entry of the table and yields the
// entry's index and position. s should be the spline the table has been
// built from.
func (table *ArcLengthTable) Positions(s spline.Spline) iter.Seq2[int, arithm3d.Vec3] {
	return func(yield func(int, arithm3d.Vec3) bool) {
		if s == nil {
			return
		}
		var pos arithm3d.Vec3
		for i, p := range table.params {
			seg, t := table.curveCnt-1, 1.0
			if p < float64(table.curveCnt) {
				seg = int(math.Floor(p))
				t = p - float64(seg)
			}
			s.AtSegment(seg, t, &pos, nil, nil)
			if !yield(i, pos) {
				return
			}
		}
	}
}
