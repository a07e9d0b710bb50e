package sampler

import (
	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/spline"
)

// Sample is a position on a spline together with a local frame.
// Tangent points forward, Normal up and Binormal to the right. Frames are
// left zero by the sampler and filled in by frame transport.
type Sample struct {
	Position       arithm3d.Vec3
	Tangent        arithm3d.Vec3
	Normal         arithm3d.Vec3
	Binormal       arithm3d.Vec3
	Distance       float64 // distance from the first sample
	Increment      float64 // distance from the previous sample
	CurveParameter float64 // global spline parameter t
}

// Collector accumulates samples along a spline, keeping track of the
// distance travelled. The zero value is ready to use.
type Collector struct {
	items    []Sample
	distance float64
}

// AddAt evaluates s at global parameter t and appends the resulting sample.
// The tangent is the normalized velocity; where the velocity vanishes (cusps)
// the tangent is zero.
func (c *Collector) AddAt(s spline.Spline, t float64) Sample {
	smp := Sample{CurveParameter: t}
	var vel arithm3d.Vec3
	s.At(t, &smp.Position, &vel, nil)
	smp.Tangent = vel.Normalize()
	return c.AddItem(smp)
}

// AddItem appends smp, setting its Increment and Distance relative to the
// previously added sample. The first sample has distance 0.
func (c *Collector) AddItem(smp Sample) Sample {
	if len(c.items) > 0 {
		smp.Increment = smp.Position.Dist(c.items[len(c.items)-1].Position)
		c.distance += smp.Increment
		smp.Distance = c.distance
	} else {
		smp.Increment, smp.Distance = 0, 0
	}
	c.items = append(c.items, smp)
	return smp
}

// Samples returns the collected samples. The slice is shared with the
// collector until the next call of Reset.
func (c *Collector) Samples() []Sample {
	return c.items
}

// Len returns the number of samples collected.
func (c *Collector) Len() int {
	return len(c.items)
}

// Distance returns the distance travelled from the first to the last sample.
func (c *Collector) Distance() float64 {
	return c.distance
}

// Reset drops all samples.
func (c *Collector) Reset() {
	c.items = nil
	c.distance = 0
}

// Uniform creates n samples of s, evenly spaced by arc length according to
// table. The first sample is at the start of the spline, the last one at its
// end. For n == 1 a single sample at the start is returned, for n < 1 none.
func Uniform(s spline.Spline, table *ArcLengthTable, n int) []Sample {
	if n < 1 || s == nil || table == nil {
		return nil
	}
	c := &Collector{items: make([]Sample, 0, n)}
	if n == 1 {
		c.AddAt(s, 0)
		return c.Samples()
	}
	for i := 0; i < n; i++ {
		u := float64(i) / float64(n-1)
		c.AddAt(s, table.At(u))
	}
	tracer().Debugf("%d uniform samples, distance = %g", n, c.Distance())
	return c.Samples()
}
