/*
Package railfile reads rail definitions from YAML files.

A rail file names a set of rails, each given by the control points of a
Bézier spline, together with the parameters for sampling them and tracing
the process:

	logging:
	  level: info
	sampling:
	  samples_per_curve: 16
	  frames: 64
	rails:
	  - name: orbit
	    kind: cubic
	    loop: true
	    up: [0, 1, 0]
	    twist: { start: 0, end: 90 }
	    width: 1
	    points: [[5,0,0], [5,0,6.667], [-5,0,6.667], [-5,0,0], [-5,0,-6.667], [5,0,-6.667]]

Settings missing from a file keep their defaults. A rail is turned into a
spline by Build, into framed samples by Frames and into a ground footprint by
Footprint.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package railfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/arithm3d"
	"github.com/npillmayer/arithm3d/polygon"
	"github.com/npillmayer/arithm3d/rmf"
	"github.com/npillmayer/arithm3d/sampler"
	"github.com/npillmayer/arithm3d/spline"
	"github.com/npillmayer/arithm3d/zaptrace"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'railfile'
func tracer() tracing.Trace {
	return tracing.Select("railfile")
}

var (
	// ErrNoRail is returned when looking up a rail name not in the file.
	ErrNoRail = errors.New("no such rail")
	// ErrUnknownKind is returned for spline kinds other than "cubic" and "quad".
	ErrUnknownKind = errors.New("unknown spline kind")
	// ErrBadVector is returned for vectors without exactly 3 components.
	ErrBadVector = errors.New("vector must have 3 components")
	// ErrInvalidRail is returned for rails whose number of points does not
	// form a valid curve or loop.
	ErrInvalidRail = errors.New("invalid number of control points")
)

// DefaultWidth is the width of rails which do not state one.
const DefaultWidth = 1.0

// Config is the content of a rail file.
type Config struct {
	Logging  zaptrace.Config `yaml:"logging"`
	Sampling SamplingConfig  `yaml:"sampling"`
	Rails    []Rail          `yaml:"rails"`
}

// SamplingConfig holds the parameters for sampling rails.
type SamplingConfig struct {
	SamplesPerCurve int `yaml:"samples_per_curve"` // arc length table resolution
	Frames          int `yaml:"frames"`            // framed samples per rail
}

// Rail is a single rail definition.
type Rail struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"` // "cubic" (default) or "quad"
	Loop   bool        `yaml:"loop"`
	Up     []float64   `yaml:"up,omitempty"`
	Twist  Twist       `yaml:"twist"`
	Width  float64     `yaml:"width,omitempty"`
	Points [][]float64 `yaml:"points"`
}

// Twist is a linear twist of the frames along a rail, in degrees.
type Twist struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Default returns a configuration without rails.
func Default() *Config {
	return &Config{
		Logging: zaptrace.DefaultConfig(),
		Sampling: SamplingConfig{
			SamplesPerCurve: 16,
			Frames:          64,
		},
	}
}

// Parse reads a configuration from YAML data, merged over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}

// Load reads a configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading rails from %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading rails from %s: %w", path, err)
	}
	tracer().P("file", path).Infof("loaded %d rails", len(cfg.Rails))
	return cfg, nil
}

// SaveTo writes the configuration to a YAML file.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Rail returns the rail with the given name.
func (c *Config) Rail(name string) (*Rail, error) {
	for i := range c.Rails {
		if c.Rails[i].Name == name {
			return &c.Rails[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoRail, name)
}

// InstallTracing installs a zap based trace selector configured by the
// logging section. Clients should close the selector when done.
func (c *Config) InstallTracing() (*zaptrace.Selector, error) {
	return zaptrace.Install(c.Logging)
}

// === Rails =================================================================

// Build creates the spline of a rail.
func (r *Rail) Build() (spline.Spline, error) {
	pts := make([]arithm3d.Vec3, len(r.Points))
	for i, p := range r.Points {
		v, err := vec(p)
		if err != nil {
			return nil, fmt.Errorf("rail %q, point %d: %w", r.Name, i, err)
		}
		pts[i] = v
	}
	var s spline.Spline
	switch r.Kind {
	case "", "cubic":
		c := spline.NewCubic().Knots(pts...)
		if r.Loop {
			c.Cycle()
		} else {
			c.End()
		}
		s = c
	case "quad":
		q := spline.NewQuad().Knots(pts...)
		if r.Loop {
			q.Cycle()
		} else {
			q.End()
		}
		s = q
	default:
		return nil, fmt.Errorf("rail %q: %w: %q", r.Name, ErrUnknownKind, r.Kind)
	}
	if !s.IsValid() {
		tracer().Errorf("rail %q: %d points do not form a spline", r.Name, len(pts))
		return nil, fmt.Errorf("rail %q: %w (%d)", r.Name, ErrInvalidRail, len(pts))
	}
	return s, nil
}

// Frames samples a rail evenly by arc length and attaches rotation minimizing
// frames, twisted as configured.
func (r *Rail) Frames(sampling SamplingConfig) ([]sampler.Sample, error) {
	s, err := r.Build()
	if err != nil {
		return nil, err
	}
	var up *arithm3d.Vec3
	if len(r.Up) > 0 {
		v, err := vec(r.Up)
		if err != nil {
			return nil, fmt.Errorf("rail %q, up: %w", r.Name, err)
		}
		up = &v
	}
	if sampling.Frames < 1 {
		return nil, fmt.Errorf("rail %q: %w: frames = %d", r.Name, sampler.ErrTooFewSamples,
			sampling.Frames)
	}
	table, err := sampler.FromSpline(s, sampling.SamplesPerCurve)
	if err != nil {
		return nil, fmt.Errorf("rail %q: %w", r.Name, err)
	}
	samples := sampler.Uniform(s, table, sampling.Frames)
	rmf.TransportNormal(samples, up)
	if r.Twist.Start != 0 || r.Twist.End != 0 {
		rmf.ApplyLinearTwist(samples, r.Twist.Start*arithm3d.Deg2Rad, r.Twist.End*arithm3d.Deg2Rad)
	}
	tracer().P("rail", r.Name).Infof("%d frames over length %g", len(samples), table.Total())
	return samples, nil
}

// Footprint returns the outline of a rail in the ground plane.
func (r *Rail) Footprint(sampling SamplingConfig) (*polygon.Polygon, error) {
	samples, err := r.Frames(sampling)
	if err != nil {
		return nil, err
	}
	w := r.Width
	if w <= 0 {
		w = DefaultWidth
	}
	return polygon.FromSamples(samples, w/2), nil
}

func vec(c []float64) (arithm3d.Vec3, error) {
	if len(c) != 3 {
		return arithm3d.Vec3{}, fmt.Errorf("%w, have %d", ErrBadVector, len(c))
	}
	return arithm3d.V(c[0], c[1], c[2]), nil
}
