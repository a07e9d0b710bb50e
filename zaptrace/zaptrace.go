/*
Package zaptrace implements tracing with zap.

The packages of this module trace through the facade of
github.com/npillmayer/schuko/tracing, which stays silent until an
application installs a trace selector. Package zaptrace provides such a
selector, handing out one tracer per trace key ("spline", "sampler", "rmf",
…), each backed by a zap logger named after its key. Output goes to the
console and, optionally, to a file rotated by lumberjack.

	sel, err := zaptrace.Install(zaptrace.Config{Level: "info", Console: true})
	if err != nil { … }
	defer sel.Close()

Trace levels may be set globally and per key.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package zaptrace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrUnknownLevel is returned for trace level names other than "error",
// "info" and "debug".
var ErrUnknownLevel = errors.New("unknown trace level")

// Config holds tracing settings.
type Config struct {
	Level      string            `yaml:"level"`        // default level for all keys
	Levels     map[string]string `yaml:"levels"`       // levels per trace key
	Console    bool              `yaml:"console"`      // trace to stderr
	File       string            `yaml:"file"`         // trace file, empty for none
	MaxSizeMB  int               `yaml:"max_size_mb"`  // rotate after
	MaxBackups int               `yaml:"max_backups"`  // rotated files to keep
	MaxAgeDays int               `yaml:"max_age_days"` // days to keep rotated files
	Compress   bool              `yaml:"compress"`     // gzip rotated files
}

// DefaultConfig returns settings tracing errors to the console.
func DefaultConfig() Config {
	return Config{
		Level:      "error",
		Console:    true,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}
}

// Validate checks the level names of c.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	for key, l := range c.Levels {
		if _, err := ParseLevel(l); err != nil {
			return fmt.Errorf("trace key %q: %w", key, err)
		}
	}
	return nil
}

// ParseLevel converts a level name to a trace level. Names are
// case-insensitive; the empty name means LevelError.
func ParseLevel(name string) (tracing.TraceLevel, error) {
	switch strings.ToLower(name) {
	case "", "error":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

func zapLevel(l tracing.TraceLevel) zapcore.Level {
	switch l {
	case tracing.LevelDebug:
		return zapcore.DebugLevel
	case tracing.LevelInfo:
		return zapcore.InfoLevel
	}
	return zapcore.ErrorLevel
}

func traceLevel(l zapcore.Level) tracing.TraceLevel {
	switch {
	case l <= zapcore.DebugLevel:
		return tracing.LevelDebug
	case l <= zapcore.InfoLevel:
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

// === Tracer ================================================================

// state is shared between a tracer and the tracers derived from it by P.
type state struct {
	mu   sync.RWMutex
	name string
	atom zap.AtomicLevel
	out  io.Writer
	file io.Writer
	log  *zap.Logger
}

func (st *state) rebuild() {
	var cores []zapcore.Core
	if st.out != nil {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "key",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(st.out), st.atom))
	}
	if st.file != nil {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "key",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(st.file), st.atom))
	}
	st.log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Named(st.name)
}

// Tracer implements tracing.Trace on top of a zap logger.
type Tracer struct {
	st     *state
	fields []interface{}
}

var _ tracing.Trace = (*Tracer)(nil)

// New creates a tracer for key name, writing to out and file. Either may be
// nil.
func New(name string, level tracing.TraceLevel, out, file io.Writer) *Tracer {
	st := &state{
		name: name,
		atom: zap.NewAtomicLevelAt(zapLevel(level)),
		out:  out,
		file: file,
	}
	st.rebuild()
	return &Tracer{st: st}
}

func (t *Tracer) sugar() *zap.SugaredLogger {
	t.st.mu.RLock()
	s := t.st.log.Sugar()
	t.st.mu.RUnlock()
	if len(t.fields) > 0 {
		s = s.With(t.fields...)
	}
	return s
}

// Errorf is part of interface Trace
func (t *Tracer) Errorf(format string, args ...interface{}) {
	t.sugar().Errorf(format, args...)
}

// Infof is part of interface Trace
func (t *Tracer) Infof(format string, args ...interface{}) {
	t.sugar().Infof(format, args...)
}

// Debugf is part of interface Trace
func (t *Tracer) Debugf(format string, args ...interface{}) {
	t.sugar().Debugf(format, args...)
}

// P is part of interface Trace. It returns a tracer which adds field key to
// its output; t itself is unchanged.
func (t *Tracer) P(key string, val interface{}) tracing.Trace {
	fields := append(slices.Clone(t.fields), key, val)
	return &Tracer{st: t.st, fields: fields}
}

// SetTraceLevel is part of interface Trace
func (t *Tracer) SetTraceLevel(l tracing.TraceLevel) {
	t.st.atom.SetLevel(zapLevel(l))
}

// GetTraceLevel is part of interface Trace
func (t *Tracer) GetTraceLevel() tracing.TraceLevel {
	return traceLevel(t.st.atom.Level())
}

// SetOutput is part of interface Trace. It replaces the console output;
// file output is unaffected.
func (t *Tracer) SetOutput(w io.Writer) {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	t.st.out = w
	t.st.rebuild()
}

// Sync flushes buffered output.
func (t *Tracer) Sync() error {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	return t.st.log.Sync()
}

// === Selector ==============================================================

// Selector hands out one tracer per key. It implements
// tracing.TraceSelector.
type Selector struct {
	mu      sync.Mutex
	cfg     Config
	file    *lumberjack.Logger
	tracers map[string]*Tracer
}

var _ tracing.TraceSelector = (*Selector)(nil)

// NewSelector creates a selector from cfg.
func NewSelector(cfg Config) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sel := &Selector{cfg: cfg, tracers: make(map[string]*Tracer)}
	if cfg.File != "" {
		sel.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
	}
	return sel, nil
}

// Select returns the tracer for key, creating it on first use.
func (sel *Selector) Select(key string) tracing.Trace {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	if t, ok := sel.tracers[key]; ok {
		return t
	}
	name, ok := sel.cfg.Levels[key]
	if !ok {
		name = sel.cfg.Level
	}
	level, _ := ParseLevel(name) // validated by NewSelector
	var out, file io.Writer
	if sel.cfg.Console {
		out = os.Stderr
	}
	if sel.file != nil {
		file = sel.file
	}
	t := New(key, level, out, file)
	sel.tracers[key] = t
	return t
}

// Sync flushes all tracers.
func (sel *Selector) Sync() error {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	var errs []error
	for _, t := range sel.tracers {
		if err := t.Sync(); err != nil && !isUnsyncable(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes all tracers and closes the trace file, if any.
func (sel *Selector) Close() error {
	err := sel.Sync()
	if sel.file != nil {
		err = errors.Join(err, sel.file.Close())
	}
	return err
}

// syncing stderr fails on some platforms, which is of no concern
func isUnsyncable(err error) bool {
	return errors.Is(err, os.ErrInvalid) || strings.Contains(err.Error(), "inappropriate ioctl") ||
		strings.Contains(err.Error(), "invalid argument")
}

// Install creates a selector from cfg and makes it the global trace
// selector of package tracing.
func Install(cfg Config) (*Selector, error) {
	sel, err := NewSelector(cfg)
	if err != nil {
		return nil, err
	}
	tracing.SetTraceSelector(sel)
	return sel, nil
}
