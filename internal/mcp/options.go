package mcp

import (
	"log/slog"
	"time"

	"github.com/Abaw1984/azload-sub000/internal/metrics"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

const (
	DefaultOverrideLogCapacity    = 1000
	DefaultLowConfidenceThreshold = 0.5
	DefaultClassifierTimeout      = 10 * time.Second

	// Geometric tolerances in model length units
	DefaultToleranceImperial = 0.01  // ft
	DefaultToleranceMetric   = 0.003 // m
)

// Options configures an MCP. The zero value is usable.
type Options struct {
	Axes                   model.AxisConvention
	Tolerance              float64
	LowConfidenceThreshold float64
	OverrideLogCapacity    int
	ClassifierTimeout      time.Duration

	Sink    OverrideSink
	Clock   func() time.Time
	Logger  *slog.Logger
	Metrics *metrics.Registry
}

func (o Options) withDefaults() Options {
	if o.Axes.Vertical == "" || o.Axes.Width == "" {
		o.Axes = model.DefaultAxes
	}
	if o.LowConfidenceThreshold <= 0 {
		o.LowConfidenceThreshold = DefaultLowConfidenceThreshold
	}
	if o.OverrideLogCapacity <= 0 {
		o.OverrideLogCapacity = DefaultOverrideLogCapacity
	}
	if o.ClassifierTimeout <= 0 {
		o.ClassifierTimeout = DefaultClassifierTimeout
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// tolerance resolves the length tolerance for a model's unit system
func (o Options) tolerance(m *model.StructuralModel) float64 {
	if o.Tolerance > 0 {
		return o.Tolerance
	}
	if m.IsMetric() {
		return DefaultToleranceMetric
	}
	return DefaultToleranceImperial
}
