// Package field provides field geometry utilities: distance conversion and
// the endzone test that classifies completions versus scores.
package field

import (
	"math"

	"github.com/okian/breakside/internal/domain/model"
)

// Default field geometry in field units (yards).
const (
	DefaultLength       = 110.0
	DefaultWidth        = 40.0
	DefaultEndzoneDepth = 20.0

	yardsToMeters = 0.9144
)

// Option applies a configuration option to a Field.
type Option func(*Field)

// WithLength sets the field length including both endzones.
func WithLength(length float64) Option {
	return func(f *Field) {
		if length > 0 {
			f.length = length
		}
	}
}

// WithWidth sets the field width.
func WithWidth(width float64) Option {
	return func(f *Field) {
		if width > 0 {
			f.width = width
		}
	}
}

// WithEndzoneDepth sets the depth of each endzone.
func WithEndzoneDepth(depth float64) Option {
	return func(f *Field) {
		if depth > 0 {
			f.endzoneDepth = depth
		}
	}
}

// Field holds immutable field geometry. The zero value is not usable;
// construct with New.
type Field struct {
	length       float64
	width        float64
	endzoneDepth float64
}

// New creates a Field with default geometry, adjusted by options.
func New(opts ...Option) Field {
	f := Field{
		length:       DefaultLength,
		width:        DefaultWidth,
		endzoneDepth: DefaultEndzoneDepth,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Length returns the field length.
func (f Field) Length() float64 { return f.length }

// Width returns the field width.
func (f Field) Width() float64 { return f.width }

// EndzoneDepth returns the endzone depth.
func (f Field) EndzoneDepth() float64 { return f.endzoneDepth }

// DistanceMeters returns the Euclidean distance between a and b converted
// to meters and rounded to one decimal. Symmetric and side-effect free.
func (f Field) DistanceMeters(a, b model.Coordinate) float64 {
	d := math.Hypot(b.X-a.X, b.Y-a.Y) * yardsToMeters
	return math.Round(d*10) / 10
}

// IsEndzone reports whether a catch at length-axis position y lands in
// either endzone.
func (f Field) IsEndzone(y float64) bool {
	return y <= f.endzoneDepth || y >= f.length-f.endzoneDepth
}

// Contains reports whether c lies on the field, endzones included.
func (f Field) Contains(c model.Coordinate) bool {
	return c.X >= 0 && c.X <= f.width && c.Y >= 0 && c.Y <= f.length
}
