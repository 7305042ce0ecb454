package smooth

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by smoothing functions.
var (
	ErrEmptyInput   = errors.New("smooth: empty input")
	ErrInvalidSigma = errors.New("smooth: sigma must be finite and >= 0")
)

// DefaultTruncate is the kernel half-width in units of sigma.
const DefaultTruncate = 4.0

// directThreshold is the longest kernel applied in the sample domain.
const directThreshold = 64

// Boundary selects how the signal is extended past its ends.
type Boundary int

const (
	// BoundaryReflect mirrors about the outer sample edge (d c b a | a b c d | d c b a).
	BoundaryReflect Boundary = iota

	// BoundaryNearest repeats the edge sample (a a a a | a b c d | d d d d).
	BoundaryNearest

	// BoundaryConstant pads with zeros.
	BoundaryConstant
)

// Option configures Gaussian smoothing.
type Option func(*config)

type config struct {
	truncate float64
	boundary Boundary
}

// WithTruncate sets the kernel half-width in units of sigma.
func WithTruncate(truncate float64) Option {
	return func(cfg *config) {
		if truncate > 0 && !math.IsInf(truncate, 0) {
			cfg.truncate = truncate
		}
	}
}

// WithBoundary sets the boundary extension rule.
func WithBoundary(b Boundary) Option {
	return func(cfg *config) {
		cfg.boundary = b
	}
}

// Radius returns the kernel half-width in samples for sigma and truncate.
func Radius(sigma, truncate float64) int {
	return int(truncate*sigma + 0.5)
}

// Kernel returns the normalised Gaussian kernel of length 2*radius+1.
func Kernel(sigma float64, radius int) []float64 {
	if radius < 0 {
		radius = 0
	}
	k := make([]float64, 2*radius+1)
	if sigma == 0 || radius == 0 {
		k[radius] = 1
		return k
	}
	denom := 2 * sigma * sigma
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-x * x / denom)
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// Gaussian returns signal smoothed by a Gaussian of standard deviation sigma
// (in samples). The input is not modified.
func Gaussian(signal []float64, sigma float64, opts ...Option) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}

	cfg := config{truncate: DefaultTruncate, boundary: BoundaryReflect}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	radius := Radius(sigma, cfg.truncate)
	kernel := Kernel(sigma, radius)
	padded := extend(signal, radius, cfg.boundary)

	if len(kernel) <= directThreshold {
		return correlateValid(padded, kernel, len(signal)), nil
	}
	return fftValid(padded, kernel, len(signal))
}

// extend pads signal by radius samples on each side.
func extend(signal []float64, radius int, b Boundary) []float64 {
	n := len(signal)
	out := make([]float64, n+2*radius)
	for i := range out {
		idx := i - radius
		switch {
		case idx >= 0 && idx < n:
			out[i] = signal[idx]
		case b == BoundaryConstant:
			out[i] = 0
		case b == BoundaryNearest:
			if idx < 0 {
				out[i] = signal[0]
			} else {
				out[i] = signal[n-1]
			}
		default:
			out[i] = signal[reflectIndex(idx, n)]
		}
	}
	return out
}

// reflectIndex maps idx into [0, n) by half-sample symmetric reflection.
func reflectIndex(idx, n int) int {
	period := 2 * n
	m := idx % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - m - 1
	}
	return m
}

// correlateValid slides kernel over padded and keeps the n fully overlapping
// outputs. The kernel is symmetric, so correlation equals convolution.
func correlateValid(padded, kernel []float64, n int) []float64 {
	m := len(kernel)
	out := make([]float64, n)
	prod := make([]float64, m)
	for i := range out {
		vecmath.MulBlock(prod, padded[i:i+m], kernel)
		out[i] = floats.Sum(prod)
	}
	return out
}
