// Package peak locates the photopeak inside a region of interest.
//
// The counts selected by the region are smoothed with a Gaussian to
// suppress counting noise, local maxima are measured by prominence, and the
// most prominent maximum that clears the threshold is reported. Prominence
// rather than height decides because the continuum under the peak is not
// flat across the window.
package peak

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-gamma/dsp/peaks"
	"github.com/cwbudde/algo-gamma/dsp/smooth"
	"github.com/cwbudde/algo-gamma/gamma/roi"
)

// Defaults for Locator.
const (
	DefaultSigma         = 5.0
	DefaultMinProminence = 1.5
)

// Errors reported by Locate.
var (
	ErrEmptyROI    = errors.New("peak: region of interest selects no points")
	ErrNoPeakFound = errors.New("peak: no peak above the prominence threshold")
)

// Locator finds photopeaks. The zero value uses DefaultSigma and
// DefaultMinProminence.
type Locator struct {
	// Sigma is the smoothing width in samples.
	Sigma float64
	// MinProminence is the smallest prominence, in counts, that counts as a peak.
	MinProminence float64
}

// Result describes a located peak.
type Result struct {
	// Position is the x-axis value at the peak.
	Position float64
	// Index is the peak's index into the full x-axis.
	Index      int
	Prominence float64
	// Smoothed height at the peak.
	Height float64
}

func (l Locator) sigma() float64 {
	if l.Sigma > 0 {
		return l.Sigma
	}
	return DefaultSigma
}

func (l Locator) minProminence() float64 {
	if l.MinProminence > 0 {
		return l.MinProminence
	}
	return DefaultMinProminence
}

// Detect reports the position of the most prominent peak of y inside mask.
func (l Locator) Detect(x, y []float64, mask roi.Mask) (position float64, found bool) {
	res, err := l.Locate(x, y, mask)
	if err != nil {
		return 0, false
	}
	return res.Position, true
}

// Locate is Detect with the failure reason and peak details. The error is
// ErrEmptyROI or ErrNoPeakFound.
func (l Locator) Locate(x, y []float64, mask roi.Mask) (Result, error) {
	index := selected(mask, x, y)
	if len(index) == 0 {
		return Result{}, ErrEmptyROI
	}

	counts := make([]float64, len(index))
	for i, j := range index {
		counts[i] = y[j]
	}

	smoothed, err := smooth.Gaussian(counts, l.sigma())
	if err != nil {
		return Result{}, fmt.Errorf("peak: smoothing: %w", err)
	}

	best, ok := peaks.MostProminent(peaks.Find(smoothed, peaks.WithMinProminence(l.minProminence())))
	if !ok {
		return Result{}, ErrNoPeakFound
	}

	full := index[best.Index]
	return Result{
		Position:   x[full],
		Index:      full,
		Prominence: best.Prominence,
		Height:     best.Height,
	}, nil
}

// selected returns the indices chosen by mask that exist in both x and y.
func selected(mask roi.Mask, x, y []float64) []int {
	n := min(len(mask), len(x), len(y))
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if mask[i] {
			out = append(out, i)
		}
	}
	return out
}

// Window returns the points of x strictly within half of center, the
// neighbourhood shown when a detected peak is tuned by hand.
func Window(x, y []float64, center, half float64) (xs, ys []float64) {
	m := make(roi.Mask, len(x))
	for i, v := range x {
		m[i] = v > center-half && v < center+half
	}
	return roi.Apply(m, x, y)
}
