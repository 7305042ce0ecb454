// Package roi builds the regions of interest searched for photopeaks.
//
// A region is an inclusive x-axis interval, applied to a spectrum as a
// boolean mask. Masks come from an isotope's nominal window, from a range a
// person picked, or from a guard threshold above an already claimed peak.
package roi

import (
	"math"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
)

// DefaultExpansion is the fraction of the nominal window width added on
// each side by Expand.
const DefaultExpansion = 0.25

// Range is an inclusive interval [Lo, Hi] on the x-axis.
type Range struct {
	Lo, Hi float64
}

// NewRange orders a and b into a Range.
func NewRange(a, b float64) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}
}

// Valid reports whether the range is finite with Lo < Hi.
func (r Range) Valid() bool {
	return !math.IsNaN(r.Lo) && !math.IsNaN(r.Hi) &&
		!math.IsInf(r.Lo, 0) && !math.IsInf(r.Hi, 0) && r.Lo < r.Hi
}

// Width returns Hi - Lo.
func (r Range) Width() float64 {
	return r.Hi - r.Lo
}

// Grow widens both ends by fraction of the width. Growth is proportional so
// it scales with the axis units.
func (r Range) Grow(fraction float64) Range {
	d := r.Width() * fraction
	return Range{Lo: r.Lo - d, Hi: r.Hi + d}
}

// Mask selects points of an x-axis.
type Mask []bool

// FromRange selects every x in r. NaN never matches.
func FromRange(x []float64, r Range) Mask {
	m := make(Mask, len(x))
	for i, v := range x {
		m[i] = v >= r.Lo && v <= r.Hi
	}
	return m
}

// Initial returns the nominal search mask of iso. An isotope without a
// nominal window selects nothing.
func Initial(iso isotope.Isotope, x []float64, calibrated bool) Mask {
	b, ok := iso.ROI(calibrated)
	if !ok {
		return make(Mask, len(x))
	}
	return FromRange(x, Range{Lo: b.Lo, Hi: b.Hi})
}

// Beyond selects every x >= threshold.
func Beyond(x []float64, threshold float64) Mask {
	m := make(Mask, len(x))
	for i, v := range x {
		m[i] = v >= threshold
	}
	return m
}

// Count returns the number of selected points.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Any reports whether at least one point is selected.
func (m Mask) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// And returns the intersection of m and o. The shorter length wins.
func (m Mask) And(o Mask) Mask {
	out := make(Mask, min(len(m), len(o)))
	for i := range out {
		out[i] = m[i] && o[i]
	}
	return out
}

// Bounds returns the smallest range covering the selected x values.
func (m Mask) Bounds(x []float64) (Range, bool) {
	r := Range{Lo: math.Inf(1), Hi: math.Inf(-1)}
	found := false
	for i, sel := range m {
		if !sel || i >= len(x) || math.IsNaN(x[i]) {
			continue
		}
		r.Lo = math.Min(r.Lo, x[i])
		r.Hi = math.Max(r.Hi, x[i])
		found = true
	}
	return r, found
}

// Expand grows the region covered by m by fraction of its width on both
// sides and returns the widened mask with its range. ok is false when m
// selects nothing.
func Expand(x []float64, m Mask, fraction float64) (Mask, Range, bool) {
	b, ok := m.Bounds(x)
	if !ok {
		return make(Mask, len(x)), Range{}, false
	}
	r := b.Grow(fraction)
	return FromRange(x, r), r, true
}

// Apply returns the x and y values selected by m.
func Apply(m Mask, x, y []float64) (xs, ys []float64) {
	n := m.Count()
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i, sel := range m {
		if sel && i < len(x) && i < len(y) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}
