// Package peaks finds local maxima in sampled signals and measures their
// topographic prominence.
//
// A local maximum is a sample (or the middle of a flat run of samples) that
// is strictly higher than both neighbours. The first and last samples are
// never peaks. Prominence is the height of a peak above the higher of the
// two lowest points reached when walking outwards until terrain higher than
// the peak, or the signal edge, is met.
package peaks

import "math"

// Peak is a local maximum and its prominence.
type Peak struct {
	Index      int
	Height     float64
	Prominence float64
	LeftBase   int
	RightBase  int
}

// Option configures Find.
type Option func(*config)

type config struct {
	minProminence float64
	minHeight     float64
}

// WithMinProminence keeps only peaks with prominence >= p.
func WithMinProminence(p float64) Option {
	return func(cfg *config) {
		cfg.minProminence = p
	}
}

// WithMinHeight keeps only peaks with height >= h.
func WithMinHeight(h float64) Option {
	return func(cfg *config) {
		cfg.minHeight = h
	}
}

// Find returns the local maxima of x in ascending index order, filtered by
// the given options.
func Find(x []float64, opts ...Option) []Peak {
	cfg := config{minProminence: math.Inf(-1), minHeight: math.Inf(-1)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	idx := LocalMaxima(x)
	out := make([]Peak, 0, len(idx))
	for _, p := range idx {
		if x[p] < cfg.minHeight {
			continue
		}
		pk := prominence(x, p)
		if pk.Prominence < cfg.minProminence {
			continue
		}
		out = append(out, pk)
	}
	return out
}

// LocalMaxima returns the indices of all local maxima of x. For a flat
// top the middle sample is reported, rounding down.
func LocalMaxima(x []float64) []int {
	var out []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				left, right := i, ahead-1
				out = append(out, (left+right)/2)
				i = ahead
				continue
			}
		}
		i++
	}
	return out
}

// Prominences measures every peak index in x.
func Prominences(x []float64, idx []int) []Peak {
	out := make([]Peak, len(idx))
	for i, p := range idx {
		out[i] = prominence(x, p)
	}
	return out
}

func prominence(x []float64, p int) Peak {
	peak := x[p]

	leftMin, leftBase := peak, p
	for i := p; i >= 0 && x[i] <= peak; i-- {
		if x[i] < leftMin {
			leftMin, leftBase = x[i], i
		}
	}

	rightMin, rightBase := peak, p
	for i := p; i < len(x) && x[i] <= peak; i++ {
		if x[i] < rightMin {
			rightMin, rightBase = x[i], i
		}
	}

	return Peak{
		Index:      p,
		Height:     peak,
		Prominence: peak - math.Max(leftMin, rightMin),
		LeftBase:   leftBase,
		RightBase:  rightBase,
	}
}

// MostProminent returns the peak with the greatest prominence. Ties keep
// the earliest peak. ok is false for an empty slice.
func MostProminent(found []Peak) (best Peak, ok bool) {
	for i, p := range found {
		if i == 0 || p.Prominence > best.Prominence {
			best = p
		}
	}
	return best, len(found) > 0
}
