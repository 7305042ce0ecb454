package testutil

import (
	"math"
	"math/rand"
)

// Axis returns n evenly spaced values starting at start.
func Axis(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// GaussianPeak samples amplitude*exp(-(x-center)^2 / 2 sigma^2) at every x.
func GaussianPeak(x []float64, amplitude, center, sigma float64) []float64 {
	out := make([]float64, len(x))
	AddPeak(out, x, amplitude, center, sigma)
	return out
}

// AddPeak adds a Gaussian peak onto counts in place.
func AddPeak(counts, x []float64, amplitude, center, sigma float64) {
	denom := 2 * sigma * sigma
	for i, v := range x {
		d := v - center
		counts[i] += amplitude * math.Exp(-d*d/denom)
	}
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude) with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PoissonCounts draws one Poisson sample per expected value with a fixed
// seed, using a normal approximation above 30 counts.
func PoissonCounts(seed int64, expected []float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(expected))
	for i, lambda := range expected {
		switch {
		case lambda <= 0:
			out[i] = 0
		case lambda > 30:
			out[i] = math.Max(0, math.Round(lambda+math.Sqrt(lambda)*rng.NormFloat64()))
		default:
			limit := math.Exp(-lambda)
			k, p := 0.0, rng.Float64()
			for p > limit {
				k++
				p *= rng.Float64()
			}
			out[i] = k
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
