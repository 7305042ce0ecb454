// Package smooth provides Gaussian smoothing of sampled signals.
//
// The filter matches the behaviour of the common one-dimensional Gaussian
// filter found in numerical toolkits: the kernel is sampled at integer
// offsets, truncated at a multiple of sigma and normalised to unit sum, and
// the signal is extended past its ends according to a [Boundary] rule before
// the kernel is applied. The output always has the length of the input.
//
// # Usage
//
//	smoothed, err := smooth.Gaussian(counts, 5)
//	smoothed, err := smooth.Gaussian(counts, 5, smooth.WithBoundary(smooth.BoundaryNearest))
//
// # Algorithm Selection
//
// Short kernels are applied directly in the sample domain. Kernels longer
// than 64 taps are applied with FFT-based overlap-add, which is cheaper for
// the wide kernels that large sigmas produce.
package smooth
