package smooth

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// minBlockSize is the smallest overlap-add input block.
const minBlockSize = 256

// fftValid convolves padded with kernel by overlap-add and keeps the n
// outputs aligned with the original signal.
func fftValid(padded, kernel []float64, n int) ([]float64, error) {
	full, err := overlapAdd(padded, kernel)
	if err != nil {
		return nil, err
	}
	offset := len(kernel) - 1
	out := make([]float64, n)
	copy(out, full[offset:offset+n])
	return out, nil
}

// overlapAdd returns the full linear convolution of input and kernel.
func overlapAdd(input, kernel []float64) ([]float64, error) {
	kernelLen := len(kernel)
	blockSize := nextPowerOf2(kernelLen)
	if blockSize < minBlockSize {
		blockSize = minBlockSize
	}
	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	kernelFFT := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelFFT[i] = complex(v, 0)
	}
	if err := plan.Forward(kernelFFT, kernelFFT); err != nil {
		return nil, fmt.Errorf("smooth: failed to compute kernel FFT: %w", err)
	}

	outputLen := len(input) + kernelLen - 1
	output := make([]float64, outputLen)
	block := make([]complex128, fftSize)

	for start := 0; start < len(input); start += blockSize {
		end := min(start+blockSize, len(input))

		for i := range block {
			block[i] = 0
		}
		for i := start; i < end; i++ {
			block[i-start] = complex(input[i], 0)
		}

		if err := plan.Forward(block, block); err != nil {
			return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
		}
		for i := range block {
			block[i] *= kernelFFT[i]
		}
		if err := plan.Inverse(block, block); err != nil {
			return nil, fmt.Errorf("smooth: inverse FFT failed: %w", err)
		}

		resultLen := end - start + kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += real(block[i])
		}
	}

	return output, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
