// Package calib converts a raw ADC axis to energy from one detected peak
// and the known energy of its line. The response is taken as linear
// through the origin.
package calib

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-gamma/gamma/spectrum"
)

var (
	ErrZeroEnergy    = errors.New("calib: peak position and energy must be finite and non-zero")
	ErrCountMismatch = errors.New("calib: detected peak count does not match known energy count")
	ErrNoPeaks       = errors.New("calib: no detected peaks")
)

// Scale returns the bins per keV implied by a peak detected at position
// for a line of the given energy.
func Scale(position, energy float64) (float64, error) {
	if !usable(position) || !usable(energy) {
		return 0, fmt.Errorf("%w: peak %v, energy %v", ErrZeroEnergy, position, energy)
	}
	return position / energy, nil
}

func usable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Calibrate returns a copy of s whose x-axis is divided by Scale, which
// moves the detected peak onto energy. s is not modified.
func Calibrate(s *spectrum.Spectrum, position, energy float64) (*spectrum.Spectrum, error) {
	scale, err := Scale(position, energy)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("calib: %w", err)
	}
	out := s.Clone()
	floats.Scale(1/scale, out.X)
	return out, nil
}

// Point pairs a detected peak with the energy it is calibrated to.
type Point struct {
	Position float64
	Energy   float64
}

// Pair matches detected peak positions with known energies in order.
func Pair(positions, energies []float64) ([]Point, error) {
	if len(positions) == 0 {
		return nil, ErrNoPeaks
	}
	if len(positions) != len(energies) {
		return nil, fmt.Errorf("%w: %d peaks, %d energies", ErrCountMismatch, len(positions), len(energies))
	}
	out := make([]Point, len(positions))
	for i := range positions {
		out[i] = Point{Position: positions[i], Energy: energies[i]}
	}
	return out, nil
}

// Filename names the calibrated copy of a file with the given base name.
func Filename(base string, energy float64) string {
	return fmt.Sprintf("%s_calibrated_%.2fkeV.csv", base, energy)
}
