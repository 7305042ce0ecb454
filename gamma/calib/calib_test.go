package calib

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/roi"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
	"github.com/cwbudde/algo-gamma/internal/testutil"
)

func rawSpectrum() *spectrum.Spectrum {
	x := testutil.Axis(0, 1, 2048)
	return &spectrum.Spectrum{
		Name: "cs137",
		X:    x,
		Channels: []spectrum.Channel{
			{Name: "Channel_0", Counts: testutil.GaussianPeak(x, 100, 500, 10)},
		},
	}
}

func TestCalibrateMovesPeakToEnergy(t *testing.T) {
	s := rawSpectrum()
	orig := append([]float64(nil), s.X...)

	cal, err := Calibrate(s, 500, isotope.Cs137.Energy)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, s.X, orig, 0)

	scale := 500 / 661.66
	for i, v := range cal.X {
		if math.Abs(v-orig[i]/scale) > 1e-9 {
			t.Fatalf("x[%d] = %v, want %v", i, v, orig[i]/scale)
		}
	}
	testutil.RequireNear(t, "x at detected bin", cal.X[500], 661.66, 1e-9)

	pos, found := peak.Locator{}.Detect(cal.X, cal.Channels[0].Counts, roi.Initial(isotope.Cs137, cal.X, true))
	if !found {
		t.Fatal("calibrated peak not found in the keV window")
	}
	testutil.RequireNear(t, "re-detected", pos, 661.66, 0.01)

	cal.Channels[0].Counts[0] = -1
	if s.Channels[0].Counts[0] == -1 {
		t.Fatal("calibrated spectrum shares counts with its input")
	}
}

func TestCalibrateRejectsUnusableInputs(t *testing.T) {
	s := rawSpectrum()
	for _, tc := range []struct {
		name          string
		position, kev float64
	}{
		{"zero energy", 500, 0},
		{"zero position", 0, 661.66},
		{"nan", math.NaN(), 661.66},
		{"inf", 500, math.Inf(1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Calibrate(s, tc.position, tc.kev); !errors.Is(err, ErrZeroEnergy) {
				t.Fatalf("err = %v, want ErrZeroEnergy", err)
			}
		})
	}

	if _, err := Calibrate(&spectrum.Spectrum{}, 500, 661.66); !errors.Is(err, spectrum.ErrEmpty) {
		t.Fatalf("empty spectrum err = %v", err)
	}
}

func TestPair(t *testing.T) {
	pts, err := Pair([]float64{500, 900}, []float64{661.66, 1173.23})
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if len(pts) != 2 || pts[1] != (Point{Position: 900, Energy: 1173.23}) {
		t.Fatalf("points = %+v", pts)
	}
	if _, err := Pair([]float64{500}, []float64{1, 2}); !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("err = %v, want ErrCountMismatch", err)
	}
	if _, err := Pair(nil, nil); !errors.Is(err, ErrNoPeaks) {
		t.Fatalf("err = %v, want ErrNoPeaks", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("run_07", 661.66); got != "run_07_calibrated_661.66keV.csv" {
		t.Fatalf("Filename = %q", got)
	}
	if got := Filename("x", 59.5); got != "x_calibrated_59.50keV.csv" {
		t.Fatalf("Filename = %q", got)
	}
}
