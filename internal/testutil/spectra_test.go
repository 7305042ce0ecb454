package testutil

import (
	"math"
	"testing"
)

func TestAxis(t *testing.T) {
	x := Axis(10, 0.5, 4)
	RequireSliceNearlyEqual(t, x, []float64{10, 10.5, 11, 11.5}, 0)
}

func TestGaussianPeak(t *testing.T) {
	x := Axis(0, 1, 101)
	y := GaussianPeak(x, 100, 50, 5)
	if y[50] != 100 {
		t.Fatalf("y[50] = %v, want 100", y[50])
	}
	if math.Abs(y[55]-100*math.Exp(-0.5)) > 1e-12 {
		t.Fatalf("y[55] = %v, want %v", y[55], 100*math.Exp(-0.5))
	}
	if y[45] != y[55] {
		t.Fatalf("peak not symmetric: %v vs %v", y[45], y[55])
	}
}

func TestAddPeakAccumulates(t *testing.T) {
	x := Axis(0, 1, 11)
	y := DC(2, 11)
	AddPeak(y, x, 3, 5, 1)
	if y[5] != 5 {
		t.Fatalf("y[5] = %v, want 5", y[5])
	}
	if y[0] < 2 {
		t.Fatalf("baseline lost: %v", y[0])
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1, 100)
	b := DeterministicNoise(42, 1, 100)
	RequireSliceNearlyEqual(t, a, b, 0)
	for i, v := range a {
		if v < -1 || v >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, v)
		}
	}
}

func TestPoissonCounts(t *testing.T) {
	expected := DC(10, 5000)
	got := PoissonCounts(3, expected)
	sum := 0.0
	for i, v := range got {
		if v < 0 || v != math.Trunc(v) {
			t.Fatalf("got[%d] = %v, want non-negative integer", i, v)
		}
		sum += v
	}
	mean := sum / float64(len(got))
	if math.Abs(mean-10) > 0.3 {
		t.Fatalf("mean = %v, want about 10", mean)
	}

	high := PoissonCounts(3, DC(1000, 10))
	RequireFinite(t, high)
	if zero := PoissonCounts(3, []float64{0, -1}); zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("non-positive expectation produced %v", zero)
	}
}
