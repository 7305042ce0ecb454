package detect

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/roi"
	"github.com/cwbudde/algo-gamma/internal/testutil"
)

// rawAxis spans a 0-10000 ADC axis in unit steps.
func rawAxis() []float64 { return testutil.Axis(0, 1, 10001) }

func TestSearchDirectHit(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 1800, 20)

	s := NewSearch(x, y, SearchConfig{Channel: "Channel_0", Isotope: isotope.Cs137})
	out := s.Start()
	if out.State != StatePeakFound || out.UsedRange || out.NeedsUserRange {
		t.Fatalf("outcome = %+v", out)
	}
	testutil.RequireNear(t, "position", out.Position, 1800, 1)

	want := []State{StateInit, StateMaskComputed, StatePeakFound}
	if got := s.Trace(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	if again := s.Start(); again.Position != out.Position {
		t.Fatalf("second Start = %+v", again)
	}
}

func TestSearchExpanderFindsBoundaryPeak(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 8000, 50)

	if _, found := (peak.Locator{}).Detect(x, y, roi.Initial(isotope.Co60, x, false)); found {
		t.Fatal("plain search found the boundary peak; the case no longer exercises expansion")
	}

	s := NewSearch(x, y, SearchConfig{Channel: "Channel_0", Isotope: isotope.Co60})
	out := s.Start()
	if out.State != StatePeakFound {
		t.Fatalf("outcome = %+v, trace %v", out, s.Trace())
	}
	testutil.RequireNear(t, "position", out.Position, 8000, 2)

	want := []State{StateInit, StateMaskComputed, StateExpandAttempted, StatePeakFound}
	if got := s.Trace(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
}

func TestSearchAwaitsUserRange(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 3000, 20)

	s := NewSearch(x, y, SearchConfig{Channel: "Channel_0", Isotope: isotope.Cs137})
	out := s.Start()
	if !out.NeedsUserRange || out.State != StateAwaitUserRange || !errors.Is(out.Err, ErrNoPeakFound) {
		t.Fatalf("outcome = %+v", out)
	}

	out = s.Resume([]float64{2900})
	if !errors.Is(out.Err, ErrIncompleteUserRange) || s.State() != StateAwaitUserRange {
		t.Fatalf("single pick: outcome = %+v, state %v", out, s.State())
	}

	out = s.Resume([]float64{100, 200})
	if !out.NeedsUserRange || !errors.Is(out.Err, ErrNoPeakFound) || out.Attempts != 1 {
		t.Fatalf("empty range: outcome = %+v", out)
	}

	out = s.Resume([]float64{3500, 2500, 9999})
	if out.State != StatePeakFound || !out.UsedRange {
		t.Fatalf("outcome = %+v", out)
	}
	testutil.RequireNear(t, "position", out.Position, 3000, 1)
	if out.Range != (roi.Range{Lo: 2500, Hi: 3500}) {
		t.Fatalf("range = %+v, want sorted first two picks", out.Range)
	}
	if out.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", out.Attempts)
	}

	if got := s.Resume([]float64{0, 1}); !errors.Is(got.Err, ErrNotAwaitingRange) {
		t.Fatalf("Resume after success: %+v", got)
	}
}

func TestSearchReusesRange(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 3000, 20)
	r := roi.Range{Lo: 2500, Hi: 3500}

	s := NewSearch(x, y, SearchConfig{Isotope: isotope.Cs137, Reuse: &r})
	out := s.Start()
	if out.State != StatePeakFound || !out.UsedRange || out.Range != r {
		t.Fatalf("outcome = %+v", out)
	}

	miss := roi.Range{Lo: 100, Hi: 200}
	s = NewSearch(x, y, SearchConfig{Isotope: isotope.Cs137, Reuse: &miss})
	if out := s.Start(); !out.NeedsUserRange {
		t.Fatalf("failed reuse did not ask for a range: %+v", out)
	}
}

func TestSearchCancel(t *testing.T) {
	x := rawAxis()
	s := NewSearch(x, make([]float64, len(x)), SearchConfig{Isotope: isotope.Custom("22Na", 511)})

	out := s.Start()
	if !errors.Is(out.Err, ErrEmptyROI) {
		t.Fatalf("custom isotope err = %v, want ErrEmptyROI", out.Err)
	}
	out = s.Cancel()
	if out.State != StateCancelled || !errors.Is(out.Err, ErrUserCancelled) || !errors.Is(out.Cause, ErrEmptyROI) {
		t.Fatalf("outcome = %+v", out)
	}
	if !s.State().Terminal() {
		t.Fatal("cancelled state not terminal")
	}
}

func TestSearchGuardReplacesNominalMask(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 500, 20)
	testutil.AddPeak(y, x, 100, 2000, 20)

	// 241Am's nominal window holds 500, the guard leaves only 2000.
	s := NewSearch(x, y, SearchConfig{Isotope: isotope.Am241, Guarded: true, GuardFrom: 1500})
	out := s.Start()
	if out.State != StatePeakFound {
		t.Fatalf("outcome = %+v", out)
	}
	testutil.RequireNear(t, "position", out.Position, 2000, 1)
}

func TestResolve(t *testing.T) {
	x := rawAxis()
	y := testutil.GaussianPeak(x, 100, 3000, 20)

	picker := &ScriptedPicker{Picks: [][]float64{{2800}, {2500, 3500}}}
	out := Resolve(NewSearch(x, y, SearchConfig{Channel: "Channel_4", Isotope: isotope.Cs137}), picker)
	if out.State != StatePeakFound {
		t.Fatalf("outcome = %+v", out)
	}
	if len(picker.Requests) != 2 {
		t.Fatalf("picker asked %d times, want 2", len(picker.Requests))
	}
	req := picker.Requests[1]
	if req.Channel != "Channel_4" || req.Attempt != 1 || !errors.Is(req.Reason, ErrIncompleteUserRange) {
		t.Fatalf("second request = %+v", req)
	}
}

func TestResolvePickerError(t *testing.T) {
	x := rawAxis()
	y := make([]float64, len(x))
	boom := errors.New("display closed")

	out := Resolve(NewSearch(x, y, SearchConfig{Isotope: isotope.Cs137}),
		RangePickerFunc(func(RangeRequest) ([]float64, error) { return nil, boom }))
	if out.State != StateCancelled || !errors.Is(out.Err, ErrUserCancelled) || !errors.Is(out.Cause, boom) {
		t.Fatalf("outcome = %+v", out)
	}

	out = Resolve(NewSearch(x, y, SearchConfig{Isotope: isotope.Cs137}), nil)
	if out.State != StateCancelled || !errors.Is(out.Cause, ErrNoPeakFound) {
		t.Fatalf("nil picker outcome = %+v", out)
	}
}

func TestStateString(t *testing.T) {
	if StateAwaitUserRange.String() != "await-user-range" || State(42).String() != "state(42)" {
		t.Fatalf("unexpected names %q %q", StateAwaitUserRange, State(42))
	}
}
