package detect

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/roi"
)

// State is a step of a channel search.
type State int

const (
	StateInit State = iota
	StateMaskComputed
	StateExpandAttempted
	StatePeakFound
	StateNoPeak
	StateAwaitUserRange
	StateCancelled
)

var stateNames = [...]string{
	StateInit:            "init",
	StateMaskComputed:    "mask-computed",
	StateExpandAttempted: "expand-attempted",
	StatePeakFound:       "peak-found",
	StateNoPeak:          "no-peak",
	StateAwaitUserRange:  "await-user-range",
	StateCancelled:       "cancelled",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StatePeakFound || s == StateCancelled
}

// SearchConfig describes one channel search.
type SearchConfig struct {
	Channel    string
	Isotope    isotope.Isotope
	Calibrated bool
	Locator    peak.Locator

	// Expansion is the fraction added to each side of the nominal window
	// for expanding isotopes. Zero means roi.DefaultExpansion.
	Expansion float64

	// Guarded restricts the automated search to x >= GuardFrom.
	Guarded   bool
	GuardFrom float64

	// Reuse is a range that found a peak in an earlier channel. It is tried
	// before asking for a new one.
	Reuse *roi.Range
}

// Outcome is the state of a search after a step.
type Outcome struct {
	State State
	// Position of the peak when State is StatePeakFound.
	Position float64
	// Range that produced the peak when UsedRange is set.
	Range     roi.Range
	UsedRange bool
	// NeedsUserRange is set while the search waits in StateAwaitUserRange.
	NeedsUserRange bool
	// Attempts counts the user ranges tried so far.
	Attempts int
	// Err is the reason for the latest failed step.
	Err error
	// Cause is the last detection failure behind a cancellation.
	Cause error
}

// Search finds the peak of one channel. Start runs the automated stage; if
// that fails the search parks in StateAwaitUserRange and the caller resumes
// it with Resume or ends it with Cancel.
type Search struct {
	cfg   SearchConfig
	x, y  []float64
	state State
	trace []State
	out   Outcome
}

// NewSearch prepares a search over x and y.
func NewSearch(x, y []float64, cfg SearchConfig) *Search {
	if cfg.Expansion <= 0 {
		cfg.Expansion = roi.DefaultExpansion
	}
	return &Search{cfg: cfg, x: x, y: y, state: StateInit, trace: []State{StateInit}}
}

// State returns the current state.
func (s *Search) State() State { return s.state }

// Trace returns every state visited, in order.
func (s *Search) Trace() []State {
	return append([]State(nil), s.trace...)
}

// Request describes the pending range request.
func (s *Search) Request() RangeRequest {
	return RangeRequest{
		Channel: s.cfg.Channel,
		Isotope: s.cfg.Isotope,
		X:       s.x,
		Y:       s.y,
		Attempt: s.out.Attempts + 1,
		Reason:  s.out.Err,
	}
}

// Start runs the automated search. Calling it again returns the current
// outcome.
func (s *Search) Start() Outcome {
	if s.state != StateInit {
		return s.out
	}

	s.to(StateMaskComputed)
	var (
		res peak.Result
		err error
	)
	if s.cfg.Isotope.Expands() {
		res, err = s.expanding()
	} else {
		res, err = s.cfg.Locator.Locate(s.x, s.y, s.automatedMask())
	}
	if err == nil {
		return s.found(res.Position, roi.Range{}, false)
	}
	s.fail(err)

	if r := s.cfg.Reuse; r != nil && r.Valid() {
		if out, ok := s.try(*r); ok {
			return out
		}
	}
	return s.await()
}

// expanding widens the nominal window before locating.
func (s *Search) expanding() (peak.Result, error) {
	nominal := roi.Initial(s.cfg.Isotope, s.x, s.cfg.Calibrated)
	mask, _, ok := roi.Expand(s.x, nominal, s.cfg.Expansion)
	s.to(StateExpandAttempted)
	if !ok {
		return peak.Result{}, ErrEmptyROI
	}
	if s.cfg.Guarded {
		mask = mask.And(roi.Beyond(s.x, s.cfg.GuardFrom))
	}
	return s.cfg.Locator.Locate(s.x, s.y, mask)
}

func (s *Search) automatedMask() roi.Mask {
	if s.cfg.Guarded {
		return roi.Beyond(s.x, s.cfg.GuardFrom)
	}
	return roi.Initial(s.cfg.Isotope, s.x, s.cfg.Calibrated)
}

// Resume applies the boundaries a person picked. Fewer than two picks keep
// the search waiting with ErrIncompleteUserRange. The first two picks form
// the range in either order.
func (s *Search) Resume(picks []float64) Outcome {
	if s.state != StateAwaitUserRange {
		out := s.out
		out.Err = ErrNotAwaitingRange
		return out
	}
	if len(picks) < 2 {
		s.out.Err = ErrIncompleteUserRange
		return s.out
	}

	s.out.Attempts++
	if out, ok := s.try(roi.NewRange(picks[0], picks[1])); ok {
		return out
	}
	return s.await()
}

// Cancel ends a waiting search.
func (s *Search) Cancel() Outcome {
	if s.state.Terminal() {
		return s.out
	}
	s.out.Cause = s.out.Err
	s.out.Err = ErrUserCancelled
	s.out.NeedsUserRange = false
	s.to(StateCancelled)
	s.out.State = StateCancelled
	return s.out
}

func (s *Search) try(r roi.Range) (Outcome, bool) {
	s.to(StateMaskComputed)
	res, err := s.cfg.Locator.Locate(s.x, s.y, roi.FromRange(s.x, r))
	if err != nil {
		s.fail(err)
		return s.out, false
	}
	return s.found(res.Position, r, true), true
}

func (s *Search) found(pos float64, r roi.Range, used bool) Outcome {
	s.to(StatePeakFound)
	s.out = Outcome{
		State:     StatePeakFound,
		Position:  pos,
		Range:     r,
		UsedRange: used,
		Attempts:  s.out.Attempts,
	}
	return s.out
}

func (s *Search) fail(err error) {
	s.to(StateNoPeak)
	s.out.State = StateNoPeak
	s.out.Err = err
}

func (s *Search) await() Outcome {
	s.to(StateAwaitUserRange)
	s.out.State = StateAwaitUserRange
	s.out.NeedsUserRange = true
	return s.out
}

func (s *Search) to(next State) {
	s.state = next
	s.trace = append(s.trace, next)
}

// Resolve drives s to a terminal state, asking picker for ranges while the
// search waits. A nil picker cancels at the first request. Any picker error
// cancels; errors other than ErrUserCancelled are kept on Outcome.Cause.
func Resolve(s *Search, picker RangePicker) Outcome {
	out := s.Start()
	for out.NeedsUserRange {
		if picker == nil {
			return s.Cancel()
		}
		picks, err := picker.PickRange(s.Request())
		if err != nil {
			out = s.Cancel()
			if !errors.Is(err, ErrUserCancelled) {
				out.Cause = fmt.Errorf("detect: range picker: %w", err)
			}
			return out
		}
		out = s.Resume(picks)
	}
	return out
}
