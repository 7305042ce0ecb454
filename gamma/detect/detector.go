package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/roi"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
)

// DefaultGuard is how far beyond a channel's previous peak the next isotope
// of a multi-isotope run is searched.
const DefaultGuard = 1000.0

// Detector runs photopeak detection over every channel of a spectrum.
type Detector struct {
	locator   peak.Locator
	expansion float64
	guard     float64
	picker    RangePicker
	sink      Sink
	store     *Store
	load      func(path string) (*spectrum.Spectrum, error)
	logger    *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLocator sets the smoothing and prominence parameters.
func WithLocator(l peak.Locator) Option {
	return func(d *Detector) { d.locator = l }
}

// WithExpansion sets the window growth used for expanding isotopes.
func WithExpansion(fraction float64) Option {
	return func(d *Detector) {
		if fraction > 0 {
			d.expansion = fraction
		}
	}
}

// WithGuard sets the offset past the previous peak in multi-isotope runs.
func WithGuard(offset float64) Option {
	return func(d *Detector) {
		if offset >= 0 {
			d.guard = offset
		}
	}
}

// WithPicker sets who is asked for a range when detection fails. Without a
// picker such channels are cancelled right away.
func WithPicker(p RangePicker) Option {
	return func(d *Detector) { d.picker = p }
}

// WithSink sets where display records go.
func WithSink(s Sink) Option {
	return func(d *Detector) { d.sink = s }
}

// WithStore shares a Store between detectors.
func WithStore(s *Store) Option {
	return func(d *Detector) {
		if s != nil {
			d.store = s
		}
	}
}

// WithLoader replaces spectrum.Load.
func WithLoader(load func(path string) (*spectrum.Spectrum, error)) Option {
	return func(d *Detector) {
		if load != nil {
			d.load = load
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns a Detector with default parameters.
func New(opts ...Option) *Detector {
	d := &Detector{
		expansion: roi.DefaultExpansion,
		guard:     DefaultGuard,
		store:     NewStore(),
		load:      spectrum.Load,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the detector's per-file collections.
func (d *Detector) Store() *Store { return d.store }

// Failure is a channel that ended without a peak.
type Failure struct {
	Channel string
	Isotope isotope.Isotope
	Err     error
	// Cause is the detection failure that preceded a cancellation.
	Cause error
}

func (f Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s/%s: %v (%v)", f.Channel, f.Isotope, f.Err, f.Cause)
	}
	return fmt.Sprintf("%s/%s: %v", f.Channel, f.Isotope, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarises a detection run.
type Report struct {
	RunID      string
	File       string
	Isotopes   []isotope.Isotope
	Calibrated bool
	Channels   int
	Peaks      []DetectedPeak
	Failures   []Failure
}

// Summary is the completion message shown after a run.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Peak detection complete: %d peak(s) in %d channel(s)", len(r.Peaks), r.Channels)
	if n := len(r.Failures); n > 0 {
		fmt.Fprintf(&b, ", %d without a peak", n)
	}
	return b.String()
}

// Run detects the session's isotope in every channel of the session's file.
// A user range that found a peak is tried first on the following channels.
func (d *Detector) Run(sess Session) (Report, error) {
	if sess.Isotope.Name == "" {
		return Report{}, ErrNoIsotopeSelected
	}
	return d.RunMulti(sess, []isotope.Isotope{sess.Isotope})
}

// RunMulti detects each isotope in turn. Once a channel has a peak, later
// isotopes are searched only at x >= previous peak + guard. A reused user
// range never crosses from one isotope to the next.
func (d *Detector) RunMulti(sess Session, isotopes []isotope.Isotope) (Report, error) {
	if sess.File == "" {
		return Report{}, ErrNoFileSelected
	}
	if len(isotopes) == 0 {
		return Report{}, ErrNoIsotopeSelected
	}
	for _, iso := range isotopes {
		if iso.Name == "" {
			return Report{}, ErrNoIsotopeSelected
		}
	}

	path := sess.Path()
	s, err := d.load(path)
	if err != nil {
		return Report{}, fmt.Errorf("detect: load %s: %w", path, err)
	}
	return d.RunSpectrum(path, s, isotopes, sess.Calibrated)
}

// RunSpectrum is RunMulti on an already loaded spectrum. key names the
// collection the peaks are stored under.
func (d *Detector) RunSpectrum(key string, s *spectrum.Spectrum, isotopes []isotope.Isotope, calibrated bool) (Report, error) {
	if len(isotopes) == 0 {
		return Report{}, ErrNoIsotopeSelected
	}
	if err := s.Validate(); err != nil {
		return Report{}, fmt.Errorf("detect: %w", err)
	}

	rep := Report{
		RunID:      uuid.NewString(),
		File:       key,
		Isotopes:   append([]isotope.Isotope(nil), isotopes...),
		Calibrated: calibrated,
		Channels:   len(s.Channels),
	}
	log := d.logger.With(zap.String("run_id", rep.RunID), zap.String("file", key))
	log.Info("detection started",
		zap.Int("channels", len(s.Channels)),
		zap.Stringers("isotopes", isotopes),
		zap.Bool("calibrated", calibrated))

	coll := d.store.For(key)
	coll.Clear()

	for _, iso := range isotopes {
		var reuse *roi.Range
		for _, ch := range s.Channels {
			cfg := SearchConfig{
				Channel:    ch.Name,
				Isotope:    iso,
				Calibrated: calibrated,
				Locator:    d.locator,
				Expansion:  d.expansion,
				Reuse:      reuse,
			}
			if prev, ok := coll.Last(ch.Name); ok {
				cfg.Guarded = true
				cfg.GuardFrom = prev.Position + d.guard
			}

			search := NewSearch(s.X, ch.Counts, cfg)
			out := Resolve(search, d.picker)
			clog := log.With(zap.String("channel", ch.Name), zap.Stringer("isotope", iso))

			switch out.State {
			case StatePeakFound:
				if out.UsedRange {
					r := out.Range
					reuse = &r
				}
				p := DetectedPeak{Channel: ch.Name, Position: out.Position, Isotope: iso}
				coll.Add(p)
				rep.Peaks = append(rep.Peaks, p)
				if d.sink != nil {
					d.sink.AddRecord(Record(p))
				}
				clog.Debug("peak found",
					zap.Float64("position", out.Position),
					zap.Bool("user_range", out.UsedRange),
					zap.Int("attempts", out.Attempts))
			default:
				reuse = nil
				f := Failure{Channel: ch.Name, Isotope: iso, Err: out.Err, Cause: out.Cause}
				rep.Failures = append(rep.Failures, f)
				clog.Warn("no peak", zap.Error(out.Err), zap.NamedError("cause", out.Cause))
			}
		}
	}

	log.Info("detection finished", zap.Int("peaks", len(rep.Peaks)), zap.Int("failures", len(rep.Failures)))
	return rep, nil
}

// Failed reports whether any failure of r matches target.
func (r Report) Failed(target error) bool {
	for _, f := range r.Failures {
		if errors.Is(f.Err, target) || (f.Cause != nil && errors.Is(f.Cause, target)) {
			return true
		}
	}
	return false
}
