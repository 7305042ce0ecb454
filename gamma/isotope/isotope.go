// Package isotope holds the reference data for the calibration sources the
// detector knows about: characteristic gamma energies, nominal search windows
// in raw and calibrated units, and the reference lines drawn for display.
package isotope

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSelected is returned by Parse for an empty or placeholder selection.
var ErrNotSelected = errors.New("isotope: no isotope selected")

// Kind tags an Isotope.
type Kind int

const (
	KindCustom Kind = iota
	KindAm241
	KindCs137
	KindCo60
)

// Bounds is an inclusive interval on the x-axis.
type Bounds struct {
	Lo, Hi float64
}

// Contains reports whether v lies in [Lo, Hi].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lo && v <= b.Hi
}

// Isotope is a calibration source. Isotopes of the built-in kinds carry
// their nominal search windows; a custom isotope has none.
type Isotope struct {
	Kind Kind
	Name string
	// Energy is the primary gamma line in keV, 0 when unknown.
	Energy float64

	raw, calibrated Bounds
	hasROI          bool
}

var (
	Am241 = Isotope{
		Kind:       KindAm241,
		Name:       "241Am",
		Energy:     59.54,
		raw:        Bounds{70, 800},
		calibrated: Bounds{20, 70},
		hasROI:     true,
	}
	Cs137 = Isotope{
		Kind:       KindCs137,
		Name:       "137Cs",
		Energy:     661.66,
		raw:        Bounds{1000, 2500},
		calibrated: Bounds{400, 1000},
		hasROI:     true,
	}
	Co60 = Isotope{
		Kind:       KindCo60,
		Name:       "60Co",
		Energy:     1173.23,
		raw:        Bounds{5000, 8000},
		calibrated: Bounds{1100, 1700},
		hasROI:     true,
	}
)

// Co60Secondary is the second 60Co line. It is drawn for reference only and
// never feeds calibration or the peak list.
const Co60Secondary = 1332.5

var builtin = []Isotope{Am241, Cs137, Co60}

var displayLines = map[Kind][]float64{
	KindAm241: {59.7},
	KindCs137: {661.9},
	KindCo60:  {1172.3, Co60Secondary},
}

// placeholder is the label a selector shows before a choice is made.
const placeholder = "selectisotope"

// All returns the built-in isotopes in ascending energy order.
func All() []Isotope {
	return append([]Isotope(nil), builtin...)
}

// Custom returns an isotope without nominal search windows.
func Custom(name string, energy float64) Isotope {
	return Isotope{Kind: KindCustom, Name: name, Energy: energy}
}

// Lookup finds a built-in isotope by name. Case, dashes, spaces and the
// order of mass number and symbol are ignored, so "60Co", "co-60" and
// "Co60" are the same isotope.
func Lookup(name string) (Isotope, bool) {
	key := normalize(name)
	for _, iso := range builtin {
		if key == normalize(iso.Name) || key == swapped(iso.Name) {
			return iso, true
		}
	}
	return Isotope{}, false
}

// Parse resolves a selector value. Unknown names become custom isotopes.
func Parse(name string) (Isotope, error) {
	key := normalize(name)
	if key == "" || key == placeholder {
		return Isotope{}, ErrNotSelected
	}
	if iso, ok := Lookup(name); ok {
		return iso, nil
	}
	return Custom(strings.TrimSpace(name), 0), nil
}

// ParseList parses a comma-separated list of isotope names.
func ParseList(list string) ([]Isotope, error) {
	var out []Isotope
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		iso, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, iso)
	}
	if len(out) == 0 {
		return nil, ErrNotSelected
	}
	return out, nil
}

// ROI returns the nominal search window in calibrated (keV) or raw (ADC)
// units. ok is false for isotopes without a window.
func (i Isotope) ROI(calibrated bool) (b Bounds, ok bool) {
	if !i.hasROI {
		return Bounds{}, false
	}
	if calibrated {
		return i.calibrated, true
	}
	return i.raw, true
}

// Expands reports whether the nominal window is widened before searching.
func (i Isotope) Expands() bool {
	return i.Kind == KindCo60
}

// DisplayLines returns the reference energies drawn on calibrated plots.
func (i Isotope) DisplayLines() []float64 {
	return append([]float64(nil), displayLines[i.Kind]...)
}

func (i Isotope) String() string {
	if i.Name == "" {
		return fmt.Sprintf("isotope(%d)", i.Kind)
	}
	return i.Name
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", " ", "", "_", "", ":", "").Replace(s)
	return s
}

// swapped turns "60Co" into "co60".
func swapped(name string) string {
	s := normalize(name)
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return s
	}
	return s[i:] + s[:i]
}
