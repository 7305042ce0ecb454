package isotope

import (
	"errors"
	"testing"
)

func TestLookupAliases(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"241Am", KindAm241},
		{"am241", KindAm241},
		{"Am-241", KindAm241},
		{"137Cs", KindCs137},
		{"Cs 137", KindCs137},
		{"60Co", KindCo60},
		{"CO60", KindCo60},
		{"co-60", KindCo60},
	}
	for _, tt := range tests {
		iso, ok := Lookup(tt.name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", tt.name)
		}
		if iso.Kind != tt.want {
			t.Fatalf("Lookup(%q) = %v, want kind %d", tt.name, iso, tt.want)
		}
	}
	if _, ok := Lookup("22Na"); ok {
		t.Fatal("Lookup(22Na) found a built-in isotope")
	}
}

func TestParse(t *testing.T) {
	for _, sel := range []string{"", "  ", "Select Isotope:", "Select Isotope"} {
		if _, err := Parse(sel); !errors.Is(err, ErrNotSelected) {
			t.Fatalf("Parse(%q) err = %v, want ErrNotSelected", sel, err)
		}
	}

	iso, err := Parse("22Na")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iso.Kind != KindCustom || iso.Name != "22Na" {
		t.Fatalf("Parse(22Na) = %+v, want custom isotope", iso)
	}
	if _, ok := iso.ROI(true); ok {
		t.Fatal("custom isotope has a ROI")
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("241Am, 137Cs,,60Co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != Am241 || got[1] != Cs137 || got[2] != Co60 {
		t.Fatalf("ParseList = %v", got)
	}
	if _, err := ParseList(" , "); !errors.Is(err, ErrNotSelected) {
		t.Fatalf("empty list err = %v, want ErrNotSelected", err)
	}
}

func TestROITable(t *testing.T) {
	tests := []struct {
		iso        Isotope
		calibrated bool
		want       Bounds
	}{
		{Am241, true, Bounds{20, 70}},
		{Am241, false, Bounds{70, 800}},
		{Cs137, true, Bounds{400, 1000}},
		{Cs137, false, Bounds{1000, 2500}},
		{Co60, true, Bounds{1100, 1700}},
		{Co60, false, Bounds{5000, 8000}},
	}
	for _, tt := range tests {
		got, ok := tt.iso.ROI(tt.calibrated)
		if !ok || got != tt.want {
			t.Fatalf("%v.ROI(%v) = %v, %v; want %v", tt.iso, tt.calibrated, got, ok, tt.want)
		}
		if !got.Contains(got.Lo) || !got.Contains(got.Hi) {
			t.Fatalf("%v bounds not inclusive", tt.iso)
		}
	}
}

func TestReferenceEnergies(t *testing.T) {
	if Am241.Energy != 59.54 || Cs137.Energy != 661.66 || Co60.Energy != 1173.23 {
		t.Fatalf("reference energies changed: %v %v %v", Am241.Energy, Cs137.Energy, Co60.Energy)
	}
	for _, iso := range All() {
		if iso.Energy == 0 {
			t.Fatalf("%v has zero reference energy", iso)
		}
	}
}

func TestExpands(t *testing.T) {
	if !Co60.Expands() {
		t.Fatal("60Co should use the expanding search")
	}
	if Am241.Expands() || Cs137.Expands() || Custom("x", 1).Expands() {
		t.Fatal("only 60Co uses the expanding search")
	}
}

func TestDisplayLines(t *testing.T) {
	lines := Co60.DisplayLines()
	if len(lines) != 2 || lines[1] != Co60Secondary {
		t.Fatalf("60Co display lines = %v", lines)
	}
	lines[0] = 0
	if Co60.DisplayLines()[0] == 0 {
		t.Fatal("DisplayLines exposes shared storage")
	}
	if len(Custom("x", 1).DisplayLines()) != 0 {
		t.Fatal("custom isotope has display lines")
	}
}
