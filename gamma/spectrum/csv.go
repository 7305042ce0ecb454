package spectrum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrBadCSV wraps every decoding failure.
var ErrBadCSV = errors.New("spectrum: malformed csv")

// Load reads a spectrum file. The spectrum is named after the file without
// its extension.
func Load(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spectrum: open: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(f, name)
}

// Decode parses a wide or two-column CSV spectrum. A header with exactly
// two columns selects the two-column layout. Header labels that are not
// numbers become NaN on the x-axis and are never searched.
func Decode(r io.Reader, name string) (*Spectrum, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one row", ErrBadCSV)
	}

	header := records[0]
	rows := records[1:]
	if len(header) == 2 {
		return decodeTwoColumn(header, rows, name)
	}
	return decodeWide(header, rows, name)
}

func decodeWide(header []string, rows [][]string, name string) (*Spectrum, error) {
	s := &Spectrum{
		Name:     name,
		Format:   FormatWide,
		X:        make([]float64, len(header)),
		Channels: make([]Channel, 0, len(rows)),
	}
	for i, label := range header {
		s.X[i] = parseLabel(label)
	}

	for r, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrBadCSV, r+1, len(row), len(header))
		}
		counts := make([]float64, len(row))
		for c, field := range row {
			v, err := parseCount(field)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrBadCSV, r+1, c, err)
			}
			counts[c] = v
		}
		s.Channels = append(s.Channels, Channel{Name: ChannelName(r), Counts: counts})
	}
	return s, nil
}

func decodeTwoColumn(header []string, rows [][]string, name string) (*Spectrum, error) {
	s := &Spectrum{
		Name:   name,
		Format: FormatTwoColumn,
		X:      make([]float64, 0, len(rows)),
		Header: [2]string{header[0], header[1]},
	}
	counts := make([]float64, 0, len(rows))
	for r, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: row %d has %d fields, want 2", ErrBadCSV, r+1, len(row))
		}
		v, err := parseCount(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadCSV, r+1, err)
		}
		s.X = append(s.X, parseLabel(row[0]))
		counts = append(counts, v)
	}
	s.Channels = []Channel{{Name: SingleChannel, Counts: counts}}
	return s, nil
}

func parseLabel(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseCount(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	return strconv.ParseFloat(field, 64)
}

// Encode writes s in the layout it was read from.
func Encode(w io.Writer, s *Spectrum) error {
	if err := s.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	switch s.Format {
	case FormatTwoColumn:
		if len(s.Channels) != 1 {
			return fmt.Errorf("spectrum: two-column layout holds one channel, have %d", len(s.Channels))
		}
		header := s.Header
		if header[0] == "" && header[1] == "" {
			header = [2]string{"Channel/Energy", "Counts"}
		}
		if err := cw.Write(header[:]); err != nil {
			return err
		}
		for i, x := range s.X {
			if err := cw.Write([]string{formatFloat(x), formatFloat(s.Channels[0].Counts[i])}); err != nil {
				return err
			}
		}
	default:
		row := make([]string, len(s.X))
		for i, x := range s.X {
			row[i] = formatFloat(x)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		for _, ch := range s.Channels {
			for i, v := range ch.Counts {
				row[i] = formatFloat(v)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// Save writes s to path.
func Save(path string, s *Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("spectrum: create: %w", err)
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var firstNumber = regexp.MustCompile(`\d+`)

// ListFiles returns the CSV files in dir ordered by the first number in
// their name. Names without a number sort last, alphabetically.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spectrum: list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}

	sort.SliceStable(names, func(i, j int) bool {
		ni, oki := leadingNumber(names[i])
		nj, okj := leadingNumber(names[j])
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		default:
			return names[i] < names[j]
		}
	})
	return names, nil
}

func leadingNumber(name string) (int, bool) {
	m := firstNumber.FindString(name)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
