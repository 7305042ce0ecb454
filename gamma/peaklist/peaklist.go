// Package peaklist stores detected peaks: the one-line display records, a
// two-column CSV peak list and a Parquet export.
package peaklist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// CSV column names.
const (
	ColumnChannel = "Channel"
	ColumnPeak    = "Peak (keV)"
)

var (
	ErrBadRecord = errors.New("peaklist: malformed peak record")
	ErrBadCSV    = errors.New("peaklist: malformed csv")
)

// Entry is one detected peak.
type Entry struct {
	Channel  string
	Position float64
	// Isotope is carried by the Parquet export only.
	Isotope string
}

// FormatRecord renders the display record for a peak.
func FormatRecord(channel string, position float64) string {
	return fmt.Sprintf("%s: Peak at %.2f keV", channel, position)
}

var recordPattern = regexp.MustCompile(`^\s*(.+?):\s*Peak at\s+(\S+)\s+keV\s*$`)

// ParseRecord is the inverse of FormatRecord.
func ParseRecord(record string) (Entry, error) {
	m := recordPattern.FindStringSubmatch(record)
	if m == nil {
		return Entry{}, fmt.Errorf("%w: %q", ErrBadRecord, record)
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: %v", ErrBadRecord, record, err)
	}
	return Entry{Channel: m[1], Position: v}, nil
}

// WriteCSV writes entries under the Channel and Peak (keV) header.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnChannel, ColumnPeak}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Channel, strconv.FormatFloat(e.Position, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a peak list written by WriteCSV. Columns are located by
// name, so extra columns are ignored.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrBadCSV)
	}

	chCol, peakCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case ColumnChannel:
			chCol = i
		case ColumnPeak:
			peakCol = i
		}
	}
	if chCol < 0 || peakCol < 0 {
		return nil, fmt.Errorf("%w: header %v lacks %q or %q", ErrBadCSV, records[0], ColumnChannel, ColumnPeak)
	}

	out := make([]Entry, 0, len(records)-1)
	for n, row := range records[1:] {
		if len(row) <= max(chCol, peakCol) {
			return nil, fmt.Errorf("%w: row %d is short", ErrBadCSV, n+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[peakCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadCSV, n+1, err)
		}
		out = append(out, Entry{Channel: row[chCol], Position: v})
	}
	return out, nil
}

// SaveCSV writes entries to path.
func SaveCSV(path string, entries []Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("peaklist: create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, entries)
}

// Positions returns the peak positions in order.
func Positions(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Position
	}
	return out
}
