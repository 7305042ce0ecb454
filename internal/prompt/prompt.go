// Package prompt asks for search ranges on a line-oriented terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-gamma/gamma/detect"
)

// Terminal is a detect.RangePicker that prints the request to Out and
// reads "lo hi" from In. An empty line answers with no picks, and "q",
// "quit", "cancel" or end of input cancel the channel.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminal returns a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

func (t *Terminal) PickRange(req detect.RangeRequest) ([]float64, error) {
	lo, hi := extent(req.X)
	reason := "no peak found"
	if req.Reason != nil {
		reason = req.Reason.Error()
	}
	fmt.Fprintf(t.out, "%s (%s): %s\n", req.Channel, req.Isotope, reason)
	fmt.Fprintf(t.out, "enter a range between %g and %g as \"lo hi\", or q to skip [attempt %d]: ", lo, hi, req.Attempt)

	if !t.in.Scan() {
		fmt.Fprintln(t.out)
		if err := t.in.Err(); err != nil {
			return nil, fmt.Errorf("prompt: read: %w", err)
		}
		return nil, detect.ErrUserCancelled
	}
	picks, err := Parse(t.in.Text())
	if errors.Is(err, ErrBadNumber) {
		// Asked again as an incomplete range.
		fmt.Fprintln(t.out, err)
		return nil, nil
	}
	return picks, err
}

// ErrBadNumber is returned for a field that is not a number.
var ErrBadNumber = errors.New("prompt: not a number")

// Parse reads the picks in a line. Fields may be separated by spaces,
// commas or a dash between two positive numbers.
func Parse(line string) ([]float64, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "q", "quit", "cancel":
		return nil, detect.ErrUserCancelled
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 1 {
		if a, b, ok := strings.Cut(fields[0], "-"); ok && a != "" && b != "" {
			fields = []string{a, b}
		}
	}

	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, f)
		}
		out = append(out, v)
	}
	return out, nil
}

func extent(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return x[0], x[len(x)-1]
}

// Fixed answers every request with the same range.
type Fixed struct {
	Lo, Hi float64
	// Limit caps how many times the range is offered per channel; zero
	// means once.
	Limit int
	asked map[string]int
}

func (f *Fixed) PickRange(req detect.RangeRequest) ([]float64, error) {
	if f.asked == nil {
		f.asked = make(map[string]int)
	}
	limit := max(f.Limit, 1)
	key := req.Channel + "/" + req.Isotope.Name
	if f.asked[key] >= limit {
		return nil, detect.ErrUserCancelled
	}
	f.asked[key]++
	return []float64{f.Lo, f.Hi}, nil
}
