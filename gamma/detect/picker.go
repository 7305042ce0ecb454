package detect

import (
	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peaklist"
)

// RangeRequest is what a RangePicker is shown when automated detection of
// a channel failed.
type RangeRequest struct {
	Channel string
	Isotope isotope.Isotope
	X, Y    []float64
	// Attempt starts at 1 and grows with every range that found nothing.
	Attempt int
	// Reason is the failure that led to this request.
	Reason error
}

// RangePicker asks a person for the boundaries of a search range. It
// returns the picked x values, or ErrUserCancelled to give up on the
// channel.
type RangePicker interface {
	PickRange(req RangeRequest) ([]float64, error)
}

// RangePickerFunc adapts a function to RangePicker.
type RangePickerFunc func(req RangeRequest) ([]float64, error)

func (f RangePickerFunc) PickRange(req RangeRequest) ([]float64, error) { return f(req) }

// ScriptedPicker replays a fixed list of picks and cancels once they are
// used up. Requests are recorded.
type ScriptedPicker struct {
	Picks    [][]float64
	Requests []RangeRequest
}

func (p *ScriptedPicker) PickRange(req RangeRequest) ([]float64, error) {
	p.Requests = append(p.Requests, req)
	if len(p.Picks) == 0 {
		return nil, ErrUserCancelled
	}
	next := p.Picks[0]
	p.Picks = p.Picks[1:]
	return next, nil
}

// Sink receives one display record per detected peak.
type Sink interface {
	AddRecord(record string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(record string)

func (f SinkFunc) AddRecord(record string) { f(record) }

// RecordList collects records in memory.
type RecordList []string

func (l *RecordList) AddRecord(record string) { *l = append(*l, record) }

// Record formats the display record of a peak.
func Record(p DetectedPeak) string {
	return peaklist.FormatRecord(p.Channel, p.Position)
}
