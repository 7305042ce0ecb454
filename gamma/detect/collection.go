package detect

import (
	"fmt"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peaklist"
)

// DetectedPeak is one photopeak found in a channel.
type DetectedPeak struct {
	Channel  string
	Position float64
	Isotope  isotope.Isotope
}

// Collection holds the peaks detected in one file, in detection order.
type Collection struct {
	peaks []DetectedPeak
}

func (c *Collection) Add(p DetectedPeak) { c.peaks = append(c.peaks, p) }

func (c *Collection) Clear() { c.peaks = c.peaks[:0] }

func (c *Collection) Len() int { return len(c.peaks) }

// Peaks returns a copy of the collected peaks.
func (c *Collection) Peaks() []DetectedPeak {
	return append([]DetectedPeak(nil), c.peaks...)
}

// Last returns the most recent peak of channel.
func (c *Collection) Last(channel string) (DetectedPeak, bool) {
	for i := len(c.peaks) - 1; i >= 0; i-- {
		if c.peaks[i].Channel == channel {
			return c.peaks[i], true
		}
	}
	return DetectedPeak{}, false
}

// Tune moves the most recent peak of channel to position.
func (c *Collection) Tune(channel string, position float64) error {
	for i := len(c.peaks) - 1; i >= 0; i-- {
		if c.peaks[i].Channel == channel {
			c.peaks[i].Position = position
			return nil
		}
	}
	return fmt.Errorf("detect: no peak recorded for %q", channel)
}

// Entries converts the peaks for the peak list writers.
func (c *Collection) Entries() []peaklist.Entry {
	return Entries(c.peaks)
}

// Entries converts peaks for the peak list writers.
func Entries(peaks []DetectedPeak) []peaklist.Entry {
	out := make([]peaklist.Entry, len(peaks))
	for i, p := range peaks {
		out[i] = peaklist.Entry{Channel: p.Channel, Position: p.Position, Isotope: p.Isotope.Name}
	}
	return out
}

// Store owns one Collection per file. It is not safe for concurrent use.
type Store struct {
	files map[string]*Collection
}

func NewStore() *Store {
	return &Store{files: make(map[string]*Collection)}
}

// For returns the collection of file, creating it if needed.
func (s *Store) For(file string) *Collection {
	if s.files == nil {
		s.files = make(map[string]*Collection)
	}
	c, ok := s.files[file]
	if !ok {
		c = &Collection{}
		s.files[file] = c
	}
	return c
}

// Files returns the number of files with a collection.
func (s *Store) Files() int { return len(s.files) }
