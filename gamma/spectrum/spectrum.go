// Package spectrum models multi-channel gamma count histograms.
//
// A Spectrum is a set of channels that share one x-axis. The x-axis holds
// either raw ADC/bin labels or calibrated energies in keV. Two CSV layouts
// are understood: the wide layout, where the header row carries the x-axis
// and every following row is one channel, and the two-column layout, where
// each row is an (x, count) pair of a single channel.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Errors returned by spectrum operations.
var (
	ErrEmpty          = errors.New("spectrum: no channels")
	ErrLengthMismatch = errors.New("spectrum: channel length does not match x-axis")
	ErrZeroArea       = errors.New("spectrum: spectrum area is zero")
	ErrNoChannel      = errors.New("spectrum: channel not found")
)

// SingleChannel names the only channel of a two-column spectrum.
const SingleChannel = "Single_Channel"

// Format is the on-disk layout a spectrum was read from.
type Format int

const (
	// FormatWide has bin labels in the header and one channel per row.
	FormatWide Format = iota
	// FormatTwoColumn has one (x, count) pair per row.
	FormatTwoColumn
)

// Channel is one detector element's count histogram.
type Channel struct {
	Name   string
	Counts []float64
}

// Spectrum is a set of channels over a shared x-axis.
type Spectrum struct {
	Name     string
	Format   Format
	X        []float64
	Channels []Channel

	// Header holds the column names of a two-column file.
	Header [2]string
}

// ChannelName returns the conventional name of the channel in row i.
func ChannelName(i int) string {
	return fmt.Sprintf("Channel_%d", i)
}

// Validate checks that every channel matches the x-axis length.
func (s *Spectrum) Validate() error {
	if len(s.Channels) == 0 {
		return ErrEmpty
	}
	for _, ch := range s.Channels {
		if len(ch.Counts) != len(s.X) {
			return fmt.Errorf("%w: %s has %d values, x-axis has %d",
				ErrLengthMismatch, ch.Name, len(ch.Counts), len(s.X))
		}
	}
	return nil
}

// Channel returns the channel with the given name.
func (s *Spectrum) Channel(name string) (Channel, error) {
	for _, ch := range s.Channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: %s", ErrNoChannel, name)
}

// ChannelNames lists the channel names in order.
func (s *Spectrum) ChannelNames() []string {
	out := make([]string, len(s.Channels))
	for i, ch := range s.Channels {
		out[i] = ch.Name
	}
	return out
}

// Clone returns a deep copy.
func (s *Spectrum) Clone() *Spectrum {
	out := &Spectrum{
		Name:     s.Name,
		Format:   s.Format,
		X:        append([]float64(nil), s.X...),
		Channels: make([]Channel, len(s.Channels)),
		Header:   s.Header,
	}
	for i, ch := range s.Channels {
		out.Channels[i] = Channel{Name: ch.Name, Counts: append([]float64(nil), ch.Counts...)}
	}
	return out
}

// Sum adds all channels bin by bin into a single-channel spectrum laid out
// as a two-column file.
func (s *Spectrum) Sum() (*Spectrum, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	total := make([]float64, len(s.X))
	for _, ch := range s.Channels {
		floats.Add(total, ch.Counts)
	}
	return &Spectrum{
		Name:     s.Name + "_combined",
		Format:   FormatTwoColumn,
		X:        append([]float64(nil), s.X...),
		Channels: []Channel{{Name: SingleChannel, Counts: total}},
		Header:   [2]string{"Channel/Energy", "Counts"},
	}, nil
}

// NormalizeArea sums the channels and divides the result by its
// trapezoidal area over the bin index, so spectra with different live
// times can be overlaid.
func (s *Spectrum) NormalizeArea() (*Spectrum, error) {
	summed, err := s.Sum()
	if err != nil {
		return nil, err
	}
	counts := summed.Channels[0].Counts
	if len(counts) < 2 {
		return nil, ErrZeroArea
	}

	index := make([]float64, len(counts))
	floats.Span(index, 0, float64(len(counts)-1))
	area := integrate.Trapezoidal(index, counts)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return nil, fmt.Errorf("%w: %v", ErrZeroArea, area)
	}

	floats.Scale(1/area, counts)
	summed.Name = s.Name + "_normalized"
	summed.Header = [2]string{"Channel", "Counts"}
	return summed, nil
}

// NormalizeBins divides every bin by the total count of that bin across
// all channels, giving each channel's share of the bin. Bins with no counts
// stay zero.
func (s *Spectrum) NormalizeBins() (*Spectrum, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := s.Clone()
	for bin := range out.X {
		total := 0.0
		for _, ch := range out.Channels {
			total += ch.Counts[bin]
		}
		if total == 0 {
			continue
		}
		for _, ch := range out.Channels {
			ch.Counts[bin] /= total
		}
	}
	return out, nil
}
