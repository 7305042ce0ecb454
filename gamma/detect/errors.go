package detect

import (
	"errors"

	"github.com/cwbudde/algo-gamma/gamma/peak"
)

// Errors reported by detection runs. ErrNoFileSelected, ErrNoIsotopeSelected
// and load failures abort a run; the others are recorded per channel.
var (
	ErrNoFileSelected      = errors.New("detect: no file selected")
	ErrNoIsotopeSelected   = errors.New("detect: no isotope selected")
	ErrEmptyROI            = peak.ErrEmptyROI
	ErrNoPeakFound         = peak.ErrNoPeakFound
	ErrIncompleteUserRange = errors.New("detect: range selection needs two boundaries")
	ErrUserCancelled       = errors.New("detect: range selection cancelled")
	ErrNotAwaitingRange    = errors.New("detect: search is not waiting for a range")
)
