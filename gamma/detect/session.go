package detect

import (
	"path/filepath"

	"github.com/cwbudde/algo-gamma/gamma/isotope"
)

// Session is the selection a run works on.
type Session struct {
	Folder     string
	File       string
	Isotope    isotope.Isotope
	Calibrated bool

	// LastChannel and LastPeak track the peak picked for tuning or
	// calibration.
	LastChannel string
	LastPeak    float64
}

// Path joins Folder and File. File is returned as-is when it is absolute
// or Folder is empty.
func (s Session) Path() string {
	if s.Folder == "" || filepath.IsAbs(s.File) {
		return s.File
	}
	return filepath.Join(s.Folder, s.File)
}

// Select records p as the peak picked for tuning or calibration.
func (s *Session) Select(p DetectedPeak) {
	s.LastChannel = p.Channel
	s.LastPeak = p.Position
}
