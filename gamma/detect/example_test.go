package detect_test

import (
	"fmt"

	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
	"github.com/cwbudde/algo-gamma/internal/testutil"
)

func ExampleDetector_RunSpectrum() {
	x := testutil.Axis(0, 1, 3001)
	s := &spectrum.Spectrum{
		X: x,
		Channels: []spectrum.Channel{
			{Name: "Channel_0", Counts: testutil.GaussianPeak(x, 100, 662, 15)},
		},
	}

	d := detect.New(detect.WithSink(detect.SinkFunc(func(r string) { fmt.Println(r) })))
	rep, err := d.RunSpectrum("example.csv", s, []isotope.Isotope{isotope.Cs137}, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(rep.Summary())
	// Output:
	// Channel_0: Peak at 662.00 keV
	// Peak detection complete: 1 peak(s) in 1 channel(s)
}
