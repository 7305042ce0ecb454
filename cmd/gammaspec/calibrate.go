package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-gamma/gamma/calib"
	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
)

func runCalibrate(e *env, args []string) error {
	var c common
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	name := fs.String("isotope", "", "isotope whose line the peak belongs to")
	channel := fs.String("channel", "", "use the peak detected in this channel")
	peaks := fs.String("peak", "", "detected peak position(s); skips detection")
	energies := fs.String("energy", "", "known energy(ies) in keV (default: the isotope's line)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}
	if c.file == "" {
		return detect.ErrNoFileSelected
	}

	iso, isoErr := isotope.Parse(*name)
	var known []float64
	switch {
	case *energies != "":
		v, err := parseFloats(*energies)
		if err != nil {
			return fmt.Errorf("-energy: %w", err)
		}
		known = v
	case isoErr != nil:
		return detect.ErrNoIsotopeSelected
	case iso.Energy != 0:
		known = []float64{iso.Energy}
	default:
		return fmt.Errorf("no known energy for %s; pass -energy", iso)
	}

	var positions []float64
	if *peaks != "" {
		v, err := parseFloats(*peaks)
		if err != nil {
			return fmt.Errorf("-peak: %w", err)
		}
		positions = v
	} else {
		if isoErr != nil {
			return detect.ErrNoIsotopeSelected
		}
		rep, err := runDetection(e, &c, []isotope.Isotope{iso})
		if err != nil {
			return err
		}
		for _, p := range rep.Peaks {
			if *channel == "" || p.Channel == *channel {
				positions = append(positions, p.Position)
			}
		}
	}

	points, err := calib.Pair(positions, known)
	if err != nil {
		return err
	}

	sess := c.session()
	s, err := spectrum.Load(sess.Path())
	if err != nil {
		return err
	}
	dir := filepath.Dir(sess.Path())
	base := strings.TrimSuffix(filepath.Base(c.file), filepath.Ext(c.file))

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Peak\tEnergy [keV]\tBins/keV\tFile\n")
	fmt.Fprintf(tw, "----\t------------\t--------\t----\n")
	var errs []error
	for _, pt := range points {
		out, err := calib.Calibrate(s, pt.Position, pt.Energy)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(dir, calib.Filename(base, pt.Energy))
		if err := spectrum.Save(path, out); err != nil {
			errs = append(errs, err)
			continue
		}
		scale, _ := calib.Scale(pt.Position, pt.Energy)
		fmt.Fprintf(tw, "%.2f\t%.2f\t%.6f\t%s\n", pt.Position, pt.Energy, scale, path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func runWindow(e *env, args []string) error {
	var c common
	fs := flag.NewFlagSet("window", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	channel := fs.String("channel", "", "channel to show (default: the first)")
	center := fs.Float64("center", 0, "peak position to centre on")
	half := fs.Float64("half", 100, "half width of the neighbourhood")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}
	if c.file == "" {
		return detect.ErrNoFileSelected
	}

	s, err := spectrum.Load(c.session().Path())
	if err != nil {
		return err
	}
	ch := s.Channels[0]
	if *channel != "" {
		if ch, err = s.Channel(*channel); err != nil {
			return err
		}
	}

	xs, ys := peak.Window(s.X, ch.Counts, *center, *half)
	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "X\tCounts\n")
	for i := range xs {
		fmt.Fprintf(tw, "%g\t%g\n", xs[i], ys[i])
	}
	return tw.Flush()
}
