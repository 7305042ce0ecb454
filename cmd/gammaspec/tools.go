package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
)

func runSum(e *env, args []string) error {
	return writeDerived(e, "sum", args, (*spectrum.Spectrum).Sum)
}

func runNormalize(e *env, args []string) error {
	return writeDerived(e, "normalize", args, (*spectrum.Spectrum).NormalizeArea)
}

// writeDerived saves derive(file) next to the input, named after the
// derived spectrum.
func writeDerived(e *env, name string, args []string, derive func(*spectrum.Spectrum) (*spectrum.Spectrum, error)) error {
	var c common
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}
	if c.file == "" {
		return detect.ErrNoFileSelected
	}

	path := c.session().Path()
	s, err := spectrum.Load(path)
	if err != nil {
		return err
	}
	out, err := derive(s)
	if err != nil {
		return err
	}
	dst := filepath.Join(filepath.Dir(path), out.Name+".csv")
	if err := spectrum.Save(dst, out); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "saved %s (%d channels -> 1)\n", dst, len(s.Channels))
	return nil
}

func runIsotopes(e *env, args []string) error {
	fs := flag.NewFlagSet("isotopes", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Isotope\tEnergy [keV]\tWindow [keV]\tWindow [ADC]\tExpands\tReference lines [keV]\n")
	fmt.Fprintf(tw, "-------\t------------\t------------\t------------\t-------\t---------------------\n")
	for _, iso := range isotope.All() {
		cal, _ := iso.ROI(true)
		raw, _ := iso.ROI(false)
		lines := make([]string, 0, 2)
		for _, v := range iso.DisplayLines() {
			lines = append(lines, fmt.Sprintf("%.1f", v))
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%g-%g\t%g-%g\t%t\t%s\n",
			iso, iso.Energy, cal.Lo, cal.Hi, raw.Lo, raw.Hi, iso.Expands(), strings.Join(lines, ", "))
	}
	return tw.Flush()
}

func runFiles(e *env, args []string) error {
	var c common
	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}
	if c.folder == "" {
		c.folder = "."
	}

	names, err := spectrum.ListFiles(c.folder)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(e.stdout, n)
	}
	return c.remember()
}
