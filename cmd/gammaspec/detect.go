package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/gamma/isotope"
	"github.com/cwbudde/algo-gamma/gamma/peaklist"
)

func runDetect(e *env, args []string) error {
	var c common
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	name := fs.String("isotope", "", "isotope to detect (241Am, 137Cs, 60Co or a custom name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	iso, err := isotope.Parse(*name)
	if err != nil {
		return detect.ErrNoIsotopeSelected
	}
	return detectAndReport(e, &c, []isotope.Isotope{iso})
}

func runMulti(e *env, args []string) error {
	var c common
	fs := flag.NewFlagSet("multi", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c.register(fs)
	list := fs.String("isotopes", "241Am,137Cs,60Co", "comma-separated isotopes in detection order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	isos, err := isotope.ParseList(*list)
	if err != nil {
		return detect.ErrNoIsotopeSelected
	}
	return detectAndReport(e, &c, isos)
}

func detectAndReport(e *env, c *common, isos []isotope.Isotope) error {
	if err := c.load(); err != nil {
		return err
	}
	rep, err := runDetection(e, c, isos)
	if err != nil {
		return err
	}

	printPeaks(e, rep)
	if err := writePeakLists(c, rep); err != nil {
		return err
	}
	if err := c.remember(); err != nil {
		fmt.Fprintf(e.stderr, "warning: settings not saved: %v\n", err)
	}
	return nil
}

func runDetection(e *env, c *common, isos []isotope.Isotope) (detect.Report, error) {
	picker, err := c.picker(e)
	if err != nil {
		return detect.Report{}, err
	}
	log := c.logger(e)
	defer func() { _ = log.Sync() }()

	d := detect.New(
		detect.WithLocator(c.cfg.Locator()),
		detect.WithGuard(c.cfg.GuardOffset),
		detect.WithExpansion(c.cfg.Expansion),
		detect.WithPicker(picker),
		detect.WithLogger(log),
	)
	sess := c.session()
	if len(isos) == 1 {
		sess.Isotope = isos[0]
		return d.Run(sess)
	}
	return d.RunMulti(sess, isos)
}

func printPeaks(e *env, rep detect.Report) {
	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tIsotope\tPeak\n")
	fmt.Fprintf(tw, "-------\t-------\t----\n")
	for _, p := range rep.Peaks {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", p.Channel, p.Isotope, p.Position)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(e.stderr, "error: failed to flush output: %v\n", err)
	}

	for _, f := range rep.Failures {
		fmt.Fprintf(e.stderr, "no peak: %v\n", f)
	}
	fmt.Fprintln(e.stdout, rep.Summary())
}

func writePeakLists(c *common, rep detect.Report) error {
	entries := detect.Entries(rep.Peaks)
	if c.out != "" {
		if err := peaklist.SaveCSV(c.out, entries); err != nil {
			return err
		}
	}
	if c.parquet != "" {
		file := strings.TrimSuffix(filepath.Base(rep.File), filepath.Ext(rep.File))
		if err := peaklist.SaveParquet(c.parquet, peaklist.Rows(rep.RunID, file, entries)); err != nil {
			return err
		}
	}
	return nil
}
