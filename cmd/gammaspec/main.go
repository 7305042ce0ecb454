// Command gammaspec finds photopeaks in gamma spectra and calibrates their
// energy axis.
//
// Usage:
//
//	gammaspec <command> [flags]
//
// Commands:
//
//	detect     detect one isotope in every channel of a file
//	multi      detect several isotopes in sequence
//	calibrate  rescale a file's x-axis from a detected peak
//	window     print the neighbourhood of a peak for manual tuning
//	sum        add all channels into <name>_combined.csv
//	normalize  sum and area-normalise into <name>_normalized.csv
//	isotopes   list the built-in isotopes
//	files      list the spectrum files of a folder
//
// Examples:
//
//	gammaspec detect -folder data -file run_3.csv -isotope 137Cs
//	gammaspec multi -file run_3.csv -isotopes 241Am,137Cs,60Co -raw -interactive
//	gammaspec calibrate -file run_3.csv -isotope 137Cs -raw
//	gammaspec files -folder data
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{"detect", "detect one isotope in every channel of a file", runDetect},
	{"multi", "detect several isotopes in sequence", runMulti},
	{"calibrate", "rescale a file's x-axis from a detected peak", runCalibrate},
	{"window", "print the neighbourhood of a peak for manual tuning", runWindow},
	{"sum", "add all channels into <name>_combined.csv", runSum},
	{"normalize", "sum and area-normalise into <name>_normalized.csv", runNormalize},
	{"isotopes", "list the built-in isotopes", runIsotopes},
	{"files", "list the spectrum files of a folder", runFiles},
}

// env carries the process streams so commands can be driven from tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		err := c.run(e, args[1:])
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: gammaspec <command> [flags]\n\n")
	fmt.Fprintf(w, "Finds photopeaks in gamma spectra and calibrates their energy axis.\n\n")
	fmt.Fprintf(w, "Commands:\n")
	names := make([]command, len(commands))
	copy(names, commands)
	sort.SliceStable(names, func(i, j int) bool { return names[i].name < names[j].name })
	for _, c := range names {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'gammaspec <command> -h' for the flags of a command.\n")
}
