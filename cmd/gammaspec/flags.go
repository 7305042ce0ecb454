package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/internal/config"
	"github.com/cwbudde/algo-gamma/internal/logging"
	"github.com/cwbudde/algo-gamma/internal/prompt"
)

// common are the flags shared by the detection commands.
type common struct {
	configPath    string
	folder        string
	file          string
	raw           bool
	sigma         float64
	minProminence float64
	guard         float64
	expansion     float64
	logLevel      string
	interactive   bool
	userRange     string
	out           string
	parquet       string

	cfg *config.Config
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "settings file (default ~/"+config.FileName+")")
	fs.StringVar(&c.folder, "folder", "", "folder holding the spectrum files (default: last used folder)")
	fs.StringVar(&c.file, "file", "", "spectrum file to process")
	fs.BoolVar(&c.raw, "raw", false, "treat the x-axis as raw ADC values instead of keV")
	fs.Float64Var(&c.sigma, "sigma", 0, "smoothing width in samples (default from settings)")
	fs.Float64Var(&c.minProminence, "min-prominence", 0, "smallest peak prominence in counts (default from settings)")
	fs.Float64Var(&c.guard, "guard", -1, "offset past the previous peak for multi-isotope runs (default from settings)")
	fs.Float64Var(&c.expansion, "expansion", 0, "window growth for expanding isotopes (default from settings)")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default from settings)")
	fs.BoolVar(&c.interactive, "interactive", false, "ask for a range on the terminal when detection fails")
	fs.StringVar(&c.userRange, "range", "", "range \"lo,hi\" to try when detection fails")
	fs.StringVar(&c.out, "out", "", "write the peak list CSV to this file")
	fs.StringVar(&c.parquet, "parquet", "", "write the peak list as Parquet to this file")
}

// load reads the settings file and applies flag overrides.
func (c *common) load() error {
	if c.configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		c.configPath = p
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.sigma > 0 {
		cfg.Sigma = c.sigma
	}
	if c.minProminence > 0 {
		cfg.MinProminence = c.minProminence
	}
	if c.guard >= 0 {
		cfg.GuardOffset = c.guard
	}
	if c.expansion > 0 {
		cfg.Expansion = c.expansion
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	_ = cfg.Validate()
	if c.folder == "" {
		c.folder = cfg.LastUsedFolder
	}
	c.cfg = cfg
	return nil
}

func (c *common) logger(e *env) *zap.Logger {
	return logging.New(logging.WithLevel(c.cfg.LogLevel), logging.WithOutput(e.stderr))
}

func (c *common) picker(e *env) (detect.RangePicker, error) {
	switch {
	case c.userRange != "":
		lo, hi, err := parseRange(c.userRange)
		if err != nil {
			return nil, err
		}
		return &prompt.Fixed{Lo: lo, Hi: hi}, nil
	case c.interactive:
		return prompt.NewTerminal(e.stdin, e.stderr), nil
	}
	return nil, nil
}

func (c *common) session() detect.Session {
	return detect.Session{Folder: c.folder, File: c.file, Calibrated: !c.raw}
}

// remember stores the folder of a successful run as the last used one.
func (c *common) remember() error {
	folder := c.folder
	if folder == "" {
		folder = filepath.Dir(c.session().Path())
	}
	abs, err := filepath.Abs(folder)
	if err == nil {
		folder = abs
	}
	return c.cfg.Remember(c.configPath, folder)
}

func parseRange(s string) (lo, hi float64, err error) {
	picks, err := prompt.Parse(s)
	if err != nil {
		return 0, 0, err
	}
	if len(picks) != 2 {
		return 0, 0, fmt.Errorf("range %q: want two values", s)
	}
	return picks[0], picks[1], nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("no values given")
	}
	return out, nil
}
