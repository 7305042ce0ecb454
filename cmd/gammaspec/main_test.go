package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-gamma/gamma/peaklist"
	"github.com/cwbudde/algo-gamma/gamma/spectrum"
	"github.com/cwbudde/algo-gamma/internal/config"
	"github.com/cwbudde/algo-gamma/internal/testutil"
)

// fixture writes a two-channel raw spectrum with 137Cs peaks at 1500 and
// 1600 and returns its folder and settings path.
func fixture(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	x := testutil.Axis(0, 1, 3000)
	s := &spectrum.Spectrum{
		Format: spectrum.FormatWide,
		X:      x,
		Channels: []spectrum.Channel{
			{Name: "Channel_0", Counts: testutil.GaussianPeak(x, 100, 1500, 20)},
			{Name: "Channel_1", Counts: testutil.GaussianPeak(x, 100, 1600, 20)},
		},
	}
	if err := spectrum.Save(filepath.Join(dir, "run_2.csv"), s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return dir, filepath.Join(t.TempDir(), config.FileName)
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestDetectCommand(t *testing.T) {
	dir, cfgPath := fixture(t)
	peaks := filepath.Join(dir, "peaks.csv")

	code, out, errOut := runCLI(t, "", "detect", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv",
		"-isotope", "137Cs", "-raw", "-out", peaks, "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Channel_1") || !strings.Contains(out, "1600.00") {
		t.Fatalf("stdout = %q", out)
	}
	if !strings.Contains(out, "2 peak(s) in 2 channel(s)") {
		t.Fatalf("missing summary: %q", out)
	}

	f, err := os.Open(peaks)
	if err != nil {
		t.Fatalf("peak list: %v", err)
	}
	defer f.Close()
	entries, err := peaklist.ReadCSV(f)
	if err != nil || len(entries) != 2 {
		t.Fatalf("entries = %+v, err %v", entries, err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.LastUsedFolder != dir {
		t.Fatalf("last used folder = %q, want %q", cfg.LastUsedFolder, dir)
	}
}

func TestDetectCommandNeedsSelections(t *testing.T) {
	dir, cfgPath := fixture(t)
	if code, _, errOut := runCLI(t, "", "detect", "-config", cfgPath, "-folder", dir, "-isotope", "137Cs"); code != 1 || !strings.Contains(errOut, "no file selected") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if code, _, errOut := runCLI(t, "", "detect", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv"); code != 1 || !strings.Contains(errOut, "no isotope selected") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestMultiCommandInteractive(t *testing.T) {
	dir, cfgPath := fixture(t)
	// 60Co's raw window lies beyond this axis; both channels are skipped.
	code, out, errOut := runCLI(t, "q\nq\n", "multi", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv",
		"-isotopes", "137Cs,60Co", "-raw", "-interactive", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "2 without a peak") {
		t.Fatalf("stdout = %q", out)
	}
	if strings.Count(errOut, "enter a range") != 2 {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestCalibrateCommand(t *testing.T) {
	dir, cfgPath := fixture(t)

	code, out, errOut := runCLI(t, "", "calibrate", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv",
		"-isotope", "137Cs", "-raw", "-channel", "Channel_0", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	path := filepath.Join(dir, "run_2_calibrated_661.66keV.csv")
	if !strings.Contains(out, path) {
		t.Fatalf("stdout = %q", out)
	}

	s, err := spectrum.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.RequireNear(t, "x at detected peak", s.X[1500], 661.66, 1e-6)

	// Two channels, one energy.
	code, _, errOut = runCLI(t, "", "calibrate", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv",
		"-isotope", "137Cs", "-raw", "-log-level", "error")
	if code != 1 || !strings.Contains(errOut, "does not match") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestSumAndFilesCommands(t *testing.T) {
	dir, cfgPath := fixture(t)
	if code, _, errOut := runCLI(t, "", "sum", "-config", cfgPath, "-folder", dir, "-file", "run_2.csv"); code != 0 {
		t.Fatalf("sum exit %d: %s", code, errOut)
	}
	if err := os.WriteFile(filepath.Join(dir, "run_10.csv"), []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "", "files", "-config", cfgPath, "-folder", dir)
	if code != 0 {
		t.Fatalf("files exit %d: %s", code, errOut)
	}
	want := "run_2.csv\nrun_2_combined.csv\nrun_10.csv\n"
	if out != want {
		t.Fatalf("files = %q, want %q", out, want)
	}
}

func TestIsotopesCommand(t *testing.T) {
	code, out, _ := runCLI(t, "", "isotopes")
	if code != 0 || !strings.Contains(out, "60Co") || !strings.Contains(out, "1332.5") {
		t.Fatalf("exit %d: %q", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if code, _, errOut := runCLI(t, "", "plot"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if code, _, _ := runCLI(t, "", "detect", "-h"); code != 0 {
		t.Fatalf("-h exit %d", code)
	}
}
