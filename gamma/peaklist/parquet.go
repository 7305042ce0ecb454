package peaklist

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Row is the Parquet schema of an exported peak.
type Row struct {
	RunID    string  `parquet:"run_id"`
	File     string  `parquet:"file"`
	Channel  string  `parquet:"channel"`
	Isotope  string  `parquet:"isotope"`
	PeakKeV  float64 `parquet:"peak_kev"`
	Sequence int64   `parquet:"sequence"`
}

// Rows tags entries with the run and file they came from.
func Rows(runID, file string, entries []Entry) []Row {
	out := make([]Row, len(entries))
	for i, e := range entries {
		out[i] = Row{
			RunID:    runID,
			File:     file,
			Channel:  e.Channel,
			Isotope:  e.Isotope,
			PeakKeV:  e.Position,
			Sequence: int64(i),
		}
	}
	return out
}

// WriteParquet writes rows as a Snappy compressed Parquet file.
func WriteParquet(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("peaklist: parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("peaklist: parquet close: %w", err)
	}
	return nil
}

// ReadParquet reads every row of a file written by WriteParquet.
func ReadParquet(r io.ReaderAt) ([]Row, error) {
	gr := parquet.NewGenericReader[Row](r)
	defer gr.Close()

	out := make([]Row, 0, gr.NumRows())
	batch := make([]Row, 256)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("peaklist: parquet read: %w", err)
		}
	}
	return out, nil
}

// SaveParquet writes rows to path.
func SaveParquet(path string, rows []Row) error {
	var buf bytes.Buffer
	if err := WriteParquet(&buf, rows); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("peaklist: write: %w", err)
	}
	return nil
}

// LoadParquet reads rows from path.
func LoadParquet(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("peaklist: read: %w", err)
	}
	return ReadParquet(bytes.NewReader(data))
}
