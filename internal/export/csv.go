// Package export writes completed series to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ahmethakanbesel/fxseries/internal/currency"
	"github.com/ahmethakanbesel/fxseries/internal/series"
)

const dateFormat = "2006-01-02"

// DefaultDir is the directory exports go to when none is configured.
const DefaultDir = "exchange_rates_data"

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// FileName is "<BASE>_<QUOTE>_exchange_rate_<start>_to_<end>.csv".
func FileName(p currency.Pair, b series.Bound) string {
	return fmt.Sprintf("%s_%s_exchange_rate_%s_to_%s.csv",
		p.Base(), p.Quote(), b.Start.Format(dateFormat), b.End.Format(dateFormat))
}

// WriteCSV writes a "Date,<label>" header followed by one row per point.
// Unfillable points are written with an empty rate.
func WriteCSV(w io.Writer, label string, s series.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", label}); err != nil {
		return err
	}
	for _, p := range s {
		rate := ""
		if p.Kind != series.Unfillable {
			rate = strconv.FormatFloat(p.Rate, 'f', -1, 64)
		}
		if err := cw.Write([]string{p.Date.Format(dateFormat), rate}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the series for p into dir and returns the file path.
func SaveCSV(dir string, p currency.Pair, b series.Bound, s series.Series) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(p, b))
	f, err := os.Create(path) //nolint:gosec // path built from validated currency codes and dates
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := WriteCSV(f, p.Label(), s); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
