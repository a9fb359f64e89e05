// Package report prints human-readable summaries of a completed series.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ahmethakanbesel/fxseries/internal/series"
)

const dateFormat = "2006-01-02"

// Filled lists every interpolated day with its rate. Nothing is written if
// no day was filled.
func Filled(w io.Writer, s series.Series) {
	filled := s.Filled()
	if len(filled) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "\nMissing dates filled with interpolated values:")
	for _, p := range filled {
		_, _ = fmt.Fprintf(w, "%s: %.4f\n", p.Date.Format(dateFormat), p.Rate)
	}
}

// Head prints the first n rows as a table.
func Head(w io.Writer, label string, s series.Series, n int) error {
	_, _ = fmt.Fprintln(w, "\nFirst few rows of the data:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintf(tw, "\tDate\t%s\t\n", label)
	for i, p := range s[:min(n, len(s))] {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%.6f\t\n", i, p.Date.Format(dateFormat), p.Rate)
	}
	return tw.Flush()
}

// Summary prints average, minimum and maximum rate.
func Summary(w io.Writer, s series.Series) {
	st := s.Summary()
	_, _ = fmt.Fprintln(w, "\nBasic statistics:")
	_, _ = fmt.Fprintf(w, "Average rate: %.2f\n", st.Mean)
	_, _ = fmt.Fprintf(w, "Minimum rate: %.2f\n", st.Min)
	_, _ = fmt.Fprintf(w, "Maximum rate: %.2f\n", st.Max)
}
