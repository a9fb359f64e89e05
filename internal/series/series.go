// Package series turns sparse daily rate observations into a complete,
// gap-free daily series over a requested date bound.
package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const dateFormat = "2006-01-02"

var (
	ErrNoData        = errors.New("no rate observations available")
	ErrUnfillableGap = errors.New("unfillable gap")
	ErrInvalidBound  = errors.New("invalid date bound")
)

// GapError reports the days that had no known observation on one side and
// therefore could not be interpolated.
type GapError struct {
	Dates []time.Time
}

func (e *GapError) Error() string {
	if len(e.Dates) == 0 {
		return ErrUnfillableGap.Error()
	}
	first, last := e.Dates[0], e.Dates[len(e.Dates)-1]
	if first.Equal(last) {
		return fmt.Sprintf("%s: no bracketing observations for %s", ErrUnfillableGap, first.Format(dateFormat))
	}
	return fmt.Sprintf("%s: no bracketing observations for %d day(s) between %s and %s",
		ErrUnfillableGap, len(e.Dates), first.Format(dateFormat), last.Format(dateFormat))
}

func (e *GapError) Unwrap() error { return ErrUnfillableGap }

// Civil drops the time-of-day and zone of t, keeping the calendar date as
// seen in t's own location. The result is midnight UTC.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bound is an inclusive range of calendar days.
type Bound struct {
	Start time.Time
	End   time.Time
}

// NewBound normalises both ends to civil dates and requires start <= end.
func NewBound(start, end time.Time) (Bound, error) {
	b := Bound{Start: Civil(start), End: Civil(end)}
	if b.End.Before(b.Start) {
		return Bound{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidBound, b.Start.Format(dateFormat), b.End.Format(dateFormat))
	}
	return b, nil
}

// Days returns the number of calendar days in the bound, both ends included.
func (b Bound) Days() int {
	return daysBetween(b.Start, b.End) + 1
}

func (b Bound) Contains(t time.Time) bool {
	d := Civil(t)
	return !d.Before(b.Start) && !d.After(b.End)
}

func (b Bound) String() string {
	return b.Start.Format(dateFormat) + ".." + b.End.Format(dateFormat)
}

// Observation is a single dated rate as returned by a data source.
type Observation struct {
	Date time.Time
	Rate float64
}

// Kind tags where a point's rate came from.
type Kind int

const (
	Original Kind = iota
	Filled
	Unfillable
)

func (k Kind) String() string {
	switch k {
	case Original:
		return "original"
	case Filled:
		return "filled"
	case Unfillable:
		return "unfillable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Point is one day of a complete series. Rate is zero when Kind is Unfillable.
type Point struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
	Kind Kind      `json:"kind"`
}

// Series is ordered by date with exactly one point per calendar day.
type Series []Point

func (s Series) Rates() []float64 {
	rates := make([]float64, len(s))
	for i, p := range s {
		rates[i] = p.Rate
	}
	return rates
}

// Filled returns the points whose rate was interpolated or edge-filled.
func (s Series) Filled() []Point {
	return s.withKind(Filled)
}

func (s Series) Unfillable() []Point {
	return s.withKind(Unfillable)
}

func (s Series) withKind(k Kind) []Point {
	var out []Point
	for _, p := range s {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarises the rates of a series, ignoring unfillable points.
type Stats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func (s Series) Summary() Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, p := range s {
		if p.Kind == Unfillable {
			continue
		}
		st.Count++
		sum += p.Rate
		st.Min = math.Min(st.Min, p.Rate)
		st.Max = math.Max(st.Max, p.Rate)
	}
	if st.Count == 0 {
		return Stats{}
	}
	st.Mean = sum / float64(st.Count)
	return st
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
