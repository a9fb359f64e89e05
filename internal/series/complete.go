package series

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// EdgePolicy decides what happens to days before the first or after the last
// known observation.
type EdgePolicy int

const (
	// EdgeStrict leaves edge days unfilled and reports them as a gap.
	EdgeStrict EdgePolicy = iota
	// EdgeFlat copies the nearest known rate into edge days.
	EdgeFlat
)

// ParseEdgePolicy accepts "strict" (or "") and "flat".
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch s {
	case "", "strict", "none":
		return EdgeStrict, nil
	case "flat":
		return EdgeFlat, nil
	default:
		return EdgeStrict, fmt.Errorf("unknown edge policy %q, expected strict or flat", s)
	}
}

func (p EdgePolicy) String() string {
	if p == EdgeFlat {
		return "flat"
	}
	return "strict"
}

type options struct {
	edge   EdgePolicy
	logger *slog.Logger
}

// Option configures Complete.
type Option func(*options)

func WithEdgePolicy(p EdgePolicy) Option {
	return func(o *options) { o.edge = p }
}

// WithLogger sets the logger that receives one record per filled day.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Complete builds a series with one point for every day of b.
//
// Days with an observation keep its rate. Other days are linearly
// interpolated between the nearest known days on each side, weighted by
// elapsed calendar days. Observations outside b still act as bracketing
// anchors but are not emitted. Duplicate dates resolve to the last one seen.
//
// If some days have no known neighbour on one side the returned series is
// still complete, with those days tagged Unfillable, and err is a *GapError.
// An empty or unusable observation set yields ErrNoData and no series.
func Complete(obs []Observation, b Bound, opts ...Option) (Series, error) {
	o := options{edge: EdgeStrict, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	b = Bound{Start: Civil(b.Start), End: Civil(b.End)}
	if b.End.Before(b.Start) {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidBound, b.Start.Format(dateFormat), b.End.Format(dateFormat))
	}

	known := make(map[time.Time]float64, len(obs))
	for _, ob := range obs {
		if math.IsNaN(ob.Rate) || math.IsInf(ob.Rate, 0) || ob.Rate <= 0 {
			continue
		}
		known[Civil(ob.Date)] = ob.Rate
	}
	if len(known) == 0 {
		return nil, ErrNoData
	}

	anchors := make([]time.Time, 0, len(known))
	for d := range known {
		anchors = append(anchors, d)
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Before(anchors[j]) })

	out := make(Series, 0, b.Days())
	var gaps []time.Time

	for d := b.Start; !d.After(b.End); d = d.AddDate(0, 0, 1) {
		if r, ok := known[d]; ok {
			out = append(out, Point{Date: d, Rate: r, Kind: Original})
			continue
		}

		// First anchor strictly after d; d itself is not an anchor here.
		i := sort.Search(len(anchors), func(i int) bool { return anchors[i].After(d) })

		p := Point{Date: d, Kind: Unfillable}
		switch {
		case i > 0 && i < len(anchors):
			d0, d1 := anchors[i-1], anchors[i]
			p.Rate = interpolate(d0, known[d0], d1, known[d1], d)
			p.Kind = Filled
		case o.edge == EdgeFlat && i == 0:
			p.Rate = known[anchors[0]]
			p.Kind = Filled
		case o.edge == EdgeFlat:
			p.Rate = known[anchors[len(anchors)-1]]
			p.Kind = Filled
		}

		if p.Kind == Filled {
			o.logger.Debug("filled missing date", "date", d.Format(dateFormat), "rate", p.Rate)
		} else {
			gaps = append(gaps, d)
		}
		out = append(out, p)
	}

	if len(gaps) > 0 {
		o.logger.Warn("unfillable days in series", "count", len(gaps),
			"first", gaps[0].Format(dateFormat), "last", gaps[len(gaps)-1].Format(dateFormat))
		return out, &GapError{Dates: gaps}
	}
	return out, nil
}

// interpolate returns the rate on d on the straight line through (d0, r0)
// and (d1, r1), with d0 < d < d1.
func interpolate(d0 time.Time, r0 float64, d1 time.Time, r1 float64, d time.Time) float64 {
	span := float64(daysBetween(d0, d1))
	elapsed := float64(daysBetween(d0, d))
	return r0 + (r1-r0)*elapsed/span
}
