// Package timeseries runs the resolve, fetch and complete pipeline for one
// currency pair and date window.
package timeseries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/apperror"
	"github.com/ahmethakanbesel/fxseries/internal/currency"
	"github.com/ahmethakanbesel/fxseries/internal/rate"
	"github.com/ahmethakanbesel/fxseries/internal/series"
)

const dateFormat = "2006-01-02"

// RateSource returns raw observations for a chart symbol.
type RateSource interface {
	Observations(ctx context.Context, symbol string, b series.Bound) ([]series.Observation, error)
}

type Service struct {
	rates  RateSource
	logger *slog.Logger
	now    func() time.Time
}

func NewService(rates RateSource, opts ...Option) *Service {
	s := &Service{
		rates:  rates,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// DefaultWindow returns the window used when dates are omitted: the last
// DefaultWindowDays days up to today.
func (s *Service) DefaultWindow() (start, end time.Time) {
	end = series.Civil(s.now())
	return end.AddDate(0, 0, -DefaultWindowDays), end
}

// Build resolves the pair, fetches raw rates and completes the daily series.
// Every failure is returned as an *apperror.AppError; nothing partial is
// returned alongside an error.
func (s *Service) Build(ctx context.Context, req BuildRequest) (*Result, error) {
	if req.Base == "" {
		req.Base = currency.DefaultBase
	}
	defStart, defEnd := s.DefaultWindow()
	if req.EndDate.IsZero() {
		req.EndDate = defEnd
	}
	if req.StartDate.IsZero() {
		req.StartDate = defStart
	}

	if appErr := req.Validate(); appErr != nil {
		return nil, appErr
	}

	pair, err := currency.NewPair(req.Base, req.Quote)
	if err != nil {
		return nil, apperror.Wrap(apperror.BadRequest, "invalid currency pair", err)
	}
	bound, err := series.NewBound(req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperror.Wrap(apperror.BadRequest, "invalid date range", err)
	}
	edge, err := series.ParseEdgePolicy(req.EdgeFill)
	if err != nil {
		return nil, apperror.Wrap(apperror.BadRequest, "invalid edgeFill", err)
	}

	symbol := currency.Resolve(pair)
	s.logger.Info("fetching exchange rates", "pair", pair.Label(), "symbol", symbol,
		"from", bound.Start.Format(dateFormat), "to", bound.End.Format(dateFormat))

	obs, err := s.rates.Observations(ctx, string(symbol), bound)
	if err != nil {
		if errors.Is(err, rate.ErrFetchFailed) {
			return nil, apperror.Wrap(apperror.BadGateway,
				fmt.Sprintf("failed to fetch exchange rate data for %s", symbol), err)
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to load exchange rates", err)
	}

	completed, err := series.Complete(obs, bound, series.WithEdgePolicy(edge), series.WithLogger(s.logger))
	switch {
	case errors.Is(err, series.ErrNoData):
		return nil, apperror.Wrap(apperror.NotFound,
			fmt.Sprintf("no exchange rate data for %s between %s and %s",
				pair.Label(), bound.Start.Format(dateFormat), bound.End.Format(dateFormat)), err)
	case errors.Is(err, series.ErrUnfillableGap):
		return nil, apperror.Wrap(apperror.Unprocessable,
			fmt.Sprintf("cannot complete %s series", pair.Label()), err)
	case err != nil:
		return nil, apperror.Wrap(apperror.Internal, "failed to complete series", err)
	}

	s.logger.Info("completed exchange rate series", "pair", pair.Label(),
		"days", len(completed), "observed", len(completed)-len(completed.Filled()), "filled", len(completed.Filled()))

	return &Result{
		Pair:   pair,
		Symbol: symbol,
		Bound:  bound,
		Series: completed,
	}, nil
}
