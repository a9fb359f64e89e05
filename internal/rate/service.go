package rate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/scraper"
	"github.com/ahmethakanbesel/fxseries/internal/series"
)

// ErrFetchFailed wraps any error returned by the market-data source.
var ErrFetchFailed = errors.New("fetch failed")

type Service struct {
	repo   Repository
	source scraper.Scraper
}

func NewService(repo Repository, source scraper.Scraper) *Service {
	return &Service{
		repo:   repo,
		source: source,
	}
}

// Observations returns the raw closes for symbol within b, in date order.
// Cached closes are reused; the source is asked for the span between the
// first and last expected day missing from the cache. A source failure is
// returned as ErrFetchFailed; there is no fallback to a partially filled
// cache.
func (s *Service) Observations(ctx context.Context, symbol string, b series.Bound) ([]series.Observation, error) {
	existing, err := s.repo.ExistingDates(ctx, symbol, b.Start, b.End)
	if err != nil {
		return nil, fmt.Errorf("check existing rates: %w", err)
	}

	span, ok := missingSpan(symbol, b, existing)
	if !ok && len(existing) == 0 {
		span, ok = b, true
	}
	if ok {
		if err := s.refresh(ctx, symbol, span, existing); err != nil {
			return nil, err
		}
	} else {
		slog.Debug("using cached rates", "symbol", symbol, "cached", len(existing))
	}

	cached, err := s.repo.ListRates(ctx, symbol, b.Start, b.End)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}

	obs := make([]series.Observation, len(cached))
	for i, r := range cached {
		obs[i] = series.Observation{Date: r.Date, Rate: r.Rate}
	}
	return obs, nil
}

func (s *Service) refresh(ctx context.Context, symbol string, b series.Bound, existing map[time.Time]bool) error {
	scraped, err := s.source.Scrape(ctx, symbol, b.Start, b.End)
	if err != nil {
		slog.Error("failed to fetch exchange rates", "symbol", symbol, "source", s.source.Source(), "error", err)
		return fmt.Errorf("%w: %s: %w", ErrFetchFailed, symbol, err)
	}

	rates := make([]Rate, 0, len(scraped))
	for _, sp := range scraped {
		d := series.Civil(sp.Date)
		if existing[d] || !b.Contains(d) {
			continue
		}
		rates = append(rates, Rate{Symbol: symbol, Date: d, Rate: sp.ClosePrice, Source: s.source.Source()})
	}

	if len(rates) == 0 {
		slog.Info("no new exchange rates", "symbol", symbol, "scraped", len(scraped))
		return nil
	}

	n, err := s.repo.SaveRates(ctx, rates)
	if err != nil {
		return fmt.Errorf("save rates: %w", err)
	}
	slog.Info("saved exchange rates", "symbol", symbol, "new", n, "total_scraped", len(scraped))
	return nil
}

// missingSpan returns the smallest bound covering every expected trading day
// of b that is not cached. FX tickers trade on weekdays; crypto pairs trade
// every day. ok is false when nothing expected is missing.
func missingSpan(symbol string, b series.Bound, existing map[time.Time]bool) (span series.Bound, ok bool) {
	weekdaysOnly := strings.HasSuffix(symbol, "=X")
	for d := b.Start; !d.After(b.End); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if weekdaysOnly && (wd == time.Saturday || wd == time.Sunday) {
			continue
		}
		if existing[d] {
			continue
		}
		if !ok {
			span.Start, ok = d, true
		}
		span.End = d
	}
	return span, ok
}
