// Package yahoo implements a scraper for Yahoo Finance daily closes.
// It uses the v8 chart API with cookie + crumb authentication, matching the
// approach used by the yfinance Python library.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahmethakanbesel/fxseries/internal/scraper"
)

const (
	defaultChartEndpoint = "https://query2.finance.yahoo.com/v8/finance/chart"
	defaultCookieURL     = "https://fc.yahoo.com"
	defaultCrumbURL      = "https://query1.finance.yahoo.com/v1/test/getcrumb"
	dateFormat           = "2006-01-02"
	defaultChunkDays     = 1250
	userAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Scraper fetches daily closing rates from Yahoo Finance.
type Scraper struct {
	workers       int
	chunkDays     int
	client        *http.Client
	chartEndpoint string
	cookieURL     string
	crumbURL      string

	mu    sync.Mutex
	crumb string
}

// New creates a Scraper with the given options applied.
func New(opts ...Option) *Scraper {
	jar, _ := cookiejar.New(nil)
	s := &Scraper{
		workers:       5,
		chunkDays:     defaultChunkDays,
		client:        &http.Client{Jar: jar, Timeout: 30 * time.Second},
		chartEndpoint: defaultChartEndpoint,
		cookieURL:     defaultCookieURL,
		crumbURL:      defaultCrumbURL,
	}
	for _, o := range opts {
		o(s)
	}
	if s.workers <= 0 {
		s.workers = 1
	}
	if s.chunkDays <= 0 {
		s.chunkDays = defaultChunkDays
	}
	return s
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithWorkers sets the worker concurrency for parallel chunk fetching.
func WithWorkers(n int) Option {
	return func(s *Scraper) { s.workers = n }
}

// WithChunkDays sets how many days each chart request covers.
func WithChunkDays(n int) Option {
	return func(s *Scraper) { s.chunkDays = n }
}

// WithClient sets the HTTP client. The client should have a cookie jar.
func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithChartEndpoint overrides the default chart API endpoint.
func WithChartEndpoint(ep string) Option {
	return func(s *Scraper) { s.chartEndpoint = ep }
}

// WithCookieURL overrides the URL used to obtain the session cookie.
func WithCookieURL(u string) Option {
	return func(s *Scraper) { s.cookieURL = u }
}

// WithCrumbURL overrides the URL used to obtain the crumb token.
func WithCrumbURL(u string) Option {
	return func(s *Scraper) { s.crumbURL = u }
}

// Source returns the scraper identifier.
func (s *Scraper) Source() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol    string `json:"symbol"`
	Currency  string `json:"currency"`
	GMTOffset int64  `json:"gmtoffset"`
}

type chartQuote struct {
	Close []any `json:"close"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Scrape fetches daily closes for symbol over the inclusive civil date range
// [from, to]. The range is split into chunks fetched in parallel; the first
// failing chunk fails the whole scrape.
func (s *Scraper) Scrape(ctx context.Context, symbol string, from, to time.Time) ([]scraper.ScrapedPrice, error) {
	if symbol == "" {
		return nil, errors.New("symbol cannot be empty")
	}
	if from.IsZero() {
		return nil, errors.New("start date cannot be empty")
	}
	if to.IsZero() {
		to = time.Now()
	}
	from, to = civil(from), civil(to)
	if from.After(to) {
		return nil, errors.New("start date cannot be after end date")
	}

	// Ensure we have a valid crumb before starting parallel fetches.
	if err := s.ensureCrumb(ctx); err != nil {
		return nil, fmt.Errorf("yahoo auth: %w", err)
	}

	chunks := scraper.SplitDateRange(from, to, s.chunkDays)
	results := make([][]scraper.ScrapedPrice, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, c := range chunks {
		g.Go(func() error {
			prices, err := s.fetchChart(ctx, symbol, c.From, c.To)
			if err != nil {
				slog.Error("error retrieving yahoo data", "symbol", symbol,
					"startDate", c.From.Format(dateFormat), "endDate", c.To.Format(dateFormat), "error", err)
				return err
			}
			results[i] = prices
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []scraper.ScrapedPrice
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// ensureCrumb fetches a session cookie and crumb token if not already cached.
func (s *Scraper) ensureCrumb(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.crumb != "" {
		return nil
	}

	// Step 1: GET fc.yahoo.com to obtain a session cookie. It answers 404
	// but still sets the cookie, so only transport errors matter here.
	cookieReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cookieURL, nil)
	if err != nil {
		return fmt.Errorf("build cookie request: %w", err)
	}
	cookieReq.Header.Set("User-Agent", userAgent)

	cookieRes, err := s.client.Do(cookieReq) //nolint:gosec // URL from internal config
	if err != nil {
		return fmt.Errorf("fetch cookie: %w", err)
	}
	_ = cookieRes.Body.Close()

	// Step 2: GET crumb endpoint (cookie is sent automatically via jar).
	crumbReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.crumbURL, nil)
	if err != nil {
		return fmt.Errorf("build crumb request: %w", err)
	}
	crumbReq.Header.Set("User-Agent", userAgent)

	crumbRes, err := s.client.Do(crumbReq) //nolint:gosec // URL from internal config
	if err != nil {
		return fmt.Errorf("fetch crumb: %w", err)
	}
	defer func() { _ = crumbRes.Body.Close() }()

	if crumbRes.StatusCode != http.StatusOK {
		return fmt.Errorf("crumb endpoint returned HTTP %d", crumbRes.StatusCode)
	}

	body, err := io.ReadAll(crumbRes.Body)
	if err != nil {
		return fmt.Errorf("read crumb: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return errors.New("empty crumb received")
	}

	s.crumb = crumb
	slog.Debug("yahoo: obtained crumb", "crumb_len", len(crumb))
	return nil
}

// fetchChart fetches chart data for one inclusive chunk. period2 is
// exclusive on Yahoo's side, so it is set to the day after to.
func (s *Scraper) fetchChart(ctx context.Context, symbol string, from, to time.Time) ([]scraper.ScrapedPrice, error) {
	s.mu.Lock()
	crumb := s.crumb
	s.mu.Unlock()

	reqURL := fmt.Sprintf("%s/%s?period1=%s&period2=%s&interval=1d&events=div%%2Csplits&crumb=%s",
		s.chartEndpoint,
		symbol,
		strconv.FormatInt(from.Unix(), 10),
		strconv.FormatInt(to.AddDate(0, 0, 1).Unix(), 10),
		crumb,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req) //nolint:gosec // URL built from internal config
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		// Invalidate crumb on auth errors so next Scrape retries auth.
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			s.mu.Lock()
			s.crumb = ""
			s.mu.Unlock()
		}
		return nil, fmt.Errorf("yahoo returned HTTP %d for %s", res.StatusCode, symbol)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse yahoo response: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := result.Indicators.Quote[0].Close
	n := min(len(result.Timestamp), len(closes))
	prices := make([]scraper.ScrapedPrice, 0, n)
	for i := range n {
		closeVal, ok := toFloat64(closes[i])
		if !ok {
			continue
		}
		prices = append(prices, scraper.ScrapedPrice{
			Date:       exchangeDate(result.Timestamp[i], result.Meta.GMTOffset),
			ClosePrice: closeVal,
		})
	}

	slog.Info("retrieved yahoo data", "symbol", symbol,
		"from", from.Format(dateFormat), "to", to.Format(dateFormat),
		"count", len(prices))

	return prices, nil
}

// exchangeDate is the calendar date of a bar timestamp in the exchange's
// local time.
func exchangeDate(ts, gmtOffset int64) time.Time {
	return civil(time.Unix(ts+gmtOffset, 0).UTC())
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// toFloat64 converts a JSON number (which may be float64 or json.Number) to float64.
// Returns false for nil values (Yahoo uses null for missing data points).
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
