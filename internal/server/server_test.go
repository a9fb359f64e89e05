package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmethakanbesel/fxseries/internal/platform/sqlite"
	"github.com/ahmethakanbesel/fxseries/internal/rate"
	raterepo "github.com/ahmethakanbesel/fxseries/internal/repository/rate"
	"github.com/ahmethakanbesel/fxseries/internal/scraper/yahoo"
	"github.com/ahmethakanbesel/fxseries/internal/server"
	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

// Tue 2024-01-02, Wed 2024-01-03 and Fri 2024-01-05 at 00:00 UTC.
const chartEURCHF = `{"chart":{"result":[{"meta":{"symbol":"EURCHF=X","currency":"CHF","gmtoffset":0},
	"timestamp":[1704153600,1704240000,1704412800],
	"indicators":{"quote":[{"close":[0.93,0.94,0.96]}]}}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newYahooMock(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cookie", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/crumb", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("crumb"))
	})
	mux.HandleFunc("/chart/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/EURCHF=X") {
			_, _ = w.Write([]byte(chartEURCHF))
			return
		}
		_, _ = w.Write([]byte(chartNotFound))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func setup(t *testing.T) *httptest.Server {
	t.Helper()

	yahooTS := newYahooMock(t)

	db, err := sqlite.Open(sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sc := yahoo.New(
		yahoo.WithWorkers(1),
		yahoo.WithClient(yahooTS.Client()),
		yahoo.WithChartEndpoint(yahooTS.URL+"/chart"),
		yahoo.WithCookieURL(yahooTS.URL+"/cookie"),
		yahoo.WithCrumbURL(yahooTS.URL+"/crumb"),
	)
	rateSvc := rate.NewService(raterepo.NewRepository(db.DB), sc)
	seriesSvc := timeseries.NewService(rateSvc,
		timeseries.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ts := httptest.NewServer(server.NewHandler(seriesSvc, "EUR"))
	t.Cleanup(ts.Close)
	return ts
}

type apiResponse struct {
	Message string `json:"message"`
	Data    struct {
		Pair   string `json:"pair"`
		Symbol string `json:"symbol"`
		Days   int    `json:"days"`
		Filled int    `json:"filled"`
		Rates  []struct {
			Date string  `json:"date"`
			Rate float64 `json:"rate"`
			Kind string  `json:"kind"`
		} `json:"rates"`
	} `json:"data"`
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test URL
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := setup(t)

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestListCurrencies(t *testing.T) {
	ts := setup(t)

	resp, body := get(t, ts.URL+"/api/v1/currencies")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"BTC"`)
}

func TestGetRates(t *testing.T) {
	ts := setup(t)

	resp, body := get(t, ts.URL+"/api/v1/rates/chf?startDate=2024-01-02&endDate=2024-01-05")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out apiResponse
	require.NoError(t, json.Unmarshal(body, &out))

	assert.Equal(t, "EURCHF=X", resp.Header.Get("X-Rate-Symbol"))
	assert.Equal(t, "1", resp.Header.Get("X-Filled-Days"))
	assert.Equal(t, "EUR/CHF", out.Data.Pair)
	assert.Equal(t, "EURCHF=X", out.Data.Symbol)
	assert.Equal(t, 4, out.Data.Days)
	assert.Equal(t, 1, out.Data.Filled)
	require.Len(t, out.Data.Rates, 4)
	assert.Equal(t, "2024-01-04", out.Data.Rates[2].Date)
	assert.InDelta(t, 0.95, out.Data.Rates[2].Rate, 1e-9)
	assert.Equal(t, "filled", out.Data.Rates[2].Kind)
	assert.Equal(t, "original", out.Data.Rates[3].Kind)
}

func TestGetRates_CSV(t *testing.T) {
	ts := setup(t)

	resp, body := get(t, ts.URL+"/api/v1/rates/CHF?startDate=2024-01-02&endDate=2024-01-03&format=csv")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "EUR_CHF_exchange_rate_2024-01-02_to_2024-01-03.csv")
	assert.Equal(t, "Date,EUR/CHF\n2024-01-02,0.93\n2024-01-03,0.94\n", string(body))
}

func TestGetRates_Errors(t *testing.T) {
	ts := setup(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"leading gap", "/api/v1/rates/CHF?startDate=2024-01-01&endDate=2024-01-05", http.StatusUnprocessableEntity},
		{"reversed range", "/api/v1/rates/CHF?startDate=2024-01-05&endDate=2024-01-01", http.StatusBadRequest},
		{"bad date", "/api/v1/rates/CHF?startDate=01/02/2024", http.StatusBadRequest},
		{"bad format", "/api/v1/rates/CHF?startDate=2024-01-02&endDate=2024-01-05&format=xml", http.StatusBadRequest},
		{"provider error", "/api/v1/rates/XAU?startDate=2024-01-02&endDate=2024-01-05", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}
}
