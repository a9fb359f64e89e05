package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ahmethakanbesel/fxseries/internal/export"
	"github.com/ahmethakanbesel/fxseries/internal/series"
	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ratePoint struct {
	Date string      `json:"date"`
	Rate float64     `json:"rate"`
	Kind series.Kind `json:"kind"`
}

type ratesResponse struct {
	Pair      string      `json:"pair"`
	Symbol    string      `json:"symbol"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Days      int         `json:"days"`
	Filled    int         `json:"filled"`
	Rates     []ratePoint `json:"rates"`
}

func newRatesResponse(res *timeseries.Result) ratesResponse {
	points := make([]ratePoint, len(res.Series))
	for i, p := range res.Series {
		points[i] = ratePoint{Date: p.Date.Format(dateFormat), Rate: p.Rate, Kind: p.Kind}
	}
	return ratesResponse{
		Pair:      res.Pair.Label(),
		Symbol:    string(res.Symbol),
		StartDate: res.Bound.Start.Format(dateFormat),
		EndDate:   res.Bound.End.Format(dateFormat),
		Days:      len(res.Series),
		Filled:    len(res.Series.Filled()),
		Rates:     points,
	}
}

// setSeriesHeaders exposes the chart symbol and filled-day count so they can
// be logged and inspected without parsing the body.
func setSeriesHeaders(w http.ResponseWriter, res *timeseries.Result) {
	w.Header().Set(symbolHeader, string(res.Symbol))
	w.Header().Set(filledHeader, strconv.Itoa(len(res.Series.Filled())))
}

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[T]{
		Message: "ok",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[string]{
		Message: message,
		Data:    "",
	})
}

func writeCSV(w http.ResponseWriter, res *timeseries.Result) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.FileName(res.Pair, res.Bound)))
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, res.Pair.Label(), res.Series); err != nil {
		slog.Error("write csv response", "error", err)
	}
}
