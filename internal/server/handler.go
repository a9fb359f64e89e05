package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/apperror"
	"github.com/ahmethakanbesel/fxseries/internal/currency"
	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

const dateFormat = "2006-01-02"

type handler struct {
	seriesSvc *timeseries.Service
	base      string
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, currency.Catalog())
}

func (h *handler) getRates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	base := strings.ToUpper(q.Get("base"))
	if base == "" {
		base = h.base
	}

	var startDate, endDate time.Time
	var err error
	if v := q.Get("startDate"); v != "" {
		startDate, err = time.Parse(dateFormat, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate format, expected YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("endDate"); v != "" {
		endDate, err = time.Parse(dateFormat, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate format, expected YYYY-MM-DD")
			return
		}
	}

	format := q.Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	req := timeseries.BuildRequest{
		Base:      base,
		Quote:     strings.ToUpper(r.PathValue("quote")),
		StartDate: startDate,
		EndDate:   endDate,
		EdgeFill:  q.Get("edgeFill"),
	}

	res, err := h.seriesSvc.Build(r.Context(), req)
	if err != nil {
		ae := apperror.From(err)
		writeError(w, ae.HTTPStatus(), ae.Error())
		return
	}

	setSeriesHeaders(w, res)

	if format == "csv" {
		writeCSV(w, res)
		return
	}

	writeJSON(w, http.StatusOK, newRatesResponse(res))
}
