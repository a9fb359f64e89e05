package server

import (
	"net/http"

	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(seriesSvc *timeseries.Service, base string) http.Handler {
	return newMux(seriesSvc, base)
}

func newMux(seriesSvc *timeseries.Service, base string) http.Handler {
	h := &handler{
		seriesSvc: seriesSvc,
		base:      base,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/v1/currencies", h.listCurrencies)
	mux.HandleFunc("GET /api/v1/rates/{quote}", h.getRates)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
