package timeseries

import (
	"strings"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/apperror"
	"github.com/ahmethakanbesel/fxseries/internal/currency"
	"github.com/ahmethakanbesel/fxseries/internal/series"
)

// DefaultWindowDays is the length of the window used when no start date is
// given.
const DefaultWindowDays = 365

type BuildRequest struct {
	Base      string
	Quote     string
	StartDate time.Time
	EndDate   time.Time
	EdgeFill  string // "strict" (default) or "flat"
}

func (r BuildRequest) Validate() *apperror.AppError {
	if strings.TrimSpace(r.Quote) == "" {
		return apperror.New(apperror.BadRequest, "quote currency is required")
	}
	if strings.TrimSpace(r.Base) == "" {
		return apperror.New(apperror.BadRequest, "base currency is required")
	}
	if r.StartDate.IsZero() {
		return apperror.New(apperror.BadRequest, "startDate is required")
	}
	if r.EndDate.IsZero() {
		return apperror.New(apperror.BadRequest, "endDate is required")
	}
	if series.Civil(r.EndDate).Before(series.Civil(r.StartDate)) {
		return apperror.New(apperror.BadRequest, "endDate must not be before startDate")
	}
	return nil
}

// Result is a completed series together with what was asked for.
type Result struct {
	Pair   currency.Pair
	Symbol currency.Symbol
	Bound  series.Bound
	Series series.Series
}
