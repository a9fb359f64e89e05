// Package scraper defines the contract for market-data sources that return
// daily closing prices for a symbol.
package scraper

import (
	"context"
	"time"
)

// ScrapedPrice is one daily close. Date is a civil date at midnight UTC.
type ScrapedPrice struct {
	Date       time.Time
	ClosePrice float64
}

// Scraper fetches daily closes for symbol between from and to, both
// inclusive. A source with nothing to report returns an empty slice and a nil
// error; any transport or provider failure is returned as an error.
type Scraper interface {
	Source() string
	Scrape(ctx context.Context, symbol string, from, to time.Time) ([]ScrapedPrice, error)
}
