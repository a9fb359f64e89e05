// Package rate caches raw daily closing rates per chart symbol and fetches
// missing ones from a market-data source.
package rate

import "time"

type Rate struct {
	ID        int64
	Symbol    string
	Date      time.Time
	Rate      float64
	Source    string
	CreatedAt time.Time
}
