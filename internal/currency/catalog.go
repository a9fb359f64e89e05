package currency

// Entry is a selectable quote currency.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var catalog = []Entry{
	{Code: "USD", Name: "US Dollar"},
	{Code: "GBP", Name: "British Pound"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "CHF", Name: "Swiss Franc"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "CAD", Name: "Canadian Dollar"},
	{Code: "CNY", Name: "Chinese Yuan"},
	{Code: "HKD", Name: "Hong Kong Dollar"},
	{Code: "NZD", Name: "New Zealand Dollar"},
	{Code: "SEK", Name: "Swedish Krona"},
	{Code: "BTC", Name: "Bitcoin"},
}

// Catalog returns the quote currencies offered by the interactive menu, in
// menu order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}
