// Package currency holds currency pairs and the rules that turn a pair into
// a Yahoo Finance chart symbol.
package currency

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultBase is the base currency used when none is given.
const DefaultBase = "EUR"

var ErrUnresolvedSymbol = errors.New("unresolved symbol")

// cryptoCodes lists quote codes that use the crypto pair convention.
var cryptoCodes = map[string]bool{
	"BTC": true,
}

// Pair is an immutable base/quote currency pair. Rates are expressed as
// units of quote per one unit of base.
type Pair struct {
	base  string
	quote string
}

// NewPair upper-cases both codes and checks they look like currency codes.
func NewPair(base, quote string) (Pair, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if err := checkCode(base); err != nil {
		return Pair{}, fmt.Errorf("%w: base %w", ErrUnresolvedSymbol, err)
	}
	if err := checkCode(quote); err != nil {
		return Pair{}, fmt.Errorf("%w: quote %w", ErrUnresolvedSymbol, err)
	}
	return Pair{base: base, quote: quote}, nil
}

func checkCode(code string) error {
	if code == "" {
		return errors.New("code is empty")
	}
	if len(code) < 3 || len(code) > 5 {
		return fmt.Errorf("code %q must be 3 to 5 letters", code)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("code %q must contain only letters", code)
		}
	}
	return nil
}

func (p Pair) Base() string  { return p.base }
func (p Pair) Quote() string { return p.quote }

// Label is the "BASE/QUOTE" form used as a column header.
func (p Pair) Label() string { return p.base + "/" + p.quote }

func (p Pair) String() string { return p.Label() }

// IsCrypto reports whether code is quoted with the crypto pair convention.
func IsCrypto(code string) bool {
	return cryptoCodes[strings.ToUpper(code)]
}

// Symbol is a query descriptor understood by the chart API.
type Symbol string

// Resolve returns the chart symbol for p. Crypto quotes are paired directly
// against the base ("BTC-EUR"); everything else uses the FX ticker
// ("EURCHF=X").
func Resolve(p Pair) Symbol {
	if IsCrypto(p.quote) {
		return Symbol(p.quote + "-" + p.base)
	}
	return Symbol(p.base + p.quote + "=X")
}
