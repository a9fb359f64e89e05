package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		base, quote string
		want        Symbol
	}{
		{"EUR", "BTC", "BTC-EUR"},
		{"EUR", "CHF", "EURCHF=X"},
		{"usd", "jpy", "USDJPY=X"},
		{"GBP", "btc", "BTC-GBP"},
	}

	for _, tt := range tests {
		p, err := NewPair(tt.base, tt.quote)
		require.NoError(t, err)
		assert.Equal(t, tt.want, Resolve(p), "%s/%s", tt.base, tt.quote)
	}
}

func TestNewPair(t *testing.T) {
	p, err := NewPair(" eur ", "chf")
	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Base())
	assert.Equal(t, "CHF", p.Quote())
	assert.Equal(t, "EUR/CHF", p.Label())

	for _, tc := range [][2]string{{"", "CHF"}, {"EUR", ""}, {"EU", "CHF"}, {"EUR", "CH1"}, {"EUR", "TOOLONG"}} {
		_, err := NewPair(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrUnresolvedSymbol, "%v", tc)
	}
}

func TestIsCrypto(t *testing.T) {
	assert.True(t, IsCrypto("BTC"))
	assert.True(t, IsCrypto("btc"))
	assert.False(t, IsCrypto("CHF"))
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 11)
	assert.Equal(t, "USD", c[0].Code)
	assert.Equal(t, "BTC", c[10].Code)

	c[0].Code = "XXX"
	assert.Equal(t, "USD", Catalog()[0].Code)
}
