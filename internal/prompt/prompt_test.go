package prompt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	p := New(strings.NewReader(input), &out).
		WithClock(func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) })
	return p, &out
}

func TestSelectCurrency(t *testing.T) {
	p, out := newPrompter("0\nabc\n4\n")

	code, err := p.SelectCurrency()
	require.NoError(t, err)
	assert.Equal(t, "CHF", code)
	assert.Contains(t, out.String(), "11. BTC - Bitcoin")
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid choice"))
}

func TestSelectCurrency_EOF(t *testing.T) {
	p, _ := newPrompter("12\n")

	_, err := p.SelectCurrency()
	assert.ErrorIs(t, err, ErrAborted)
}

func TestSelectTimeframe(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "last year",
			input:     "1\n",
			wantStart: time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "current year",
			input:     "2\n",
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "custom after retries",
			input:     "9\n3\n2024-13-01\n2024-02-01\n2024-02-10\n2024-02-01\n2024-01-05\n2024-02-01\n",
			wantStart: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newPrompter(tt.input)
			start, end, err := p.SelectTimeframe()
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
