// Package prompt asks the user for a quote currency and a timeframe on an
// interactive terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/currency"
	"github.com/ahmethakanbesel/fxseries/internal/series"
)

const dateFormat = "2006-01-02"

// ErrAborted is returned when input ends before a valid answer was given.
var ErrAborted = errors.New("input closed before a selection was made")

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, now: time.Now}
}

// WithClock overrides the clock used for the preset timeframes.
func (p *Prompter) WithClock(now func() time.Time) *Prompter {
	p.now = now
	return p
}

func (p *Prompter) ask(question string) (string, error) {
	_, _ = fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// SelectCurrency shows the catalog menu and returns the chosen code.
func (p *Prompter) SelectCurrency() (string, error) {
	entries := currency.Catalog()

	_, _ = fmt.Fprintln(p.out, "\nAvailable currencies:")
	for i, e := range entries {
		_, _ = fmt.Fprintf(p.out, "%d. %s - %s\n", i+1, e.Code, e.Name)
	}

	for {
		answer, err := p.ask(fmt.Sprintf("\nSelect a currency (1-%d): ", len(entries)))
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(entries) {
			return entries[n-1].Code, nil
		}
		_, _ = fmt.Fprintln(p.out, "Invalid choice. Please try again.")
	}
}

// SelectTimeframe offers the last 365 days, the current year or custom
// dates, and returns the chosen inclusive window.
func (p *Prompter) SelectTimeframe() (time.Time, time.Time, error) {
	_, _ = fmt.Fprintln(p.out, "\nTimeframe options:")
	_, _ = fmt.Fprintln(p.out, "1. Last year (365 days)")
	_, _ = fmt.Fprintln(p.out, "2. Current year (from January 1st)")
	_, _ = fmt.Fprintln(p.out, "3. Custom dates")

	for {
		choice, err := p.ask("\nSelect timeframe option (1-3): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		today := series.Civil(p.now())
		switch choice {
		case "1":
			return today.AddDate(0, 0, -365), today, nil
		case "2":
			return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today, nil
		case "3":
			return p.customDates()
		}
		_, _ = fmt.Fprintln(p.out, "Invalid choice. Please try again.")
	}
}

func (p *Prompter) customDates() (time.Time, time.Time, error) {
	for {
		startStr, err := p.ask("Enter start date (YYYY-MM-DD): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endStr, err := p.ask("Enter end date (YYYY-MM-DD): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		start, errStart := time.Parse(dateFormat, startStr)
		end, errEnd := time.Parse(dateFormat, endStr)
		switch {
		case errStart != nil || errEnd != nil:
			_, _ = fmt.Fprintln(p.out, "Invalid date format. Please use YYYY-MM-DD format.")
		case end.Before(start):
			_, _ = fmt.Fprintln(p.out, "End date must not be before start date.")
		default:
			return start, end, nil
		}
	}
}
