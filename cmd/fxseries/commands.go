package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ahmethakanbesel/fxseries/internal/export"
	"github.com/ahmethakanbesel/fxseries/internal/prompt"
	"github.com/ahmethakanbesel/fxseries/internal/report"
	"github.com/ahmethakanbesel/fxseries/internal/server"
	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

const dateFormat = "2006-01-02"

type exportInput struct {
	quote string
	start time.Time
	end   time.Time
}

// exportInputFromFlags reads the quote argument and optional dates.
func exportInputFromFlags(cCtx *cli.Context) (exportInput, error) {
	var in exportInput
	in.quote = strings.ToUpper(cCtx.Args().First())
	if in.quote == "" {
		return in, cli.Exit("quote currency argument is required (e.g. CHF, BTC)", exitUsage)
	}

	var err error
	if in.start, err = parseDateFlag(cCtx.String(StartFlag)); err != nil {
		return in, cli.Exit(fmt.Sprintf("invalid --%s: %v", StartFlag, err), exitUsage)
	}
	if in.end, err = parseDateFlag(cCtx.String(EndFlag)); err != nil {
		return in, cli.Exit(fmt.Sprintf("invalid --%s: %v", EndFlag, err), exitUsage)
	}
	return in, nil
}

func parseDateFlag(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, v)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD")
	}
	return t, nil
}

func exportInputFromPrompt(in io.Reader, out io.Writer) (exportInput, error) {
	p := prompt.New(in, out)
	quote, err := p.SelectCurrency()
	if err != nil {
		return exportInput{}, err
	}
	start, end, err := p.SelectTimeframe()
	if err != nil {
		return exportInput{}, err
	}
	return exportInput{quote: quote, start: start, end: end}, nil
}

func runExport(cCtx *cli.Context, in io.Reader, out io.Writer) error {
	var (
		input exportInput
		err   error
	)
	if cCtx.NArg() == 0 && cCtx.NumFlags() == 0 {
		input, err = exportInputFromPrompt(in, out)
	} else {
		input, err = exportInputFromFlags(cCtx)
	}
	if err != nil {
		return err
	}

	svc, closeFn, err := openService(cCtx)
	if err != nil {
		return err
	}
	defer closeFn()

	return exportSeries(cCtx.Context, svc, out, cCtx.String(OutFlag), timeseries.BuildRequest{
		Base:      cCtx.String(BaseFlag),
		Quote:     input.quote,
		StartDate: input.start,
		EndDate:   input.end,
		EdgeFill:  cCtx.String(EdgeFillFlag),
	})
}

// exportSeries builds the series, writes it to dir and prints the report.
func exportSeries(ctx context.Context, svc *timeseries.Service, out io.Writer, dir string, req timeseries.BuildRequest) error {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		defStart, defEnd := svc.DefaultWindow()
		if req.EndDate.IsZero() {
			req.EndDate = defEnd
		}
		if req.StartDate.IsZero() {
			req.StartDate = defStart
		}
	}

	_, _ = fmt.Fprintf(out, "\nFetching exchange rate data for %s/%s...\n", strings.ToUpper(req.Base), req.Quote)
	_, _ = fmt.Fprintf(out, "From %s to %s\n", req.StartDate.Format(dateFormat), req.EndDate.Format(dateFormat))

	res, err := svc.Build(ctx, req)
	if err != nil {
		return err
	}

	report.Filled(out, res.Series)

	path, err := export.SaveCSV(dir, res.Pair, res.Bound, res.Series)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nData exported successfully to %s\n", path)

	if err := report.Head(out, res.Pair.Label(), res.Series, headRowsShown); err != nil {
		return err
	}
	report.Summary(out, res.Series)
	return nil
}

func runServe(cCtx *cli.Context) error {
	svc, closeFn, err := openService(cCtx)
	if err != nil {
		return err
	}
	defer closeFn()

	// The request base context is the CLI context, so a signal cancels
	// in-flight fetches before the listener drains.
	srv := server.New(cCtx.Context, cCtx.String(PortFlag), svc, strings.ToUpper(cCtx.String(BaseFlag)))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-cCtx.Context.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
