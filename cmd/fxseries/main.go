package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ahmethakanbesel/fxseries/internal/config"
	"github.com/ahmethakanbesel/fxseries/internal/platform/sqlite"
	"github.com/ahmethakanbesel/fxseries/internal/rate"
	raterepo "github.com/ahmethakanbesel/fxseries/internal/repository/rate"
	"github.com/ahmethakanbesel/fxseries/internal/scraper/yahoo"
	"github.com/ahmethakanbesel/fxseries/internal/timeseries"
)

const (
	BaseFlag      = "base"
	StartFlag     = "start"
	EndFlag       = "end"
	OutFlag       = "out"
	EdgeFillFlag  = "edge-fill"
	DBFlag        = "db"
	WorkersFlag   = "workers"
	LogLevelFlag  = "log-level"
	PortFlag      = "port"
	exitUsage     = 2
	exitFailure   = 1
	headRowsShown = 5
)

func main() {
	cfg := config.Load()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight provider fetches
	// stop promptly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, os.Stdin, os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to fetch exchange rate data: %v\n", err)
		os.Exit(exitFailure)
	}
}

func newApp(cfg config.Config, in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "fxseries",
		Usage:     "Export a complete daily exchange rate series from Yahoo Finance",
		ArgsUsage: "[QUOTE]",
		Writer:    out,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    BaseFlag,
				Usage:   "base currency the rate is denominated in",
				Value:   cfg.Base,
				EnvVars: []string{"FXSERIES_BASE"},
			},
			&cli.StringFlag{
				Name:    StartFlag,
				Aliases: []string{"start_date"},
				Usage:   "start date in YYYY-MM-DD format (default: 365 days before end)",
			},
			&cli.StringFlag{
				Name:    EndFlag,
				Aliases: []string{"end_date"},
				Usage:   "end date in YYYY-MM-DD format (default: today)",
			},
			&cli.StringFlag{
				Name:    OutFlag,
				Aliases: []string{"o"},
				Usage:   "output directory for CSV files",
				Value:   cfg.OutputDir,
				EnvVars: []string{"FXSERIES_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:  EdgeFillFlag,
				Usage: "how to treat days before the first or after the last observation: strict or flat",
				Value: "strict",
			},
		}, commonFlags(cfg)...),
		Before: setupLogger,
		Action: func(cCtx *cli.Context) error {
			return runExport(cCtx, in, out)
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve completed series over HTTP",
				Before: setupLogger,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    PortFlag,
						Usage:   "HTTP listen port",
						Value:   cfg.Port,
						EnvVars: []string{"FXSERIES_PORT"},
					},
					&cli.StringFlag{
						Name:    BaseFlag,
						Usage:   "default base currency",
						Value:   cfg.Base,
						EnvVars: []string{"FXSERIES_BASE"},
					},
				}, commonFlags(cfg)...),
				Action: runServe,
			},
		},
	}
}

func commonFlags(cfg config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    DBFlag,
			Usage:   "SQLite cache path; :memory: keeps nothing between runs",
			Value:   cfg.DBPath,
			EnvVars: []string{"FXSERIES_DB_PATH"},
		},
		&cli.IntFlag{
			Name:    WorkersFlag,
			Usage:   "parallel chunk fetches against the provider",
			Value:   cfg.Workers,
			EnvVars: []string{"FXSERIES_WORKERS"},
		},
		&cli.StringFlag{
			Name:    LogLevelFlag,
			Usage:   "debug, info, warn or error",
			Value:   cfg.LogLevel.String(),
			EnvVars: []string{"FXSERIES_LOG_LEVEL"},
		},
	}
}

func setupLogger(cCtx *cli.Context) error {
	level := config.ParseLevel(cCtx.String(LogLevelFlag))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// openService wires cache, provider and pipeline. The returned close func
// releases the database.
func openService(cCtx *cli.Context) (*timeseries.Service, func(), error) {
	db, err := sqlite.Open(cCtx.String(DBFlag))
	if err != nil {
		return nil, nil, fmt.Errorf("open rate cache: %w", err)
	}

	sc := yahoo.New(yahoo.WithWorkers(cCtx.Int(WorkersFlag)))
	rateSvc := rate.NewService(raterepo.NewRepository(db.DB), sc)
	seriesSvc := timeseries.NewService(rateSvc)

	return seriesSvc, func() { _ = db.Close() }, nil
}
