package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Crowley723/server-tracker/api"
	"github.com/Crowley723/server-tracker/config"
	"github.com/Crowley723/server-tracker/fetcher"
	"github.com/Crowley723/server-tracker/metrics"
	"github.com/Crowley723/server-tracker/monitor"
	"github.com/Crowley723/server-tracker/notify"
	"github.com/Crowley723/server-tracker/providers"
	"github.com/Crowley723/server-tracker/report"
	"github.com/Crowley723/server-tracker/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	app := cli.App{
		Name:  "server-tracker",
		Usage: "track online players of game servers and post a daily report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
				Value:   "config.yaml",
				EnvVars: []string{"SERVER_TRACKER_CONFIG"},
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "start polling and reporting",
				Action: run,
			},
			{
				Name:   "check",
				Usage:  "query every configured server once and print the online count",
				Action: check,
			},
			{
				Name:   "validate",
				Usage:  "load and validate the config file",
				Action: validate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer, err := report.NewRendererFromConfig(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	m := metrics.New()
	st := store.New()
	clock := monitor.RealClock()

	f := fetcher.New(cfg, st, logger, fetcher.WithMetrics(m))
	poller := monitor.NewPoller(cfg, f, clock, logger)

	webhook := notify.NewWebhook(cfg.WebhookURL, cfg.Report.Username, logger)
	reporter, err := monitor.NewReporter(cfg, st, renderer, webhook, m, clock, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Info("server tracker starting",
		"hosts", len(cfg.ServerIPs),
		"interval", cfg.PollInterval(),
		"schedule", cfg.Report.Schedule)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poller.Start(gctx)
		return nil
	})
	g.Go(func() error {
		reporter.Start(gctx)
		return nil
	})
	if cfg.API.Enabled {
		appCtx := providers.NewAppContext(gctx, cfg, logger, st, renderer, m)
		g.Go(func() error {
			return api.StartServer(gctx, appCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server tracker stopped", "err", err)
		return err
	}

	logger.Info("Received shutdown signal, exiting")
	return nil
}

func check(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closer.Close()

	f := fetcher.New(cfg, nil, logger)

	failed := 0
	for _, host := range cfg.Hosts() {
		result := f.Query(c.Context, host)
		if result.Outcome != fetcher.OutcomeSuccess {
			failed++
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%v\n", host, result.Outcome, result.Err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", host, result.Online)
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d servers failed", failed, len(cfg.ServerIPs)), 1)
	}
	return nil
}

func validate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "config ok: %d servers, polling every %s, report schedule %q\n",
		len(cfg.ServerIPs), cfg.PollInterval(), cfg.Report.Schedule)
	return nil
}

// newLogger writes text to stdout, or JSON to logging.path when set.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid logging.level %q", cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Path == "" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nopCloser{}, nil
	}

	logFile, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}

	return slog.New(slog.NewJSONHandler(logFile, opts)), logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
