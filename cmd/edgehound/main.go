package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonnyspicer/mango"

	"edgehound/internal/config"
	"edgehound/internal/ledger"
	"edgehound/internal/listing"
	"edgehound/internal/market"
	"edgehound/internal/pipeline"
	"edgehound/internal/predict"
	"edgehound/internal/reconcile"
	"edgehound/internal/report"
	"edgehound/internal/risk"
	"edgehound/internal/scheduler"
	"edgehound/internal/search"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to TOML config file")
	once := flag.Bool("once", false, "Run a single scan cycle and exit")
	statsMode := flag.Bool("stats", false, "Print ledger stats and exit")
	resolveMode := flag.Bool("resolve", false, "Run one reconcile pass and exit")
	flag.Parse()

	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	cfg := loadConfig(*configPath)

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel),
	})))

	slog.Info("edgehound starting")

	database, err := ledger.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := ledger.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	led := ledger.New(database)
	slog.Info("ledger initialized", "path", cfg.General.DBPath)

	reporter := report.New(os.Stdout)
	ctx, cancel := signalContext()
	defer cancel()

	if *statsMode {
		stats, err := led.Stats(ctx)
		if err != nil {
			slog.Error("stats query failed", "error", err)
			os.Exit(1)
		}
		reporter.Stats(stats)
		return
	}

	source, lookup := buildSource(cfg.Listing)
	reconciler := reconcile.New(lookup, led)

	if *resolveMode {
		if err := reconciler.Run(ctx); err != nil {
			slog.Error("reconciliation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		slog.Warn("TAVILY_API_KEY not set; predictions will be neutral")
	}

	engine := predict.NewEngine(
		search.NewTavilyClient(cfg.Search, apiKey),
		predict.NewKeywordScorer(),
		predict.NewCache(),
	)

	pipe := pipeline.New(
		source,
		market.NewFilter(cfg.Filter.DaysAhead),
		engine,
		risk.NewGate(cfg.Risk),
		led,
		cfg.Risk,
		cfg.Pipeline.Workers,
	)

	if *once {
		result, err := pipe.Scan(ctx)
		if err != nil {
			slog.Error("scan cycle failed", "error", err)
			os.Exit(1)
		}
		reporter.Cycle(result)
		return
	}

	sched := scheduler.New(pipe, reconciler, reporter, led, cfg.Schedule)
	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	slog.Info("edgehound stopped")
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("no config file, using defaults", "path", path)
			return config.DefaultConfig()
		}
		slog.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	return cfg
}

func buildSource(cfg config.ListingConfig) (listing.Source, listing.MarketLookup) {
	switch cfg.Source {
	case "manifold":
		src := listing.NewManifoldSource(mango.DefaultClientInstance(), cfg.MaxEvents)
		return src, src
	default:
		src := listing.NewGammaSource(cfg)
		return src, src
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	return ctx, cancel
}
