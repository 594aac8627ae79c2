package scheduler

import (
	"context"
	"log/slog"
	"time"

	"edgehound/internal/config"
	"edgehound/internal/ledger"
	"edgehound/internal/pipeline"
	"edgehound/internal/reconcile"
	"edgehound/internal/report"
)

// Scheduler drives the periodic scan, reconcile and report loops.
type Scheduler struct {
	pipeline   *pipeline.Pipeline
	reconciler *reconcile.Reconciler
	reporter   *report.Reporter
	ledger     *ledger.Ledger
	cfg        config.ScheduleConfig
}

func New(
	pipe *pipeline.Pipeline,
	rec *reconcile.Reconciler,
	rep *report.Reporter,
	led *ledger.Ledger,
	cfg config.ScheduleConfig,
) *Scheduler {
	return &Scheduler{
		pipeline:   pipe,
		reconciler: rec,
		reporter:   rep,
		ledger:     led,
		cfg:        cfg,
	}
}

// Run starts all periodic loops and blocks until the context is cancelled.
// The first scan runs immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"scan_interval", s.cfg.ScanInterval.Duration,
		"resolve_interval", s.cfg.ResolveInterval.Duration,
		"report_interval", s.cfg.ReportInterval.Duration,
	)

	s.runScan(ctx)

	scanTicker := time.NewTicker(s.cfg.ScanInterval.Duration)
	resolveTicker := time.NewTicker(s.cfg.ResolveInterval.Duration)
	reportTicker := time.NewTicker(s.cfg.ReportInterval.Duration)
	defer scanTicker.Stop()
	defer resolveTicker.Stop()
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-scanTicker.C:
			s.runScan(ctx)
		case <-resolveTicker.C:
			s.runReconcile(ctx)
		case <-reportTicker.C:
			s.runReport(ctx)
		}
	}
}

func (s *Scheduler) runScan(ctx context.Context) {
	result, err := s.pipeline.Scan(ctx)
	if err != nil {
		slog.Error("scan cycle failed", "error", err)
		return
	}
	s.reporter.Cycle(result)
}

func (s *Scheduler) runReconcile(ctx context.Context) {
	if err := s.reconciler.Run(ctx); err != nil {
		slog.Error("reconciliation failed", "error", err)
	}
}

func (s *Scheduler) runReport(ctx context.Context) {
	stats, err := s.ledger.Stats(ctx)
	if err != nil {
		slog.Error("stats query failed", "error", err)
		return
	}
	s.reporter.Stats(stats)
}
