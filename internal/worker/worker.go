// Package worker runs the background jobs of finboard-worker: the budget
// alert scan and the spreadsheet snapshot export.
package worker

import (
	"context"
	"errors"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/log"
	"finboard/internal/services"
)

// Config holds the schedule of each job. A zero interval disables the job.
type Config struct {
	AlertInterval  time.Duration
	ExportInterval time.Duration
}

type Worker struct {
	alerts     *services.AlertProcessor
	exporter   *services.SnapshotExporter
	processors []*services.Processor
	logger     *log.Logger
}

// New wires the jobs that have their dependencies; a nil alerts or exporter
// leaves that job out.
func New(alerts *services.AlertProcessor, exporter *services.SnapshotExporter, cfg Config, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Discard()
	}
	w := &Worker{alerts: alerts, exporter: exporter, logger: logger.WithComponent(log.ComponentWorker)}

	if alerts != nil && cfg.AlertInterval > 0 {
		w.processors = append(w.processors, services.NewProcessor(w.ScanBudgets,
			services.ProcessorConfig{Name: "budget-alerts", Interval: cfg.AlertInterval, RunOnStart: true}, logger))
	}
	if exporter != nil && cfg.ExportInterval > 0 {
		w.processors = append(w.processors, services.NewProcessor(w.ExportSnapshot,
			services.ProcessorConfig{Name: "snapshot-export", Interval: cfg.ExportInterval}, logger))
	}
	return w
}

// Jobs reports how many periodic jobs are scheduled.
func (w *Worker) Jobs() int {
	return len(w.processors)
}

// ScanBudgets publishes alerts for budgets that passed their limit.
func (w *Worker) ScanBudgets(ctx context.Context) error {
	if w.alerts == nil {
		return nil
	}
	report, err := w.alerts.Run(ctx)
	if err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "Budget scan finished",
		"checked", report.Checked,
		"sent", report.Sent,
		"failed", report.Failed)
	return nil
}

// ExportSnapshot appends today's totals to the spreadsheet.
func (w *Worker) ExportSnapshot(ctx context.Context) error {
	if w.exporter == nil {
		return nil
	}
	snap, err := w.exporter.Export(ctx)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Snapshot exported",
		log.FieldOperation, log.OpExport,
		"net", snap.Net.StringFixed(2),
		"over_limit", snap.OverLimit)
	return nil
}

// LogPublisher stands in for the broker when none is configured: alerts
// are written to the log instead of queued.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &LogPublisher{logger: logger.WithComponent(log.ComponentAlerts)}
}

func (p *LogPublisher) PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	p.logger.WarnContext(ctx, "Budget over limit",
		log.FieldBudgetID, msg.BudgetID,
		"name", msg.Name,
		"spending", msg.CurrentSpending.StringFixed(2),
		"limit", msg.Limit.StringFixed(2),
		"progress", msg.Label)
	return nil
}

// Start launches every scheduled job.
func (w *Worker) Start(ctx context.Context) error {
	for _, p := range w.processors {
		if err := p.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	var errs []error
	for _, p := range w.processors {
		if err := p.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
