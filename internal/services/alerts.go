package services

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/log"
)

// AlertPublisher delivers budget alerts.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// AlertReport summarizes one scan.
type AlertReport struct {
	Checked int
	Sent    int
	Failed  int
}

// AlertProcessor notifies once per budget when its spending passes its limit.
type AlertProcessor struct {
	budgets   finance.BudgetStore
	publisher AlertPublisher
	now       func() time.Time
	logger    *log.Logger
}

func NewAlertProcessor(budgets finance.BudgetStore, publisher AlertPublisher, logger *log.Logger) *AlertProcessor {
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertProcessor{
		budgets:   budgets,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentAlerts),
	}
}

// NeedsAlert reports whether b is active, over its limit and not yet notified.
func NeedsAlert(b core.Budget) bool {
	return b.IsActive && b.Overspent() && !b.NotificationsSent
}

// Run scans all budgets once. A budget is marked notified only after its
// alert was published, so a failed publish is retried on the next scan.
func (p *AlertProcessor) Run(ctx context.Context) (AlertReport, error) {
	budgets, err := p.budgets.ListBudgets(ctx)
	if err != nil {
		return AlertReport{}, fmt.Errorf("list budgets: %w", err)
	}

	report := AlertReport{Checked: len(budgets)}
	for _, b := range budgets {
		if !NeedsAlert(b) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		msg := amqp.NewBudgetAlertMessage(b, p.now())
		if err := p.publisher.PublishBudgetAlert(ctx, msg); err != nil {
			report.Failed++
			p.logger.WarnContext(ctx, "Budget alert not published",
				log.FieldBudgetID, b.ID,
				log.FieldOperation, log.OpPublish,
				log.FieldError, err)
			continue
		}
		if err := p.budgets.MarkBudgetNotified(ctx, b.ID); err != nil {
			report.Failed++
			p.logger.ErrorContext(ctx, "Budget alert sent but not recorded",
				log.FieldBudgetID, b.ID,
				log.FieldError, err)
			continue
		}
		report.Sent++
	}

	if report.Sent > 0 || report.Failed > 0 {
		p.logger.InfoContext(ctx, "Budget alert scan completed",
			"checked", report.Checked,
			"sent", report.Sent,
			"failed", report.Failed)
	}
	return report, nil
}
