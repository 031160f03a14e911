package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"finboard/internal/amqp"
	"finboard/internal/backend"
	"finboard/internal/finance"
	"finboard/internal/finance/rest"
	"finboard/internal/report"
	"finboard/internal/services"
)

// connect builds a finance backend acting with the configured token.
func connect(ctx context.Context) (finance.Backend, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}
	if result.Connector.RequiresCredential() && cfg.FinanceAPIToken == "" {
		return nil, errors.New("no API token: set FINANCE_API_TOKEN or pass --token")
	}
	return result.Connector.Connect(nil), nil
}

func dashboard(cmd *cobra.Command) (*services.DashboardService, error) {
	b, err := connect(cmd.Context())
	if err != nil {
		return nil, err
	}
	return services.NewDashboardService(b,
		services.WithRecentPerSource(cfg.RecentPerSource),
		services.WithLogger(logger)), nil
}

func summaryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total income, expense and net",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := dashboard(cmd)
			if err != nil {
				return err
			}
			ov, err := svc.Overview(cmd.Context(), finance.ListParams{Page: 1, Limit: limit})
			if err != nil {
				return explain(err)
			}
			report.New(cmd.OutOrStdout()).Summary(ov.Summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "transactions fetched per source")
	return cmd
}

func feedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Print the ten most recent transactions and budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := dashboard(cmd)
			if err != nil {
				return err
			}
			feed, err := svc.RecentActivity(cmd.Context())
			if err != nil {
				return explain(err)
			}
			report.New(cmd.OutOrStdout()).Feed(feed)
			return nil
		},
	}
}

func budgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budgets",
		Short: "Print spending progress for every budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := dashboard(cmd)
			if err != nil {
				return err
			}
			views, err := svc.Budgets(cmd.Context())
			if err != nil {
				return explain(err)
			}
			report.New(cmd.OutOrStdout()).Budgets(views)
			return nil
		},
	}
}

func alertsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts-watch",
		Short: "Print budget alerts from the queue until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.AMQPURL == "" {
				return errors.New("no broker: set AMQP_URL")
			}
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			out := report.New(cmd.OutOrStdout())
			err = client.ConsumeBudgetAlerts(cmd.Context(), func(_ context.Context, msg *amqp.BudgetAlertMessage) error {
				out.Alert(msg)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// explain turns API failures into a message for the terminal.
func explain(err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		return fmt.Errorf("the finance API refused the token: %w", err)
	}
	return err
}
