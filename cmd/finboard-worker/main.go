package main

import (
	"context"
	"os"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/backend"
	"finboard/internal/cli"
	"finboard/internal/log"
	"finboard/internal/services"
	gsheet "finboard/internal/sheets/google"
	"finboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	logger.Info("Starting finboard-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize finance backend", log.FieldError, err, log.FieldBackend, cfg.FinanceBackend)
		os.Exit(1)
	}
	// The worker acts with the service credential.
	api := result.Connector.Connect(nil)

	// Alerts go to the broker when one is configured, otherwise to the log
	var publisher services.AlertPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	} else {
		logger.Info("AMQP disabled - budget alerts will be logged only")
		publisher = worker.NewLogPublisher(logger)
	}

	// Snapshots are only exported when a spreadsheet is named
	var exporter *services.SnapshotExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		exporter = services.NewSnapshotExporter(api, client)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.New(
		services.NewAlertProcessor(api, publisher, logger),
		exporter,
		worker.Config{AlertInterval: cfg.AlertInterval, ExportInterval: cfg.ExportInterval},
		logger,
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		logger.Info("Shutting down worker...")
		if err := w.Stop(ctx); err != nil {
			logger.Error("Worker shutdown error", log.FieldError, err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("Failed to start worker", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker running", "jobs", w.Jobs())

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
