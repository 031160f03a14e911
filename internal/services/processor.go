package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finboard/internal/log"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// ProcessorConfig holds configuration for a periodic processor
type ProcessorConfig struct {
	// Name identifies the job in logs
	Name string

	// Interval is how often the job runs (default: 5m)
	Interval time.Duration

	// RunOnStart runs the job once before the first tick
	RunOnStart bool
}

// DefaultProcessorConfig returns sensible defaults
func DefaultProcessorConfig(name string) ProcessorConfig {
	return ProcessorConfig{
		Name:       name,
		Interval:   5 * time.Minute,
		RunOnStart: true,
	}
}

// Processor runs a job on a fixed interval until stopped. Failures are
// logged and the job runs again on the next tick.
type Processor struct {
	job    Job
	config ProcessorConfig
	logger *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewProcessor(job Job, config ProcessorConfig, logger *log.Logger) *Processor {
	if config.Interval <= 0 {
		config.Interval = DefaultProcessorConfig(config.Name).Interval
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Processor{
		job:    job,
		config: config,
		logger: logger.WithComponent(log.ComponentWorker).With("job", config.Name),
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("%s processor is already running", p.config.Name)
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Processor started", "interval", p.config.Interval)
	return nil
}

// Stop signals the loop and waits for the current run to finish.
func (p *Processor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Processor stopped gracefully")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	if p.config.RunOnStart {
		p.runOnce(ctx)
	}

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Processor) runOnce(ctx context.Context) {
	start := time.Now()
	if err := p.job(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Job failed", log.FieldError, err)
		return
	}
	p.logger.DebugContext(ctx, "Job completed", log.FieldDuration, time.Since(start).Milliseconds())
}
