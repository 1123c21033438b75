package ingestion

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ProcessorConfig holds configuration for concurrent target processing
type ProcessorConfig struct {
	Workers int           // Number of concurrent workers (default: GOMAXPROCS)
	Timeout time.Duration // Per-target timeout, zero for none
}

// DefaultProcessorConfig returns default configuration
func DefaultProcessorConfig() *ProcessorConfig {
	return &ProcessorConfig{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Task processes the target at index i. Returning an error aborts the
// whole run, so per-target failures should be recorded by the task itself.
type Task func(ctx context.Context, i int, target string) error

// Processor runs a task over targets with a bounded worker pool
type Processor struct {
	config *ProcessorConfig
}

// NewProcessor creates a new processor
func NewProcessor(config *ProcessorConfig) *Processor {
	if config == nil {
		config = DefaultProcessorConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Processor{config: config}
}

// Workers returns the size of the worker pool
func (p *Processor) Workers() int {
	return p.config.Workers
}

// Process runs task for every target. It stops scheduling new targets once
// ctx is done or a task failed, and returns the first error.
func (p *Processor) Process(ctx context.Context, targets []string, task Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)

	for i, target := range targets {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			taskCtx := gctx
			if p.config.Timeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(gctx, p.config.Timeout)
				defer cancel()
			}
			return task(taskCtx, i, target)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// A parent cancelled before any task noticed still aborts the run
	return ctx.Err()
}
