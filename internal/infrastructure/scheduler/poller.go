// Package scheduler drives the polling loop. A Poller runs one fulfillment
// pass immediately on start and then on a fixed interval until stopped; an
// in-flight pass is allowed to finish during shutdown.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// PassRunner executes one discovery-and-processing pass
type PassRunner interface {
	RunPass(ctx context.Context) fulfillment.PassSummary
}

// PollerConfig holds configuration for the polling loop
type PollerConfig struct {
	// Interval is the time between pass starts
	Interval time.Duration
	// PassTimeout bounds one full pass
	PassTimeout time.Duration
}

// DefaultPollerConfig returns the default polling configuration
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:    5 * time.Minute,
		PassTimeout: 10 * time.Minute,
	}
}

// Poller runs fulfillment passes on a fixed interval
type Poller struct {
	config PollerConfig
	runner PassRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// passMu serializes passes so a manual trigger cannot overlap the
	// scheduled loop
	passMu      sync.Mutex
	lastSummary *fulfillment.PassSummary
}

// NewPoller creates a new poller
func NewPoller(config PollerConfig, runner PassRunner, logger *zap.Logger) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	if config.PassTimeout <= 0 {
		config.PassTimeout = DefaultPollerConfig().PassTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the polling loop. The first pass runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runLoop(ctx)

	p.logger.Info("Poller started",
		zap.Duration("interval", p.config.Interval),
		zap.Duration("pass_timeout", p.config.PassTimeout),
	)

	return nil
}

// Stop stops the polling loop, waiting for an in-flight pass to complete or
// for ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the polling loop is active
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

// runLoop runs passes on the configured interval
func (p *Poller) runLoop(ctx context.Context) {
	defer p.wg.Done()

	// First pass right away so a restart picks up pending orders without
	// waiting a full interval
	p.runPass(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runPass(ctx)
		}
	}
}

// runPass executes one pass under the pass timeout and records its summary.
func (p *Poller) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	p.passMu.Lock()
	defer p.passMu.Unlock()

	passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.PassTimeout)
	defer cancel()

	summary := p.runner.RunPass(passCtx)

	p.mu.Lock()
	p.lastSummary = &summary
	p.mu.Unlock()
}

// TriggerNow runs a pass out of band, serialized with the scheduled loop.
func (p *Poller) TriggerNow(ctx context.Context) fulfillment.PassSummary {
	p.passMu.Lock()
	defer p.passMu.Unlock()

	passCtx, cancel := context.WithTimeout(ctx, p.config.PassTimeout)
	defer cancel()

	summary := p.runner.RunPass(passCtx)

	p.mu.Lock()
	p.lastSummary = &summary
	p.mu.Unlock()

	return summary
}

// LastSummary returns the most recent pass summary, if any pass has run.
func (p *Poller) LastSummary() (fulfillment.PassSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastSummary == nil {
		return fulfillment.PassSummary{}, false
	}
	return *p.lastSummary, true
}
