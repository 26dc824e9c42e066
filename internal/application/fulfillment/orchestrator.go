// Package fulfillment contains the application-layer orchestrator: one
// discovery-and-processing pass over the marketplace's unshipped orders.
package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/erp/fulfillment/internal/domain/fulfillment"
)

// OrchestratorConfig holds the orchestrator's tunables.
type OrchestratorConfig struct {
	// Lookback is the bounded recent window passed to the order source
	Lookback time.Duration
	// StepTimeout bounds each outbound collaborator call so a hung network
	// call cannot stall the loop indefinitely
	StepTimeout time.Duration
}

// DefaultOrchestratorConfig returns defaults matching a 7-day lookback and a
// generous per-step timeout.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Lookback:    7 * 24 * time.Hour,
		StepTimeout: 2 * time.Minute,
	}
}

// Orchestrator runs the per-order fulfillment pipeline: dedup filter, label
// acquisition, packing slip rendering, printing, and the durable mark. All
// steps for an order execute sequentially within the invoking pass; no two
// orders are processed concurrently.
type Orchestrator struct {
	config  OrchestratorConfig
	source  domain.OrderSource
	labels  domain.LabelAcquirer
	slips   domain.SlipRenderer
	printer domain.PrintSink
	seen    domain.SeenOrderStore
	journal domain.PassJournal
	logger  *zap.Logger
}

// NewOrchestrator creates a new Orchestrator. The journal may be nil, in
// which case outcomes are only logged.
func NewOrchestrator(
	config OrchestratorConfig,
	source domain.OrderSource,
	labels domain.LabelAcquirer,
	slips domain.SlipRenderer,
	printer domain.PrintSink,
	seen domain.SeenOrderStore,
	journal domain.PassJournal,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Lookback <= 0 {
		config.Lookback = DefaultOrchestratorConfig().Lookback
	}
	if config.StepTimeout <= 0 {
		config.StepTimeout = DefaultOrchestratorConfig().StepTimeout
	}
	return &Orchestrator{
		config:  config,
		source:  source,
		labels:  labels,
		slips:   slips,
		printer: printer,
		seen:    seen,
		journal: journal,
		logger:  logger,
	}
}

// RunPass executes one full pass: fetch candidates, filter against the
// seen-order set, and run the pipeline per order. A source failure degrades
// the pass to zero candidates; a per-order failure never aborts the rest of
// the pass. RunPass itself never returns an error.
func (o *Orchestrator) RunPass(ctx context.Context) domain.PassSummary {
	summary := domain.PassSummary{
		PassID:    uuid.New(),
		StartedAt: time.Now(),
	}
	log := o.logger.With(zap.String("pass_id", summary.PassID.String()))

	log.Info("Checking for orders needing fulfillment",
		zap.Duration("lookback", o.config.Lookback))

	candidates, err := o.fetchCandidates(ctx)
	if err != nil {
		log.Error("Order source failed, skipping pass", zap.Error(err))
		summary.SourceErr = err
		summary.CompletedAt = time.Now()
		o.recordPass(ctx, log, summary)
		return summary
	}

	summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		log.Info("No orders need fulfillment")
		summary.CompletedAt = time.Now()
		o.recordPass(ctx, log, summary)
		return summary
	}

	log.Info("Found orders needing fulfillment", zap.Int("count", len(candidates)))

	// Source ordering is preserved; no re-sorting.
	for _, order := range candidates {
		result := o.processOrder(ctx, log, order)
		summary.Results = append(summary.Results, result)
		o.recordResult(ctx, log, summary.PassID, result)
	}

	summary.CompletedAt = time.Now()
	log.Info("Pass complete",
		zap.Int("candidates", summary.Candidates),
		zap.Int("processed", summary.Count(domain.OutcomeProcessed)),
		zap.Int("skipped", summary.Count(domain.OutcomeSkippedAlreadySeen)),
		zap.Int("failed_label", summary.Count(domain.OutcomeFailedLabel)),
		zap.Int("failed_slip", summary.Count(domain.OutcomeFailedSlip)),
		zap.Int("failed_print", summary.Count(domain.OutcomeFailedPrint)),
		zap.Duration("duration", summary.Duration()))

	o.recordPass(ctx, log, summary)
	return summary
}

// fetchCandidates asks the order source for candidates within the lookback
// window under a bounded timeout.
func (o *Orchestrator) fetchCandidates(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.StepTimeout)
	defer cancel()
	return o.source.FetchCandidateOrders(ctx, o.config.Lookback)
}

// processOrder runs the four-step pipeline for one order. Any error,
// including a panic in a collaborator, is contained here and converted to a
// failed outcome for this order only.
func (o *Orchestrator) processOrder(ctx context.Context, log *zap.Logger, order domain.Order) (result domain.OrderResult) {
	result = domain.OrderResult{
		OrderID:     order.ID,
		ProcessedAt: time.Now(),
	}
	log = log.With(zap.String("order_id", order.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while processing order, recording as label failure",
				zap.Any("panic", r))
			result.Outcome = domain.OutcomeFailedLabel
			result.Err = fmt.Errorf("panic while processing order %s: %v", order.ID, r)
			result.ProcessedAt = time.Now()
		}
	}()

	// Step a: dedup filter. This is the sole concurrency-safety mechanism
	// across passes, since the marketplace keeps offering an order until its
	// status flips.
	if o.seen.Contains(order.ID) {
		log.Info("Order already processed, skipping")
		result.Outcome = domain.OutcomeSkippedAlreadySeen
		return result
	}

	log.Info("Processing order",
		zap.String("buyer", order.BuyerUsername),
		zap.Int("items", order.ItemCount()))

	// Step b: acquire shipping label.
	label, err := o.acquireLabel(ctx, order)
	if err != nil {
		log.Error("Failed to acquire shipping label", zap.Error(err))
		result.Outcome = domain.OutcomeFailedLabel
		result.Err = err
		return result
	}
	result.LabelPath = label.DocumentPath

	// Step c: render packing slip. A failure here does not clean up or
	// refund the label; refund is an unimplemented capability of the label
	// acquirer's contract.
	slipPath, err := o.renderSlip(ctx, order)
	if err != nil {
		log.Error("Failed to render packing slip", zap.Error(err))
		result.Outcome = domain.OutcomeFailedSlip
		result.Err = err
		return result
	}
	result.SlipPath = slipPath

	// Step d: print label then slip, in that order.
	if err := o.printDocuments(ctx, []string{label.DocumentPath, slipPath}); err != nil {
		log.Error("Failed to print documents", zap.Error(err))
		result.Outcome = domain.OutcomeFailedPrint
		result.Err = err
		return result
	}

	// Step e: durable commit. Mark's persistence failure does not un-see the
	// order; it is logged inside the store and must not downgrade the outcome,
	// or the order would print twice on the next pass.
	if err := o.seen.Mark(order.ID); err != nil {
		log.Warn("Seen-order state may be stale on disk", zap.Error(err))
	}

	log.Info("Successfully processed order",
		zap.String("label", label.DocumentPath),
		zap.String("slip", slipPath),
		zap.String("tracking", label.TrackingNumber))
	result.Outcome = domain.OutcomeProcessed
	return result
}

func (o *Orchestrator) acquireLabel(ctx context.Context, order domain.Order) (*domain.LabelArtifact, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.StepTimeout)
	defer cancel()
	label, err := o.labels.Acquire(ctx, order)
	if err != nil {
		return nil, err
	}
	if label == nil || label.DocumentPath == "" {
		return nil, domain.ErrLabelAcquisitionFailed
	}
	return label, nil
}

func (o *Orchestrator) renderSlip(ctx context.Context, order domain.Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.StepTimeout)
	defer cancel()
	path, err := o.slips.RenderSlip(ctx, order)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", domain.ErrSlipRenderFailed
	}
	return path, nil
}

func (o *Orchestrator) printDocuments(ctx context.Context, paths []string) error {
	ctx, cancel := context.WithTimeout(ctx, o.config.StepTimeout)
	defer cancel()
	return o.printer.PrintDocuments(ctx, paths)
}

// recordResult journals one order result. Journal failures are logged only.
func (o *Orchestrator) recordResult(ctx context.Context, log *zap.Logger, passID uuid.UUID, result domain.OrderResult) {
	if o.journal == nil {
		return
	}
	if err := o.journal.RecordResult(ctx, passID.String(), result); err != nil {
		log.Warn("Failed to journal order result",
			zap.String("order_id", result.OrderID),
			zap.Error(err))
	}
}

// recordPass journals the pass summary. Journal failures are logged only.
func (o *Orchestrator) recordPass(ctx context.Context, log *zap.Logger, summary domain.PassSummary) {
	if o.journal == nil {
		return
	}
	if err := o.journal.RecordPass(ctx, summary); err != nil {
		log.Warn("Failed to journal pass summary", zap.Error(err))
	}
}
