package fulfillment

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Label Artifact
// ---------------------------------------------------------------------------

// LabelArtifact is the result of acquiring a shipping label for an order.
type LabelArtifact struct {
	// DocumentPath is the filesystem path to the printable label PDF
	DocumentPath string
	// Carrier is the shipping carrier (e.g. USPS)
	Carrier string
	// TrackingNumber is the carrier tracking number
	TrackingNumber string
	// FulfillmentID is the marketplace fulfillment identifier, used for refunds
	FulfillmentID string
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// OrderSource yields candidate orders needing fulfillment for a bounded
// recent time window. Implementations live in infrastructure/marketplace.
type OrderSource interface {
	// FetchCandidateOrders returns orders created within the lookback window
	// that still need fulfillment, in the order the marketplace returned
	// them. A returned error means zero candidates for this pass; the caller
	// logs it and waits for the next pass.
	FetchCandidateOrders(ctx context.Context, lookback time.Duration) ([]Order, error)
}

// LabelAcquirer obtains a shipping label for an order. No implicit retry:
// a failed acquisition is reported once and the order is re-offered on the
// next pass.
type LabelAcquirer interface {
	// Acquire buys (or fabricates, in stub mode) a shipping label and
	// returns the printable artifact.
	Acquire(ctx context.Context, order Order) (*LabelArtifact, error)

	// Refund releases a previously purchased label. Carried from the
	// marketplace contract; the eBay implementation does not support it yet.
	Refund(ctx context.Context, fulfillmentID string) error
}

// SlipRenderer produces a printable packing slip document for an order.
type SlipRenderer interface {
	// RenderSlip renders the packing slip and returns the document path.
	RenderSlip(ctx context.Context, order Order) (string, error)
}

// PrintSink sends documents to the physical printer. In dry-run mode it logs
// intended prints and reports success without touching a device.
type PrintSink interface {
	// PrintDocuments prints the documents in the given order. It returns an
	// error if any document failed to print.
	PrintDocuments(ctx context.Context, paths []string) error
}

// SeenOrderStore is the durable set of fully processed order identifiers.
// It is owned by a single logical thread of control; the single-pass
// scheduling model means no locking is needed by callers.
type SeenOrderStore interface {
	// Contains reports whether the order ID has already been processed.
	Contains(id string) bool

	// Mark inserts the ID into the in-memory set and persists the whole set
	// synchronously. A persistence failure does not roll back the in-memory
	// insert: the ID stays seen for the rest of the process lifetime and the
	// failure is only logged. Mark is idempotent.
	Mark(id string) error

	// Size returns the number of seen order IDs.
	Size() int
}

// PassJournal records per-order outcomes and pass summaries for operator
// visibility. Journal failures must never fail a pass.
type PassJournal interface {
	// RecordResult appends one order result for the given pass.
	RecordResult(ctx context.Context, passID string, result OrderResult) error

	// RecordPass appends the pass summary once the pass completes.
	RecordPass(ctx context.Context, summary PassSummary) error
}
