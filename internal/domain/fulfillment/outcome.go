package fulfillment

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Outcome represents the per-order result of one pipeline run
// ---------------------------------------------------------------------------

// Outcome represents the per-order result of one pipeline run
type Outcome string

const (
	// OutcomeProcessed indicates the full pipeline succeeded and the order was marked seen
	OutcomeProcessed Outcome = "PROCESSED"
	// OutcomeSkippedAlreadySeen indicates the order was filtered out by the seen-order set
	OutcomeSkippedAlreadySeen Outcome = "SKIPPED_ALREADY_SEEN"
	// OutcomeFailedLabel indicates label acquisition failed
	OutcomeFailedLabel Outcome = "FAILED_LABEL"
	// OutcomeFailedSlip indicates packing slip rendering failed
	OutcomeFailedSlip Outcome = "FAILED_SLIP"
	// OutcomeFailedPrint indicates printing failed
	OutcomeFailedPrint Outcome = "FAILED_PRINT"
)

// IsValid returns true if the outcome is a defined pipeline result
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeProcessed, OutcomeSkippedAlreadySeen,
		OutcomeFailedLabel, OutcomeFailedSlip, OutcomeFailedPrint:
		return true
	default:
		return false
	}
}

// String returns the string representation of Outcome
func (o Outcome) String() string {
	return string(o)
}

// IsFailure returns true for outcomes that leave the order eligible for the
// next pass
func (o Outcome) IsFailure() bool {
	switch o {
	case OutcomeFailedLabel, OutcomeFailedSlip, OutcomeFailedPrint:
		return true
	default:
		return false
	}
}

// OrderResult captures what happened to a single order within a pass.
type OrderResult struct {
	// OrderID is the marketplace order identifier
	OrderID string
	// Outcome is the pipeline result for this order
	Outcome Outcome
	// Err holds the failure that produced a failed outcome, nil otherwise
	Err error
	// LabelPath is the label document path, when a label was acquired
	LabelPath string
	// SlipPath is the packing slip document path, when one was rendered
	SlipPath string
	// ProcessedAt is when the result was recorded
	ProcessedAt time.Time
}

// PassSummary aggregates one discovery-and-processing pass.
type PassSummary struct {
	// PassID uniquely identifies the pass
	PassID uuid.UUID
	// StartedAt is when the pass began
	StartedAt time.Time
	// CompletedAt is when the pass finished
	CompletedAt time.Time
	// Candidates is how many orders the source returned
	Candidates int
	// Results holds the per-order results in processing order
	Results []OrderResult
	// SourceErr holds the order-source failure when the pass degraded to
	// zero candidates, nil otherwise
	SourceErr error
}

// Duration returns how long the pass took
func (s PassSummary) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// Count returns the number of results with the given outcome
func (s PassSummary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}
