package fulfillment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutcome_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		outcome  Outcome
		expected bool
	}{
		{"processed", OutcomeProcessed, true},
		{"skipped", OutcomeSkippedAlreadySeen, true},
		{"failed label", OutcomeFailedLabel, true},
		{"failed slip", OutcomeFailedSlip, true},
		{"failed print", OutcomeFailedPrint, true},
		{"unknown", Outcome("EXPLODED"), false},
		{"empty", Outcome(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.outcome.IsValid())
		})
	}
}

func TestOutcome_IsFailure(t *testing.T) {
	assert.False(t, OutcomeProcessed.IsFailure())
	assert.False(t, OutcomeSkippedAlreadySeen.IsFailure())
	assert.True(t, OutcomeFailedLabel.IsFailure())
	assert.True(t, OutcomeFailedSlip.IsFailure())
	assert.True(t, OutcomeFailedPrint.IsFailure())
}

func TestPassSummary_Count(t *testing.T) {
	summary := PassSummary{
		PassID:      uuid.New(),
		StartedAt:   time.Now().Add(-2 * time.Second),
		CompletedAt: time.Now(),
		Candidates:  4,
		Results: []OrderResult{
			{OrderID: "a", Outcome: OutcomeProcessed},
			{OrderID: "b", Outcome: OutcomeProcessed},
			{OrderID: "c", Outcome: OutcomeFailedPrint, Err: errors.New("jam")},
			{OrderID: "d", Outcome: OutcomeSkippedAlreadySeen},
		},
	}

	assert.Equal(t, 2, summary.Count(OutcomeProcessed))
	assert.Equal(t, 1, summary.Count(OutcomeFailedPrint))
	assert.Equal(t, 1, summary.Count(OutcomeSkippedAlreadySeen))
	assert.Equal(t, 0, summary.Count(OutcomeFailedLabel))
	assert.Positive(t, summary.Duration())
}
