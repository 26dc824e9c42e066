package journal

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// PassModel is the database row for one completed polling pass
type PassModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	StartedAt   time.Time `gorm:"not null;index"`
	CompletedAt time.Time `gorm:"not null"`
	Candidates  int       `gorm:"not null"`
	Processed   int       `gorm:"not null"`
	Skipped     int       `gorm:"not null"`
	FailedLabel int       `gorm:"not null"`
	FailedSlip  int       `gorm:"not null"`
	FailedPrint int       `gorm:"not null"`
	SourceError string    `gorm:"size:1024"`
}

// TableName returns the table name for PassModel
func (PassModel) TableName() string {
	return "passes"
}

// OrderResultModel is the database row for one order outcome within a pass
type OrderResultModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	PassID      string    `gorm:"size:36;index;not null"`
	OrderID     string    `gorm:"size:64;index;not null"`
	Outcome     string    `gorm:"size:32;not null"`
	Error       string    `gorm:"size:1024"`
	LabelPath   string    `gorm:"size:512"`
	SlipPath    string    `gorm:"size:512"`
	ProcessedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for OrderResultModel
func (OrderResultModel) TableName() string {
	return "order_results"
}

// PassEntry is the read model returned to status consumers
type PassEntry struct {
	PassID      string    `json:"pass_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Candidates  int       `json:"candidates"`
	Processed   int       `json:"processed"`
	Skipped     int       `json:"skipped"`
	FailedLabel int       `json:"failed_label"`
	FailedSlip  int       `json:"failed_slip"`
	FailedPrint int       `json:"failed_print"`
	SourceError string    `json:"source_error,omitempty"`
}

// ResultEntry is the read model for one journalled order outcome
type ResultEntry struct {
	PassID      string    `json:"pass_id"`
	OrderID     string    `json:"order_id"`
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	LabelPath   string    `json:"label_path,omitempty"`
	SlipPath    string    `json:"slip_path,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// toPassModel maps a pass summary onto its database row.
func toPassModel(summary fulfillment.PassSummary) PassModel {
	model := PassModel{
		ID:          summary.PassID.String(),
		StartedAt:   summary.StartedAt,
		CompletedAt: summary.CompletedAt,
		Candidates:  summary.Candidates,
		Processed:   summary.Count(fulfillment.OutcomeProcessed),
		Skipped:     summary.Count(fulfillment.OutcomeSkippedAlreadySeen),
		FailedLabel: summary.Count(fulfillment.OutcomeFailedLabel),
		FailedSlip:  summary.Count(fulfillment.OutcomeFailedSlip),
		FailedPrint: summary.Count(fulfillment.OutcomeFailedPrint),
	}
	if summary.SourceErr != nil {
		model.SourceError = summary.SourceErr.Error()
	}
	return model
}

// toResultModel maps an order result onto its database row.
func toResultModel(passID string, result fulfillment.OrderResult) OrderResultModel {
	model := OrderResultModel{
		PassID:      passID,
		OrderID:     result.OrderID,
		Outcome:     result.Outcome.String(),
		LabelPath:   result.LabelPath,
		SlipPath:    result.SlipPath,
		ProcessedAt: result.ProcessedAt,
	}
	if result.Err != nil {
		model.Error = result.Err.Error()
	}
	return model
}

// toPassEntry maps a database row onto the read model.
func (m PassModel) toPassEntry() PassEntry {
	return PassEntry{
		PassID:      m.ID,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
		Candidates:  m.Candidates,
		Processed:   m.Processed,
		Skipped:     m.Skipped,
		FailedLabel: m.FailedLabel,
		FailedSlip:  m.FailedSlip,
		FailedPrint: m.FailedPrint,
		SourceError: m.SourceError,
	}
}

// toResultEntry maps a database row onto the read model.
func (m OrderResultModel) toResultEntry() ResultEntry {
	return ResultEntry{
		PassID:      m.PassID,
		OrderID:     m.OrderID,
		Outcome:     m.Outcome,
		Error:       m.Error,
		LabelPath:   m.LabelPath,
		SlipPath:    m.SlipPath,
		ProcessedAt: m.ProcessedAt,
	}
}
