package journal

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

const defaultQueryLimit = 50

// GormPassJournal implements the pass journal using GORM
type GormPassJournal struct {
	db *gorm.DB
}

// NewGormPassJournal creates a new GormPassJournal
func NewGormPassJournal(db *gorm.DB) *GormPassJournal {
	return &GormPassJournal{db: db}
}

// RecordResult appends one order result for the given pass.
func (j *GormPassJournal) RecordResult(ctx context.Context, passID string, result fulfillment.OrderResult) error {
	model := toResultModel(passID, result)
	return j.db.WithContext(ctx).Create(&model).Error
}

// RecordPass appends the pass summary once the pass completes.
func (j *GormPassJournal) RecordPass(ctx context.Context, summary fulfillment.PassSummary) error {
	model := toPassModel(summary)
	return j.db.WithContext(ctx).Create(&model).Error
}

// RecentPasses returns the most recent passes, newest first.
func (j *GormPassJournal) RecentPasses(ctx context.Context, limit int) ([]PassEntry, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	var models []PassModel
	if err := j.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]PassEntry, len(models))
	for i, m := range models {
		entries[i] = m.toPassEntry()
	}
	return entries, nil
}

// RecentResults returns the most recent order outcomes, newest first.
func (j *GormPassJournal) RecentResults(ctx context.Context, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	var models []OrderResultModel
	if err := j.db.WithContext(ctx).
		Order("processed_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]ResultEntry, len(models))
	for i, m := range models {
		entries[i] = m.toResultEntry()
	}
	return entries, nil
}

// ResultsForOrder returns every journalled outcome for one order, newest
// first. Useful when tracing why an order was or was not shipped.
func (j *GormPassJournal) ResultsForOrder(ctx context.Context, orderID string) ([]ResultEntry, error) {
	var models []OrderResultModel
	if err := j.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("processed_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]ResultEntry, len(models))
	for i, m := range models {
		entries[i] = m.toResultEntry()
	}
	return entries, nil
}

// Ensure GormPassJournal implements the domain port
var _ fulfillment.PassJournal = (*GormPassJournal)(nil)
