// Package labels contains LabelAcquirer adapters. The real eBay purchase
// flow is not implemented; the stub acquirer keeps the rest of the pipeline
// exercisable without spending money on postage.
package labels

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// ProviderCode identifies a label acquirer implementation
type ProviderCode string

const (
	// ProviderCodeEbay is the eBay shipping-label purchase flow
	ProviderCodeEbay ProviderCode = "ebay"
	// ProviderCodeStub fabricates placeholder labels for dry runs
	ProviderCodeStub ProviderCode = "stub"
)

// IsValid returns true if the provider code is known
func (c ProviderCode) IsValid() bool {
	switch c {
	case ProviderCodeEbay, ProviderCodeStub:
		return true
	default:
		return false
	}
}

// EbayLabelService is the eBay label acquirer. Purchasing and refunding
// labels through the Sell Logistics API is not implemented yet; every
// acquisition fails and the order is re-offered on the next pass.
type EbayLabelService struct {
	logger *zap.Logger
}

// NewEbayLabelService creates the eBay label acquirer.
func NewEbayLabelService(logger *zap.Logger) *EbayLabelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EbayLabelService{logger: logger}
}

// Acquire reports that label purchase is not implemented.
// TODO: wire the Sell Logistics create_shipping_quote/purchase flow once the
// seller account is approved for API label purchase.
func (s *EbayLabelService) Acquire(ctx context.Context, order fulfillment.Order) (*fulfillment.LabelArtifact, error) {
	s.logger.Info("Label purchase requested",
		zap.String("order_id", order.ID))
	return nil, fulfillment.ErrLabelPurchaseNotImplemented
}

// Refund reports that label refunds are not implemented.
func (s *EbayLabelService) Refund(ctx context.Context, fulfillmentID string) error {
	s.logger.Info("Label refund requested",
		zap.String("fulfillment_id", fulfillmentID))
	return fmt.Errorf("%w: fulfillment %s",
		fulfillment.ErrLabelRefundNotImplemented, fulfillmentID)
}
