package labels

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/documents"
)

// StubLabelService fabricates placeholder shipping labels so the packing,
// printing and dedup stages can run end to end without a real carrier
// purchase. Selected via config for sandbox and dry-run setups.
type StubLabelService struct {
	store  documents.Store
	logger *zap.Logger

	counter int
}

// NewStubLabelService creates the stub label acquirer.
func NewStubLabelService(store documents.Store, logger *zap.Logger) *StubLabelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubLabelService{store: store, logger: logger}
}

// Acquire writes a placeholder label PDF for the order.
func (s *StubLabelService) Acquire(ctx context.Context, order fulfillment.Order) (*fulfillment.LabelArtifact, error) {
	if order.ID == "" {
		return nil, fulfillment.ErrMissingOrderID
	}

	s.counter++
	tracking := fmt.Sprintf("STUB%09d", s.counter)

	pdf := placeholderLabelPDF(order, tracking)
	path, err := s.store.Save(ctx, documents.CategoryLabels,
		fmt.Sprintf("label_%s.pdf", order.ID), pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrLabelAcquisitionFailed, err)
	}

	s.logger.Info("Fabricated placeholder shipping label",
		zap.String("order_id", order.ID),
		zap.String("tracking", tracking),
		zap.String("path", path))

	return &fulfillment.LabelArtifact{
		DocumentPath:   path,
		Carrier:        "STUB",
		TrackingNumber: tracking,
		FulfillmentID:  "stub-" + order.ID,
	}, nil
}

// Refund discards the placeholder; nothing was purchased.
func (s *StubLabelService) Refund(ctx context.Context, fulfillmentID string) error {
	s.logger.Info("Stub label refund is a no-op",
		zap.String("fulfillment_id", fulfillmentID))
	return nil
}

// placeholderLabelPDF emits a minimal single-page PDF with the destination
// and tracking number, enough for a printer to accept.
func placeholderLabelPDF(order fulfillment.Order, tracking string) []byte {
	lines := []string{
		"PLACEHOLDER SHIPPING LABEL",
		"Order: " + order.ID,
		"Tracking: " + tracking,
		"To: " + order.ShippingAddress.Name,
		order.ShippingAddress.Street1,
		strings.TrimSpace(order.ShippingAddress.City + " " +
			order.ShippingAddress.StateOrProvince + " " + order.ShippingAddress.PostalCode),
	}

	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 20 400 Td 16 TL\n")
	for _, line := range lines {
		content.WriteString(fmt.Sprintf("(%s) Tj T*\n", escapePDFText(line)))
	}
	content.WriteString("ET")

	stream := content.String()
	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, 5)
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	// 4x6 inch label page (288x432 points).
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 288 432] " +
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")
	writeObj("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")
	writeObj(fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(stream), stream))

	xrefStart := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1))
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf(
		"trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart))

	return []byte(buf.String())
}

// escapePDFText escapes the delimiters PDF text strings care about.
func escapePDFText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
