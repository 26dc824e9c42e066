package packing

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/documents"
)

// =============================================================================
// Template function tests
// =============================================================================

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		currency string
		want     string
	}{
		{"usd with symbol", decimal.NewFromFloat(1234.56), "USD", "$1,234.56"},
		{"gbp with symbol", decimal.NewFromFloat(9.99), "GBP", "£9.99"},
		{"unknown code suffixed", decimal.NewFromFloat(42.5), "SEK", "42.50 SEK"},
		{"negative", decimal.NewFromFloat(-10), "USD", "$-10.00"},
		{"empty currency", decimal.NewFromInt(7), "", "7.00"},
		{"string input", "3.5", "USD", "$3.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.value, tt.currency))
		})
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-01", formatDate(ts))
	assert.Equal(t, "2025-06-01 12:30:00", formatDateTime(ts))
	assert.Equal(t, "", formatDate(time.Time{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long product title", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestRenderString(t *testing.T) {
	engine := NewTemplateEngine()

	out, err := engine.RenderString("t", "Hello {{upper .Name}}", map[string]string{"Name": "pat"})
	require.NoError(t, err)
	assert.Equal(t, "Hello PAT", out)

	_, err = engine.RenderString("t", "", nil)
	assert.Error(t, err)

	_, err = engine.RenderString("t", "{{.Broken", nil)
	assert.Error(t, err)
}

// =============================================================================
// Slip renderer tests
// =============================================================================

// fakePDFRenderer captures the HTML it was asked to render and returns a
// canned PDF without invoking wkhtmltopdf.
type fakePDFRenderer struct {
	lastRequest *RenderRequest
	err         error
}

func (f *fakePDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4 fake")}, nil
}

func (f *fakePDFRenderer) Close() error { return nil }

func slipTestOrder() fulfillment.Order {
	return fulfillment.Order{
		ID:                "17-09876-54321",
		FulfillmentStatus: fulfillment.FulfillmentStatusNotStarted,
		BuyerUsername:     "buyer_pat",
		ShippingAddress: fulfillment.Address{
			Name:            "Pat Example",
			Street1:         "1 Main St",
			Street2:         "Apt 4",
			City:            "Springfield",
			StateOrProvince: "IL",
			PostalCode:      "62701",
			CountryCode:     "US",
		},
		LineItems: []fulfillment.LineItem{
			{ItemID: "110001", SKU: "WID-1", Title: "Widget", Quantity: 2,
				UnitPrice: decimal.NewFromFloat(4.99), Currency: "USD"},
			{ItemID: "110002", Title: "Gadget", Quantity: 1,
				UnitPrice: decimal.NewFromFloat(12.50), Currency: "USD"},
		},
		Total:     decimal.NewFromFloat(22.48),
		Currency:  "USD",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newSlipTestStore(t *testing.T) documents.Store {
	t.Helper()
	store, err := documents.NewFileSystemStore(&documents.FileSystemStoreConfig{
		BasePath: t.TempDir(),
	})
	require.NoError(t, err)
	return store
}

func TestRenderSlip(t *testing.T) {
	fake := &fakePDFRenderer{}
	renderer := NewPackingSlipRenderer(fake, newSlipTestStore(t), &SlipRendererConfig{
		Logger: zap.NewNop(),
	})

	path, err := renderer.RenderSlip(context.Background(), slipTestOrder())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "packing_slip_17-09876-54321.pdf")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))

	// The HTML handed to the PDF renderer carries the order content
	require.NotNil(t, fake.lastRequest)
	html := fake.lastRequest.HTML
	assert.Contains(t, html, "17-09876-54321")
	assert.Contains(t, html, "Pat Example")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "Gadget")
	assert.Contains(t, html, "SKU WID-1")
	assert.Contains(t, html, "$22.48")
	assert.Contains(t, html, "data:image/png;base64,")

	// 4x6 inch label stock
	assert.InDelta(t, 101.6, fake.lastRequest.PageWidthMM, 0.01)
	assert.InDelta(t, 152.4, fake.lastRequest.PageHeightMM, 0.01)
}

func TestRenderSlip_LineItemTotals(t *testing.T) {
	fake := &fakePDFRenderer{}
	renderer := NewPackingSlipRenderer(fake, newSlipTestStore(t), nil)

	_, err := renderer.RenderSlip(context.Background(), slipTestOrder())
	require.NoError(t, err)

	// 2 x 4.99 for the first line
	assert.Contains(t, fake.lastRequest.HTML, "$9.98")
}

func TestRenderSlip_InvalidOrder(t *testing.T) {
	fake := &fakePDFRenderer{}
	renderer := NewPackingSlipRenderer(fake, newSlipTestStore(t), nil)

	order := slipTestOrder()
	order.ID = ""
	_, err := renderer.RenderSlip(context.Background(), order)
	assert.ErrorIs(t, err, fulfillment.ErrSlipRenderFailed)
	assert.Nil(t, fake.lastRequest)
}

func TestRenderSlip_PDFFailure(t *testing.T) {
	fake := &fakePDFRenderer{err: errors.New("binary exploded")}
	renderer := NewPackingSlipRenderer(fake, newSlipTestStore(t), nil)

	_, err := renderer.RenderSlip(context.Background(), slipTestOrder())
	assert.ErrorIs(t, err, fulfillment.ErrSlipRenderFailed)
	assert.Contains(t, err.Error(), "binary exploded")
}

func TestRenderSlip_CustomTemplate(t *testing.T) {
	fake := &fakePDFRenderer{}
	renderer := NewPackingSlipRenderer(fake, newSlipTestStore(t), &SlipRendererConfig{
		Template: "ORDER {{.OrderID}} ONLY",
	})

	_, err := renderer.RenderSlip(context.Background(), slipTestOrder())
	require.NoError(t, err)
	assert.Equal(t, "ORDER 17-09876-54321 ONLY", fake.lastRequest.HTML)
}

// =============================================================================
// wkhtmltopdf argument tests
// =============================================================================

func TestBuildArgs(t *testing.T) {
	r := &WkhtmltopdfRenderer{
		config: &WkhtmltopdfConfig{DPI: 203},
		logger: zap.NewNop(),
	}

	args := r.buildArgs(&RenderRequest{
		HTML:         "<html></html>",
		PageWidthMM:  slipPageWidthMM,
		PageHeightMM: slipPageHeightMM,
		MarginMM:     4,
		Title:        "Packing slip X",
	}, "in.html", "out.pdf")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "--page-width 101.6mm")
	assert.Contains(t, joined, "--page-height 152.4mm")
	assert.Contains(t, joined, "--margin-top 4mm")
	assert.Contains(t, joined, "--disable-smart-shrinking")
	assert.Contains(t, joined, "--disable-javascript")
	assert.Contains(t, joined, "--title Packing slip X")
	assert.Equal(t, "in.html", args[len(args)-2])
	assert.Equal(t, "out.pdf", args[len(args)-1])
}

func TestWkhtmltopdfRenderer_InvalidRequest(t *testing.T) {
	r := &WkhtmltopdfRenderer{
		config: &WkhtmltopdfConfig{DefaultTimeout: time.Second, TempDir: t.TempDir()},
		logger: zap.NewNop(),
	}

	_, err := r.Render(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "  "})
	assert.Error(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>"})
	assert.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPage, renderErr.Code)
}
