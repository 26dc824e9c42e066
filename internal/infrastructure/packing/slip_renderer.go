// Package packing renders packing slips for outbound orders. An HTML
// template is bound to order data, converted to a 4x6 inch PDF through
// wkhtmltopdf and persisted alongside the shipping label.
package packing

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/documents"
)

const qrImageSize = 256

// slipShipTo is the destination block of the slip view model
type slipShipTo struct {
	Name            string
	Street1         string
	Street2         string
	City            string
	StateOrProvince string
	PostalCode      string
	CountryCode     string
}

// slipItem is one line of the slip view model
type slipItem struct {
	Title    string
	SKU      string
	Quantity int
	Total    decimal.Decimal
}

// slipData is the view model bound to the packing slip template
type slipData struct {
	OrderID       string
	CreatedAt     time.Time
	BuyerUsername string
	ShipTo        slipShipTo
	Items         []slipItem
	ItemCount     int
	Total         decimal.Decimal
	Currency      string
	QRDataURI     template.URL
	GeneratedAt   time.Time
}

// SlipRendererConfig contains configuration for the packing slip renderer
type SlipRendererConfig struct {
	// Template overrides the built-in slip layout. Empty uses the default.
	Template string
	// Logger for output
	Logger *zap.Logger
}

// PackingSlipRenderer produces packing slip PDFs for orders
type PackingSlipRenderer struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	store    documents.Store
	tmpl     string
	logger   *zap.Logger
}

// NewPackingSlipRenderer creates the packing slip renderer.
func NewPackingSlipRenderer(renderer PDFRenderer, store documents.Store, config *SlipRendererConfig) *PackingSlipRenderer {
	if config == nil {
		config = &SlipRendererConfig{}
	}
	tmpl := config.Template
	if tmpl == "" {
		tmpl = defaultSlipTemplate
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackingSlipRenderer{
		engine:   NewTemplateEngine(),
		renderer: renderer,
		store:    store,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// RenderSlip renders the packing slip for the order and returns the path of
// the stored PDF.
func (r *PackingSlipRenderer) RenderSlip(ctx context.Context, order fulfillment.Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrSlipRenderFailed, err)
	}

	html, err := r.engine.RenderString("packing_slip", r.tmpl, r.buildSlipData(order))
	if err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrSlipRenderFailed, err)
	}

	result, err := r.renderer.Render(ctx, &RenderRequest{
		HTML:         html,
		PageWidthMM:  slipPageWidthMM,
		PageHeightMM: slipPageHeightMM,
		MarginMM:     slipMarginMM,
		Title:        "Packing slip " + order.ID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrSlipRenderFailed, err)
	}

	path, err := r.store.Save(ctx, documents.CategoryPackingSlips,
		fmt.Sprintf("packing_slip_%s.pdf", order.ID), result.PDFData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrSlipRenderFailed, err)
	}

	r.logger.Info("Packing slip rendered",
		zap.String("order_id", order.ID),
		zap.String("path", path),
		zap.Int("bytes", len(result.PDFData)))

	return path, nil
}

// buildSlipData maps the order onto the template view model.
func (r *PackingSlipRenderer) buildSlipData(order fulfillment.Order) slipData {
	items := make([]slipItem, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, slipItem{
			Title:    li.Title,
			SKU:      li.SKU,
			Quantity: li.Quantity,
			Total:    li.TotalPrice(),
		})
	}

	data := slipData{
		OrderID:       order.ID,
		CreatedAt:     order.CreatedAt,
		BuyerUsername: order.BuyerUsername,
		ShipTo: slipShipTo{
			Name:            order.ShippingAddress.Name,
			Street1:         order.ShippingAddress.Street1,
			Street2:         order.ShippingAddress.Street2,
			City:            order.ShippingAddress.City,
			StateOrProvince: order.ShippingAddress.StateOrProvince,
			PostalCode:      order.ShippingAddress.PostalCode,
			CountryCode:     order.ShippingAddress.CountryCode,
		},
		Items:       items,
		ItemCount:   order.ItemCount(),
		Total:       order.Total,
		Currency:    order.Currency,
		GeneratedAt: time.Now(),
	}

	if uri, err := qrDataURI(order.ID); err != nil {
		// The slip is still usable without the scan code
		r.logger.Warn("Failed to generate order QR code",
			zap.String("order_id", order.ID),
			zap.Error(err))
	} else {
		data.QRDataURI = uri
	}

	return data
}

// qrDataURI encodes the order ID as a QR PNG data URI for inline embedding.
func qrDataURI(orderID string) (template.URL, error) {
	png, err := qrcode.Encode(orderID, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// Ensure PackingSlipRenderer implements the domain port
var _ fulfillment.SlipRenderer = (*PackingSlipRenderer)(nil)
