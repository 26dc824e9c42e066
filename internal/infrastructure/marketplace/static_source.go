package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// staticOrderFile is the on-disk shape consumed by the static source.
type staticOrderFile struct {
	Orders []staticOrder `json:"orders"`
}

type staticOrder struct {
	OrderID           string           `json:"order_id"`
	FulfillmentStatus string           `json:"fulfillment_status"`
	BuyerUsername     string           `json:"buyer_username"`
	CreatedAt         time.Time        `json:"created_at"`
	Total             string           `json:"total"`
	Currency          string           `json:"currency"`
	ShipTo            staticAddress    `json:"ship_to"`
	LineItems         []staticLineItem `json:"line_items"`
}

type staticAddress struct {
	Name            string `json:"name"`
	Street1         string `json:"street1"`
	Street2         string `json:"street2"`
	City            string `json:"city"`
	StateOrProvince string `json:"state"`
	PostalCode      string `json:"postal_code"`
	CountryCode     string `json:"country"`
	Phone           string `json:"phone"`
}

type staticLineItem struct {
	ItemID    string `json:"item_id"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// StaticSource reads candidate orders from a JSON file. It exists for dry
// runs and local development where no marketplace credentials are available.
type StaticSource struct {
	path   string
	logger *zap.Logger
}

// NewStaticSource creates a file-backed order source.
func NewStaticSource(path string, logger *zap.Logger) *StaticSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaticSource{path: path, logger: logger}
}

// ProviderCode returns the provider code this source handles
func (s *StaticSource) ProviderCode() ProviderCode {
	return ProviderCodeStatic
}

// FetchCandidateOrders returns the file's orders that fall inside the
// lookback window and still need fulfillment.
func (s *StaticSource) FetchCandidateOrders(ctx context.Context, lookback time.Duration) ([]fulfillment.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceUnavailable, err)
	}

	var file staticOrderFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceInvalidResponse, err)
	}

	cutoff := time.Now().Add(-lookback)
	var candidates []fulfillment.Order
	for _, raw := range file.Orders {
		order := convertStaticOrder(raw)
		if !order.CreatedAt.IsZero() && order.CreatedAt.Before(cutoff) {
			continue
		}
		if !order.NeedsFulfillment() {
			continue
		}
		candidates = append(candidates, order)
	}

	s.logger.Info("Loaded static orders",
		zap.String("path", s.path),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func convertStaticOrder(raw staticOrder) fulfillment.Order {
	order := fulfillment.Order{
		ID:                raw.OrderID,
		FulfillmentStatus: fulfillment.FulfillmentStatus(raw.FulfillmentStatus),
		BuyerUsername:     raw.BuyerUsername,
		Currency:          raw.Currency,
		CreatedAt:         raw.CreatedAt,
		ShippingAddress: fulfillment.Address{
			Name:            raw.ShipTo.Name,
			Street1:         raw.ShipTo.Street1,
			Street2:         raw.ShipTo.Street2,
			City:            raw.ShipTo.City,
			StateOrProvince: raw.ShipTo.StateOrProvince,
			PostalCode:      raw.ShipTo.PostalCode,
			CountryCode:     raw.ShipTo.CountryCode,
			Phone:           raw.ShipTo.Phone,
		},
	}
	if order.FulfillmentStatus == "" {
		order.FulfillmentStatus = fulfillment.FulfillmentStatusNotStarted
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}
	if total, err := decimal.NewFromString(raw.Total); err == nil {
		order.Total = total
	}
	for _, li := range raw.LineItems {
		item := fulfillment.LineItem{
			ItemID:   li.ItemID,
			SKU:      li.SKU,
			Title:    li.Title,
			Quantity: li.Quantity,
			Currency: order.Currency,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if price, err := decimal.NewFromString(li.UnitPrice); err == nil {
			item.UnitPrice = price
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order
}
