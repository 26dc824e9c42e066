package fulfillment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// FulfillmentStatus Tests
// ---------------------------------------------------------------------------

func TestFulfillmentStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   FulfillmentStatus
		expected bool
	}{
		{"Not started valid", FulfillmentStatusNotStarted, true},
		{"In progress valid", FulfillmentStatusInProgress, true},
		{"Fulfilled valid", FulfillmentStatusFulfilled, true},
		{"Invalid status", FulfillmentStatus("SHIPPED"), false},
		{"Empty status", FulfillmentStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

// ---------------------------------------------------------------------------
// Order Tests
// ---------------------------------------------------------------------------

func validOrder() Order {
	return Order{
		ID:                "12-34567-89012",
		FulfillmentStatus: FulfillmentStatusNotStarted,
		BuyerUsername:     "buyer42",
		ShippingAddress: Address{
			Name:            "Pat Example",
			Street1:         "1 Main St",
			City:            "Springfield",
			StateOrProvince: "IL",
			PostalCode:      "62701",
			CountryCode:     "US",
		},
		LineItems: []LineItem{
			{ItemID: "110001", Title: "Widget", Quantity: 2, UnitPrice: decimal.NewFromFloat(9.99), Currency: "USD"},
		},
		Total:     decimal.NewFromFloat(24.99),
		Currency:  "USD",
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestOrder_NeedsFulfillment(t *testing.T) {
	shipped := time.Now()

	tests := []struct {
		name     string
		mutate   func(*Order)
		expected bool
	}{
		{"not started and unshipped", func(o *Order) {}, true},
		{"already shipped", func(o *Order) { o.ShippedAt = &shipped }, false},
		{"in progress", func(o *Order) { o.FulfillmentStatus = FulfillmentStatusInProgress }, false},
		{"fulfilled", func(o *Order) { o.FulfillmentStatus = FulfillmentStatusFulfilled }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(&order)
			assert.Equal(t, tt.expected, order.NeedsFulfillment())
		})
	}
}

func TestOrder_Validate(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		assert.NoError(t, validOrder().Validate())
	})

	t.Run("missing ID", func(t *testing.T) {
		order := validOrder()
		order.ID = ""
		assert.ErrorIs(t, order.Validate(), ErrMissingOrderID)
	})

	t.Run("empty address", func(t *testing.T) {
		order := validOrder()
		order.ShippingAddress = Address{}
		assert.ErrorIs(t, order.Validate(), ErrMissingAddress)
	})

	t.Run("no line items", func(t *testing.T) {
		order := validOrder()
		order.LineItems = nil
		assert.ErrorIs(t, order.Validate(), ErrNoLineItems)
	})
}

func TestOrder_ItemCount(t *testing.T) {
	order := validOrder()
	order.LineItems = append(order.LineItems, LineItem{ItemID: "110002", Title: "Gadget", Quantity: 3})
	assert.Equal(t, 5, order.ItemCount())
}

func TestLineItem_TotalPrice(t *testing.T) {
	li := LineItem{Quantity: 3, UnitPrice: decimal.NewFromFloat(2.50)}
	assert.True(t, li.TotalPrice().Equal(decimal.NewFromFloat(7.50)))
}

func TestAddress_IsEmpty(t *testing.T) {
	assert.True(t, Address{}.IsEmpty())
	assert.True(t, Address{Phone: "555-0100"}.IsEmpty())
	assert.False(t, Address{Name: "Pat Example"}.IsEmpty())
	assert.False(t, Address{PostalCode: "62701"}.IsEmpty())
}
