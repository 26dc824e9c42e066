package fulfillment

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// FulfillmentStatus represents how far an order's fulfillment has progressed
// on the marketplace
// ---------------------------------------------------------------------------

// FulfillmentStatus represents how far an order's fulfillment has progressed
// on the marketplace
type FulfillmentStatus string

const (
	// FulfillmentStatusNotStarted indicates nothing has shipped yet
	FulfillmentStatusNotStarted FulfillmentStatus = "NOT_STARTED"
	// FulfillmentStatusInProgress indicates part of the order has shipped
	FulfillmentStatusInProgress FulfillmentStatus = "IN_PROGRESS"
	// FulfillmentStatusFulfilled indicates the whole order has shipped
	FulfillmentStatusFulfilled FulfillmentStatus = "FULFILLED"
)

// IsValid returns true if the status is a known marketplace fulfillment status
func (s FulfillmentStatus) IsValid() bool {
	switch s {
	case FulfillmentStatusNotStarted, FulfillmentStatusInProgress, FulfillmentStatusFulfilled:
		return true
	default:
		return false
	}
}

// String returns the string representation of FulfillmentStatus
func (s FulfillmentStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// Address is the shipping destination for an order.
type Address struct {
	// Name is the recipient's name
	Name string
	// Street1 is the first address line
	Street1 string
	// Street2 is the second address line (optional)
	Street2 string
	// City is the destination city
	City string
	// StateOrProvince is the destination state or province
	StateOrProvince string
	// PostalCode is the postal code
	PostalCode string
	// CountryCode is the ISO country code
	CountryCode string
	// Phone is the recipient's phone number (optional)
	Phone string
}

// IsEmpty returns true if the address carries no usable destination
func (a Address) IsEmpty() bool {
	return a.Name == "" && a.Street1 == "" && a.City == "" && a.PostalCode == ""
}

// LineItem is a single purchased item within an order.
type LineItem struct {
	// ItemID is the marketplace listing/item ID
	ItemID string
	// SKU is the seller's SKU for the item (optional)
	SKU string
	// Title is the listing title
	Title string
	// Quantity is the purchased quantity
	Quantity int
	// UnitPrice is the price per unit
	UnitPrice decimal.Decimal
	// Currency is the price currency (default: USD)
	Currency string
}

// TotalPrice returns the extended price for the line (unit price * quantity)
func (li LineItem) TotalPrice() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order represents a marketplace order as it flows through the fulfillment
// pipeline. Orders are read-only once constructed; no pipeline component
// mutates them.
type Order struct {
	// ID is the opaque marketplace order identifier (the dedup key)
	ID string
	// FulfillmentStatus is the order's marketplace fulfillment status
	FulfillmentStatus FulfillmentStatus
	// BuyerUsername is the buyer's marketplace username
	BuyerUsername string
	// ShippingAddress is where the order ships to
	ShippingAddress Address
	// LineItems are the purchased items
	LineItems []LineItem
	// Total is the amount the buyer paid, including shipping
	Total decimal.Decimal
	// Currency is the order currency (default: USD)
	Currency string
	// CreatedAt is when the order was placed on the marketplace
	CreatedAt time.Time
	// PaidAt is when payment cleared, if known
	PaidAt *time.Time
	// ShippedAt is when the order was shipped, nil while unshipped
	ShippedAt *time.Time
}

// NeedsFulfillment returns true when the order is waiting on us: fulfillment
// has not started and nothing has shipped. Once a label is bought and printed
// the marketplace flips the status and the order drops out of this filter.
func (o Order) NeedsFulfillment() bool {
	return o.FulfillmentStatus == FulfillmentStatusNotStarted && o.ShippedAt == nil
}

// Validate checks that the order carries the fields the pipeline depends on.
// Missing fields are rejected explicitly rather than surfacing later as
// half-rendered documents.
func (o Order) Validate() error {
	if o.ID == "" {
		return ErrMissingOrderID
	}
	if o.ShippingAddress.IsEmpty() {
		return ErrMissingAddress
	}
	if len(o.LineItems) == 0 {
		return ErrNoLineItems
	}
	return nil
}

// ItemCount returns the total number of units across all line items
func (o Order) ItemCount() int {
	count := 0
	for _, li := range o.LineItems {
		count += li.Quantity
	}
	return count
}
