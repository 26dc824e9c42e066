package marketplace

// ---------------------------------------------------------------------------
// OAuth Types
// ---------------------------------------------------------------------------

// ebayTokenResponse is the response from the OAuth token endpoint
type ebayTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ebayErrorResponse is the error envelope the Sell APIs return
type ebayErrorResponse struct {
	Errors []ebayAPIError `json:"errors"`
}

// ebayAPIError is a single error entry from the Sell APIs
type ebayAPIError struct {
	ErrorID  int    `json:"errorId"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Message  string `json:"message"`
	LongMsg  string `json:"longMessage"`
}

// ---------------------------------------------------------------------------
// Sell Fulfillment API Order Types
// ---------------------------------------------------------------------------

// ebayOrderSearchResponse is the response for GET /sell/fulfillment/v1/order
type ebayOrderSearchResponse struct {
	Href   string      `json:"href"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Next   string      `json:"next"`
	Orders []ebayOrder `json:"orders"`
}

// ebayOrder is an order as returned by the Sell Fulfillment API
type ebayOrder struct {
	OrderID                string                         `json:"orderId"`
	CreationDate           string                         `json:"creationDate"`
	OrderFulfillmentStatus string                         `json:"orderFulfillmentStatus"`
	OrderPaymentStatus     string                         `json:"orderPaymentStatus"`
	Buyer                  ebayBuyer                      `json:"buyer"`
	PricingSummary         ebayPricingSummary             `json:"pricingSummary"`
	LineItems              []ebayLineItem                 `json:"lineItems"`
	FulfillmentStartList   []ebayFulfillmentStartInstruct `json:"fulfillmentStartInstructions"`
}

// ebayBuyer identifies the purchasing account
type ebayBuyer struct {
	Username string `json:"username"`
}

// ebayAmount is a currency amount
type ebayAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ebayPricingSummary is the order's pricing breakdown
type ebayPricingSummary struct {
	Total        ebayAmount `json:"total"`
	PriceSubtotal ebayAmount `json:"priceSubtotal"`
	DeliveryCost ebayAmount `json:"deliveryCost"`
}

// ebayLineItem is a purchased line within an order
type ebayLineItem struct {
	LineItemID string     `json:"lineItemId"`
	LegacyItemID string   `json:"legacyItemId"`
	SKU        string     `json:"sku"`
	Title      string     `json:"title"`
	Quantity   int        `json:"quantity"`
	LineItemCost ebayAmount `json:"lineItemCost"`
}

// ebayFulfillmentStartInstruct carries the shipping step for an order
type ebayFulfillmentStartInstruct struct {
	ShippingStep ebayShippingStep `json:"shippingStep"`
	MinEstimatedDeliveryDate string `json:"minEstimatedDeliveryDate"`
}

// ebayShippingStep carries the ship-to contact
type ebayShippingStep struct {
	ShipTo ebayShipTo `json:"shipTo"`
}

// ebayShipTo is the shipping destination contact
type ebayShipTo struct {
	FullName       string             `json:"fullName"`
	ContactAddress ebayContactAddress `json:"contactAddress"`
	PrimaryPhone   ebayPhone          `json:"primaryPhone"`
}

// ebayContactAddress is the structured destination address
type ebayContactAddress struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	CountryCode     string `json:"countryCode"`
}

// ebayPhone is a phone number
type ebayPhone struct {
	PhoneNumber string `json:"phoneNumber"`
}
