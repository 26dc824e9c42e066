package fulfillment

import "errors"

var (
	// Order errors
	ErrInvalidOrder   = errors.New("fulfillment: invalid order")
	ErrMissingOrderID = errors.New("fulfillment: order ID is required")
	ErrMissingAddress = errors.New("fulfillment: shipping address is required")
	ErrNoLineItems    = errors.New("fulfillment: order has no line items")

	// Marketplace errors
	ErrMarketplaceUnavailable     = errors.New("fulfillment: marketplace temporarily unavailable")
	ErrMarketplaceRequestFailed   = errors.New("fulfillment: marketplace request failed")
	ErrMarketplaceInvalidResponse = errors.New("fulfillment: invalid marketplace response")
	ErrMarketplaceAuthFailed      = errors.New("fulfillment: marketplace authentication failed")
	ErrMarketplaceNotConfigured   = errors.New("fulfillment: marketplace not configured")

	// Label errors
	ErrLabelPurchaseNotImplemented = errors.New("fulfillment: label purchase not implemented")
	ErrLabelAcquisitionFailed      = errors.New("fulfillment: label acquisition failed")
	ErrLabelRefundNotImplemented   = errors.New("fulfillment: label refund not implemented")

	// Packing slip errors
	ErrSlipRenderFailed = errors.New("fulfillment: packing slip rendering failed")

	// Printing errors
	ErrPrintFailed        = errors.New("fulfillment: printing failed")
	ErrDocumentNotFound   = errors.New("fulfillment: document not found")
	ErrPrinterUnreachable = errors.New("fulfillment: printer is not reachable")
)
