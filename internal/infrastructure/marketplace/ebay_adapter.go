// Package marketplace contains order-source adapters for external
// marketplaces. The earlier generations of this system grew several divergent
// marketplace clients; they are collapsed here into the single
// fulfillment.OrderSource port with one adapter per provider, selected by
// configuration.
package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// maxResponseSize is the maximum allowed response size from the eBay API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenExpirySlack is subtracted from the advertised token lifetime so a
// token is refreshed before it actually lapses mid-request.
const tokenExpirySlack = 60 * time.Second

// EbayAdapter implements fulfillment.OrderSource against the eBay Sell
// Fulfillment API.
type EbayAdapter struct {
	config     *EbayConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex // guards the cached access token
	accessToken string
	tokenExpiry time.Time
}

// NewEbayAdapter creates a new eBay order-source adapter with the given
// configuration.
func NewEbayAdapter(config *EbayConfig, logger *zap.Logger) (*EbayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EbayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// ProviderCode returns the provider code this adapter handles
func (a *EbayAdapter) ProviderCode() ProviderCode {
	return ProviderCodeEbay
}

// FetchCandidateOrders returns orders created within the lookback window that
// still need fulfillment, in the order the marketplace returned them.
func (a *EbayAdapter) FetchCandidateOrders(ctx context.Context, lookback time.Duration) ([]fulfillment.Order, error) {
	token, err := a.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.Add(-lookback)

	// creationdate filter values are ISO-8601 with milliseconds, per the
	// Sell Fulfillment API.
	filter := fmt.Sprintf("creationdate:[%s..%s]",
		from.Format("2006-01-02T15:04:05.000Z"),
		to.Format("2006-01-02T15:04:05.000Z"))

	var candidates []fulfillment.Order
	offset := 0
	for {
		page, err := a.searchOrders(ctx, token, filter, offset)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Orders {
			order := a.convertOrder(raw)
			if !order.NeedsFulfillment() {
				continue
			}
			a.logger.Info("Found order needing fulfillment",
				zap.String("order_id", order.ID),
				zap.String("buyer", order.BuyerUsername))
			candidates = append(candidates, order)
		}

		if page.Next == "" || len(page.Orders) == 0 {
			break
		}
		offset += page.Limit
	}

	return candidates, nil
}

// searchOrders fetches one page of the order search.
func (a *EbayAdapter) searchOrders(ctx context.Context, token, filter string, offset int) (*ebayOrderSearchResponse, error) {
	params := url.Values{}
	params.Set("filter", filter)
	params.Set("limit", fmt.Sprintf("%d", a.config.PageSize))
	params.Set("offset", fmt.Sprintf("%d", offset))

	endpoint := a.config.APIBaseURL + "/sell/fulfillment/v1/order?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", fulfillment.ErrMarketplaceInvalidResponse, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: status %d", fulfillment.ErrMarketplaceAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr ebayErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s (error %d)",
				fulfillment.ErrMarketplaceRequestFailed,
				apiErr.Errors[0].Message, apiErr.Errors[0].ErrorID)
		}
		return nil, fmt.Errorf("%w: status %d", fulfillment.ErrMarketplaceRequestFailed, resp.StatusCode)
	}

	var page ebayOrderSearchResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceInvalidResponse, err)
	}
	return &page, nil
}

// ensureToken mints a fresh access token from the refresh token when the
// cached one is missing or about to expire.
func (a *EbayAdapter) ensureToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", a.config.RefreshToken)

	endpoint := a.config.AuthBaseURL + "/identity/v1/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceAuthFailed, err)
	}

	basic := base64.StdEncoding.EncodeToString(
		[]byte(a.config.ClientID + ":" + a.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %v", fulfillment.ErrMarketplaceAuthFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", fulfillment.ErrMarketplaceAuthFailed, resp.StatusCode)
	}

	var token ebayTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: %v", fulfillment.ErrMarketplaceAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", fulfillment.ErrMarketplaceAuthFailed)
	}

	a.accessToken = token.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack)

	a.logger.Debug("Minted eBay access token",
		zap.Int("expires_in", token.ExpiresIn),
		zap.String("environment", a.config.Environment))
	return a.accessToken, nil
}

// convertOrder maps an eBay wire order onto the domain order. Missing or
// unparseable fields default explicitly rather than being carried as
// implicit absence.
func (a *EbayAdapter) convertOrder(raw ebayOrder) fulfillment.Order {
	order := fulfillment.Order{
		ID:                raw.OrderID,
		FulfillmentStatus: fulfillment.FulfillmentStatus(raw.OrderFulfillmentStatus),
		BuyerUsername:     raw.Buyer.Username,
		Currency:          raw.PricingSummary.Total.Currency,
	}
	if !order.FulfillmentStatus.IsValid() {
		// Unknown status is treated as in progress so we never double-ship.
		order.FulfillmentStatus = fulfillment.FulfillmentStatusInProgress
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}

	if created, err := time.Parse(time.RFC3339, raw.CreationDate); err == nil {
		order.CreatedAt = created
	}

	if total, err := decimal.NewFromString(raw.PricingSummary.Total.Value); err == nil {
		order.Total = total
	} else if raw.PricingSummary.Total.Value != "" {
		a.logger.Warn("Unparseable order total, defaulting to zero",
			zap.String("order_id", raw.OrderID),
			zap.String("value", raw.PricingSummary.Total.Value))
	}

	if len(raw.FulfillmentStartList) > 0 {
		shipTo := raw.FulfillmentStartList[0].ShippingStep.ShipTo
		order.ShippingAddress = fulfillment.Address{
			Name:            shipTo.FullName,
			Street1:         shipTo.ContactAddress.AddressLine1,
			Street2:         shipTo.ContactAddress.AddressLine2,
			City:            shipTo.ContactAddress.City,
			StateOrProvince: shipTo.ContactAddress.StateOrProvince,
			PostalCode:      shipTo.ContactAddress.PostalCode,
			CountryCode:     shipTo.ContactAddress.CountryCode,
			Phone:           shipTo.PrimaryPhone.PhoneNumber,
		}
	}

	for _, li := range raw.LineItems {
		item := fulfillment.LineItem{
			ItemID:   li.LegacyItemID,
			SKU:      li.SKU,
			Title:    li.Title,
			Quantity: li.Quantity,
			Currency: li.LineItemCost.Currency,
		}
		if item.ItemID == "" {
			item.ItemID = li.LineItemID
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if price, err := decimal.NewFromString(li.LineItemCost.Value); err == nil {
			item.UnitPrice = price
		}
		order.LineItems = append(order.LineItems, item)
	}

	return order
}
