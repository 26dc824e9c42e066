package marketplace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

func writeStaticOrders(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStaticSource_FetchCandidateOrders(t *testing.T) {
	now := time.Now().UTC().Format(time.RFC3339)
	path := writeStaticOrders(t, `{
		"orders": [
			{
				"order_id": "S-1",
				"fulfillment_status": "NOT_STARTED",
				"buyer_username": "buyer42",
				"created_at": "`+now+`",
				"total": "12.50",
				"ship_to": {"name": "Pat Example", "street1": "1 Main St", "city": "Springfield"},
				"line_items": [{"item_id": "110001", "title": "Widget", "quantity": 2, "unit_price": "5.00"}]
			},
			{
				"order_id": "S-2",
				"fulfillment_status": "FULFILLED",
				"created_at": "`+now+`"
			}
		]
	}`)

	source := NewStaticSource(path, zap.NewNop())
	orders, err := source.FetchCandidateOrders(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "S-1", orders[0].ID)
	assert.Equal(t, 2, orders[0].LineItems[0].Quantity)
	assert.Equal(t, "USD", orders[0].Currency)
}

func TestStaticSource_LookbackWindow(t *testing.T) {
	old := time.Now().UTC().Add(-30 * 24 * time.Hour).Format(time.RFC3339)
	path := writeStaticOrders(t, `{
		"orders": [
			{"order_id": "ANCIENT", "fulfillment_status": "NOT_STARTED", "created_at": "`+old+`"}
		]
	}`)

	source := NewStaticSource(path, zap.NewNop())
	orders, err := source.FetchCandidateOrders(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStaticSource_MissingFile(t *testing.T) {
	source := NewStaticSource(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())
	_, err := source.FetchCandidateOrders(context.Background(), time.Hour)
	assert.ErrorIs(t, err, fulfillment.ErrMarketplaceUnavailable)
}

func TestStaticSource_MalformedFile(t *testing.T) {
	path := writeStaticOrders(t, "{broken")
	source := NewStaticSource(path, zap.NewNop())
	_, err := source.FetchCandidateOrders(context.Background(), time.Hour)
	assert.ErrorIs(t, err, fulfillment.ErrMarketplaceInvalidResponse)
}

func TestRegistry(t *testing.T) {
	static := NewStaticSource("orders.json", zap.NewNop())
	registry := NewRegistry(static)

	t.Run("registered provider", func(t *testing.T) {
		source, err := registry.Get(ProviderCodeStatic)
		require.NoError(t, err)
		assert.Equal(t, static, source)
	})

	t.Run("unregistered provider", func(t *testing.T) {
		_, err := registry.Get(ProviderCodeEbay)
		assert.ErrorIs(t, err, ErrProviderNotRegistered)
	})

	t.Run("codes", func(t *testing.T) {
		assert.Equal(t, []ProviderCode{ProviderCodeStatic}, registry.Codes())
	})
}

func TestProviderCode_IsValid(t *testing.T) {
	assert.True(t, ProviderCodeEbay.IsValid())
	assert.True(t, ProviderCodeStatic.IsValid())
	assert.False(t, ProviderCode("amazon").IsValid())
}
