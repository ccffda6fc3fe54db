package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		et       EntityType
		expected string
	}{
		{EntityTypeSite, "site"},
		{EntityTypeExpense, "expense"},
		{EntityTypeAdvance, "advance"},
		{EntityTypeFunds, "funds"},
		{EntityTypeInvoice, "invoice"},
		{EntityTypeBalance, "balance"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, 7, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, int32(7), evt.SiteID)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EventTypeUpdated, EntityTypeInvoice, 3, map[string]interface{}{"id": float64(42)})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "invoice.updated", decoded["type"])
	assert.Equal(t, "invoice", decoded["entity"])
	assert.Equal(t, float64(3), decoded["siteId"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_ToJSON_OmitsZeroSite(t *testing.T) {
	data, err := NewEvent(EventTypeDeleted, EntityTypeSite, 0, nil).ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	_, ok := decoded["siteId"]
	assert.False(t, ok)
}

func TestEntryHelpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1), "amount": "50.00"}

	t.Run("EntryCreated", func(t *testing.T) {
		evt := EntryCreated(EntityTypeAdvance, 2, payload)
		assert.Equal(t, "advance.created", evt.Type)
		assert.Equal(t, EntityTypeAdvance, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("EntryUpdated", func(t *testing.T) {
		evt := EntryUpdated(EntityTypeSite, 2, payload)
		assert.Equal(t, "site.updated", evt.Type)
	})

	t.Run("EntryDeleted", func(t *testing.T) {
		evt := EntryDeleted(EntityTypeFunds, 2, 9)
		assert.Equal(t, "funds.deleted", evt.Type)
		assert.Equal(t, map[string]int32{"id": 9}, evt.Payload)
	})

	t.Run("BalanceChanged", func(t *testing.T) {
		evt := BalanceChanged(5)
		assert.Equal(t, "balance.changed", evt.Type)
		assert.Equal(t, int32(5), evt.SiteID)
		assert.Equal(t, map[string]int32{"siteId": 5}, evt.Payload)
	})
}
