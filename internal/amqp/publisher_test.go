package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "expense.created", RoutingKey(websocket.EntryCreated(websocket.EntityTypeExpense, 1, nil)))
	assert.Equal(t, "balance.changed", RoutingKey(websocket.BalanceChanged(1)))
	assert.Equal(t, "site.deleted", RoutingKey(websocket.EntryDeleted(websocket.EntityTypeSite, 0, 3)))
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "sitebooks.events"}

	event := websocket.EntryCreated(websocket.EntityTypeInvoice, 4, map[string]interface{}{"id": float64(12)})
	p.Publish(7, event)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "sitebooks.events", got.exchange)
	assert.Equal(t, "invoice.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, int32(7), got.msg.Headers["workspace_id"])
	assert.Equal(t, int32(4), got.msg.Headers["site_id"])

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, float64(7), body["workspaceId"])
	inner := body["event"].(map[string]interface{})
	assert.Equal(t, "invoice.created", inner["type"])
	assert.Equal(t, float64(4), inner["siteId"])
}

func TestPublisher_Publish_ErrorIsSwallowed(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset")}
	p := &Publisher{channel: ch, exchange: "sitebooks.events"}

	assert.NotPanics(t, func() {
		p.Publish(1, websocket.BalanceChanged(1))
	})
	assert.Empty(t, ch.published)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch}

	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
