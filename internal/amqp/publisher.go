// Package amqp mirrors workspace events onto a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Message is the body published for each event
type Message struct {
	WorkspaceID int32           `json:"workspaceId"`
	Event       websocket.Event `json:"event"`
}

// Publisher implements websocket.EventPublisher over AMQP
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

var _ websocket.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares a durable topic exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// RoutingKey returns "<entity>.<type>", e.g. "expense.created"
func RoutingKey(event websocket.Event) string {
	return event.Type
}

// buildPublishing encodes the event into a persistent JSON message
func buildPublishing(workspaceID int32, event websocket.Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(Message{WorkspaceID: workspaceID, Event: event})
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.Timestamp,
		Type:         event.Type,
		Headers: amqp091.Table{
			"workspace_id": workspaceID,
			"site_id":      event.SiteID,
		},
		Body: body,
	}, nil
}

// Publish sends the event to the exchange. Failures are logged, never returned,
// so a broker outage cannot fail an API write.
func (p *Publisher) Publish(workspaceID int32, event websocket.Event) {
	msg, err := buildPublishing(workspaceID, event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode AMQP message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	key := RoutingKey(event)
	if err := p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		log.Warn().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("routing_key", key).
			Msg("Failed to publish AMQP message")
		return
	}

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("exchange", p.exchange).
		Str("routing_key", key).
		Msg("Published AMQP message")
}

// Close releases the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
