package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeChanged EventType = "changed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeSite    EntityType = "site"
	EntityTypeExpense EntityType = "expense"
	EntityTypeAdvance EntityType = "advance"
	EntityTypeFunds   EntityType = "funds"
	EntityTypeInvoice EntityType = "invoice"
	EntityTypeBalance EntityType = "balance"
)

// Event is the message pushed to clients and mirrored to the message bus.
// Format: { type, entity, siteId, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`   // e.g. "expense.created"
	Entity    EntityType  `json:"entity"` // e.g. "expense"
	SiteID    int32       `json:"siteId,omitempty"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event for an entity of a site
func NewEvent(eventType EventType, entityType EntityType, siteID int32, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		SiteID:    siteID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntryCreated creates a <entity>.created event for a ledger entry
func EntryCreated(entity EntityType, siteID int32, payload interface{}) Event {
	return NewEvent(EventTypeCreated, entity, siteID, payload)
}

// EntryUpdated creates a <entity>.updated event for a ledger entry
func EntryUpdated(entity EntityType, siteID int32, payload interface{}) Event {
	return NewEvent(EventTypeUpdated, entity, siteID, payload)
}

// EntryDeleted creates a <entity>.deleted event carrying the deleted id
func EntryDeleted(entity EntityType, siteID int32, id int32) Event {
	return NewEvent(EventTypeDeleted, entity, siteID, map[string]int32{"id": id})
}

// BalanceChanged creates a balance.changed event telling clients to refresh a site summary
func BalanceChanged(siteID int32) Event {
	return NewEvent(EventTypeChanged, EntityTypeBalance, siteID, map[string]int32{"siteId": siteID})
}
