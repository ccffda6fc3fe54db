package service

import (
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// eventSink holds the optional publisher shared by services that emit change events
type eventSink struct {
	eventPublisher websocket.EventPublisher
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *eventSink) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *eventSink) publishEvent(workspaceID int32, events ...websocket.Event) {
	if s.eventPublisher == nil {
		return
	}
	for _, e := range events {
		s.eventPublisher.Publish(workspaceID, e)
	}
}

// publishEntryChange emits the entry event followed by balance.changed for its site
func (s *eventSink) publishEntryChange(workspaceID, siteID int32, event websocket.Event) {
	s.publishEvent(workspaceID, event, websocket.BalanceChanged(siteID))
}
