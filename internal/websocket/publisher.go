package websocket

// EventPublisher defines the interface for publishing workspace events
type EventPublisher interface {
	// Publish sends an event to every subscriber of the workspace
	Publish(workspaceID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the workspace
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(workspaceID int32, event Event) {}

// MultiPublisher fans every event out to several publishers, in order
type MultiPublisher []EventPublisher

// Publish forwards the event to each non-nil publisher
func (m MultiPublisher) Publish(workspaceID int32, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(workspaceID, event)
		}
	}
}
