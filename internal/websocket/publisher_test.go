package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(workspaceID int32, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", 1)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(1, EntryCreated(EntityTypeExpense, 1, map[string]interface{}{"id": float64(42)}))

	waitForMessages(t, client, 1)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	var publisher EventPublisher = &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(1, BalanceChanged(1))
	})
}

func TestMultiPublisher_FansOut(t *testing.T) {
	a := &recordingPublisher{}
	b := &recordingPublisher{}
	multi := MultiPublisher{a, nil, b}

	multi.Publish(1, BalanceChanged(4))

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, "balance.changed", b.events[0].Type)
}
