package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient captures sent messages
type mockClient struct {
	id          string
	workspaceID int32
	siteID      int32
	messages    [][]byte
	mu          sync.Mutex
	closed      bool
	backlogged  bool
}

func newMockClient(id string, workspaceID int32) *mockClient {
	return newSiteClient(id, workspaceID, 0)
}

func newSiteClient(id string, workspaceID, siteID int32) *mockClient {
	return &mockClient{
		id:          id,
		workspaceID: workspaceID,
		siteID:      siteID,
		messages:    make([][]byte, 0),
	}
}

func (m *mockClient) ID() string         { return m.id }
func (m *mockClient) WorkspaceID() int32 { return m.workspaceID }
func (m *mockClient) SiteID() int32      { return m.siteID }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	if m.backlogged {
		return ErrSendBufferFull
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func (m *mockClient) messageCount() int {
	return len(m.GetMessages())
}

func waitForMessages(t *testing.T, c *mockClient, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return c.messageCount() == n },
		time.Second, 5*time.Millisecond, "client %s expected %d messages", c.id, n)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", 1)
	client2 := newMockClient("client-2", 1)
	client3 := newMockClient("client-3", 2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(1))
	assert.Equal(t, 1, hub.ClientCount(2))
	assert.Equal(t, 0, hub.ClientCount(999))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_WorkspaceIsolation(t *testing.T) {
	hub := NewHub()

	client1a := newMockClient("client-1a", 1)
	client1b := newMockClient("client-1b", 1)
	client2 := newMockClient("client-2", 2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	hub.Broadcast(1, EntryCreated(EntityTypeExpense, 10, map[string]interface{}{"id": float64(42)}))

	waitForMessages(t, client1a, 1)
	waitForMessages(t, client1b, 1)

	time.Sleep(10 * time.Millisecond)
	assert.Len(t, client2.GetMessages(), 0, "client2 should not receive message from workspace 1")
}

func TestHub_Broadcast_SiteFilter(t *testing.T) {
	hub := NewHub()

	all := newSiteClient("all", 1, 0)
	site10 := newSiteClient("site-10", 1, 10)
	site11 := newSiteClient("site-11", 1, 11)

	hub.Register(all)
	hub.Register(site10)
	hub.Register(site11)

	hub.Broadcast(1, BalanceChanged(10))

	waitForMessages(t, all, 1)
	waitForMessages(t, site10, 1)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, site11.GetMessages(), 0)

	// events without a site reach every client
	hub.Broadcast(1, NewEvent(EventTypeChanged, EntityTypeBalance, 0, nil))
	waitForMessages(t, all, 2)
	waitForMessages(t, site10, 2)
	waitForMessages(t, site11, 1)
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), 1)
		hub.Register(clients[i])
	}

	hub.Broadcast(1, EntryUpdated(EntityTypeInvoice, 3, map[string]interface{}{"id": float64(1)}))

	for _, c := range clients {
		waitForMessages(t, c, 1)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newSiteClient(fmt.Sprintf("client-%d", i), int32(i%5), int32(i%3))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(int32(idx%5), EntryDeleted(EntityTypeAdvance, int32(idx%3), int32(idx)))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for ws := int32(0); ws < 5; ws++ {
		assert.Equal(t, 0, hub.ClientCount(ws))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", 1)

	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToEmptyWorkspace(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(999, BalanceChanged(1))
	})
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	c1 := newMockClient("a", 1)
	c2 := newMockClient("b", 2)
	hub.Register(c1)
	hub.Register(c2)

	hub.CloseAll()

	assert.True(t, c1.IsClosed())
	assert.True(t, c2.IsClosed())
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_EvictsBackloggedClient(t *testing.T) {
	hub := NewHub()
	slow := newMockClient("slow", 1)
	slow.backlogged = true
	healthy := newMockClient("healthy", 1)
	hub.Register(slow)
	hub.Register(healthy)

	hub.Broadcast(1, BalanceChanged(10))

	waitForMessages(t, healthy, 1)
	assert.Eventually(t, slow.IsClosed, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 5*time.Millisecond)
}
