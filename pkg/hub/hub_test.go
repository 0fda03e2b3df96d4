package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/marcusbk37/go-roleplay/pkg/session"
)

// attach registers a bare client so broadcast paths can be exercised
// without a websocket connection.
func attach(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, buffer)}
	h.register <- c
	return c
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
		return nil
	}
}

func TestPublishReachesAllObservers(t *testing.T) {
	h := New()
	go h.Run()

	a := attach(t, h, 4)
	b := attach(t, h, 4)
	waitForClients(t, h, 2)

	h.Publish(session.Event{Type: "status", SessionID: "s1", State: "active"})

	for _, c := range []*Client{a, b} {
		var ev session.Event
		if err := json.Unmarshal(recv(t, c), &ev); err != nil {
			t.Fatalf("broadcast not JSON: %v", err)
		}
		if ev.Type != "status" || ev.SessionID != "s1" {
			t.Errorf("event = %+v", ev)
		}
	}
}

func TestSlowObserverDropped(t *testing.T) {
	h := New()
	go h.Run()

	slow := attach(t, h, 1)
	waitForClients(t, h, 1)

	// First event fills the buffer, second forces the drop.
	h.Publish(session.Event{Type: "status"})
	h.Publish(session.Event{Type: "status"})
	waitForClients(t, h, 0)

	// Channel is closed after the drop.
	select {
	case <-slow.send:
	case <-time.After(time.Second):
		t.Fatal("send channel not drained")
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	h := New()
	go h.Run()

	c := attach(t, h, 1)
	waitForClients(t, h, 1)

	h.unregister <- c
	h.unregister <- c
	waitForClients(t, h, 0)
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), want)
}
