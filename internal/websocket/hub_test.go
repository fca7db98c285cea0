package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Mock client
	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}

	// Test registration
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	if hub.ClientCount() != 1 {
		t.Fatalf("Expected 1 client after registration, got %d", hub.ClientCount())
	}

	// Test broadcast
	if err := hub.Broadcast("content:created", map[string]string{"id": "abc"}); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	select {
	case received := <-client.send:
		var msg Message
		if err := json.Unmarshal(received, &msg); err != nil {
			t.Fatalf("Client received invalid JSON: %v", err)
		}
		if msg.Type != "content:created" {
			t.Errorf("Client received wrong message type: got %s", msg.Type)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Client did not receive broadcast message in time")
	}

	// Test unregistration
	hub.unregister <- client
	// Allow the hub to process the unregister message
	time.Sleep(10 * time.Millisecond)
	if hub.ClientCount() != 0 {
		t.Fatalf("Expected 0 clients after unregistration, got %d", hub.ClientCount())
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub() // not running
	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.Broadcast("job:progress", i))
	}
	assert.ErrorIs(t, hub.Broadcast("job:progress", "overflow"), ErrHubBusy)
	hub.BroadcastJSON("overflow") // logs and drops
}

func TestServeWs(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.BroadcastJSON(map[string]string{"jobId": "prune-genres"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobId":"prune-genres"}`, string(data))
}
