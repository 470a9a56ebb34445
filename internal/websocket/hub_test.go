package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.Publish("filters", map[string]int{"page": 2})

	select {
	case msg := <-hub.Broadcast:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "filters", ev.Type)
	default:
		t.Fatal("expected a queued broadcast")
	}
}

func TestBroadcastJSONNeverBlocks(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.Broadcast)+10; i++ {
		hub.BroadcastJSON(i)
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

func TestServeWsDeliversEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens asynchronously, so keep publishing until the
	// client has read one event.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish("columns", []string{"year"})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "columns", ev.Type)
	assert.Equal(t, []any{"year"}, ev.Data)
}

func TestStopTwice(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()
	assert.NotPanics(t, hub.Stop)
}
