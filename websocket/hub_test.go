package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, alertID string) *Client {
	return &Client{
		hub:     hub,
		send:    make(chan []byte, 8),
		alertID: alertID,
		userID:  "test-user",
	}
}

func TestHubRoomLifecycle(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "EMG-AAAA1111")
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.RoomSize("EMG-AAAA1111") == 1
	}, time.Second, 5*time.Millisecond)

	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.RoomSize("EMG-AAAA1111") == 0
	}, time.Second, 5*time.Millisecond)
}

func TestHubBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	subscriber := newTestClient(hub, "EMG-AAAA1111")
	bystander := newTestClient(hub, "EMG-BBBB2222")
	hub.register <- subscriber
	hub.register <- bystander

	require.Eventually(t, func() bool {
		return hub.RoomSize("EMG-AAAA1111") == 1 && hub.RoomSize("EMG-BBBB2222") == 1
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastToAlert("EMG-AAAA1111", "alert_activated", map[string]string{"severity": "high"})

	select {
	case frame := <-subscriber.send:
		var event Event
		require.NoError(t, json.Unmarshal(frame, &event))
		assert.Equal(t, "alert_activated", event.Event)
		assert.Equal(t, "EMG-AAAA1111", event.AlertID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the broadcast")
	}

	select {
	case <-bystander.send:
		t.Fatal("bystander received an event for another alert")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsFramesForSlowConsumers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	slow := &Client{
		hub:     hub,
		send:    make(chan []byte, 1),
		alertID: "EMG-CCCC3333",
	}
	hub.register <- slow

	require.Eventually(t, func() bool {
		return hub.RoomSize("EMG-CCCC3333") == 1
	}, time.Second, 5*time.Millisecond)

	for i := 0; i < 5; i++ {
		hub.BroadcastToAlert("EMG-CCCC3333", "location_update", nil)
	}

	// The buffer holds one frame; the rest are dropped, never blocking
	// the hub loop.
	require.Eventually(t, func() bool {
		return len(slow.send) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.RoomSize("EMG-DDDD4444"))
}
