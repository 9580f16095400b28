package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is the wire frame pushed to alert subscribers.
type Event struct {
	Event     string      `json:"event"`
	AlertID   string      `json:"alert_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type broadcastMessage struct {
	alertID string
	data    []byte
}

// Hub fans live alert events out to websocket subscribers. Clients join
// one room per alert id.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage

	mutex sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan broadcastMessage, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

// BroadcastToAlert satisfies the services.AlertBroadcaster interface.
func (h *Hub) BroadcastToAlert(alertID string, event string, payload interface{}) {
	frame := Event{
		Event:     event,
		AlertID:   alertID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(frame)
	if err != nil {
		logrus.Warn("Failed to marshal websocket event: ", err)
		return
	}

	select {
	case h.broadcast <- broadcastMessage{alertID: alertID, data: data}:
	default:
		logrus.Warn("Websocket broadcast channel full, dropping event")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[client.alertID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[client.alertID] = room
	}
	room[client] = true

	logrus.WithFields(logrus.Fields{
		"alertId": client.alertID,
		"userId":  client.userID,
	}).Debug("Websocket client joined")
}

func (h *Hub) removeClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[client.alertID]
	if !ok {
		return
	}

	if _, ok := room[client]; ok {
		delete(room, client)
		close(client.send)
	}
	if len(room) == 0 {
		delete(h.rooms, client.alertID)
	}
}

func (h *Hub) deliver(msg broadcastMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.rooms[msg.alertID] {
		select {
		case client.send <- msg.data:
		default:
			// Slow consumer, drop the frame rather than block the hub.
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for alertID, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
		delete(h.rooms, alertID)
	}
}

// RoomSize reports the subscriber count for an alert.
func (h *Hub) RoomSize(alertID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[alertID])
}
