package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const stateRequestTimeout = 5 * time.Second

// StateProvider gives the hub the current view of an attempt for state syncs. fn runs before
// any later notification of the attempt is broadcast.
type StateProvider interface {
	WithView(ctx context.Context, attemptID string, userID uint, fn func(*AttemptView)) error
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	states     StateProvider
}

type Client struct {
	hub       *Hub
	id        string
	socket    *websocket.Conn
	send      chan []byte
	attemptID string
	userID    uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(states StateProvider) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		states:     states,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Debugf("Client registered: %s for attempt %s (user %d) - Total clients: %d", client.id, client.attemptID, client.userID, total)

			// Sync the new client right away so it can paint the jump table.
			go h.SendState(client)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Debugf("Client unregistered: %s for attempt %s (user %d) - Total clients: %d", client.id, client.attemptID, client.userID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToAttempt sends a message to every client watching an attempt.
func (h *Hub) BroadcastToAttempt(attemptID string, messageType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Errorf("Error marshaling %s message: %v", messageType, err)
		return
	}

	h.mutex.Lock()
	sent := 0
	for client := range h.clients {
		if client.attemptID != attemptID {
			continue
		}
		if h.trySend(client, data) {
			sent++
		}
	}
	h.mutex.Unlock()

	log.Debugf("Broadcast %s to %d clients of attempt %s", messageType, sent, attemptID)
}

// trySend queues data for a client, dropping the client when its buffer is full. The caller
// holds h.mutex for writing.
func (h *Hub) trySend(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		log.Warnf("Client %s (attempt %s) send buffer full, closing connection", client.id, client.attemptID)
		close(client.send)
		delete(h.clients, client)
		return false
	}
}

// send queues data for a single client if it is still registered.
func (h *Hub) send(client *Client, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[client] {
		h.trySend(client, data)
	}
}

// SendState pushes the full attempt view to one client. The view is queued while the attempt
// is locked, so it never lands behind a newer broadcast.
func (h *Hub) SendState(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), stateRequestTimeout)
	defer cancel()

	err := h.states.WithView(ctx, client.attemptID, client.userID, func(view *AttemptView) {
		data, err := json.Marshal(Message{Type: "attempt_state", Payload: view})
		if err != nil {
			log.Errorf("Error marshaling attempt state message: %v", err)
			return
		}
		h.send(client, data)
	})
	if err != nil {
		log.Errorf("Error getting state of attempt %s for client %s: %v", client.attemptID, client.id, err)
	}
}

func (h *Hub) ConnectedClients(attemptID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	n := 0
	for client := range h.clients {
		if client.attemptID == attemptID {
			n++
		}
	}
	return n
}

func (h *Hub) RegisterClient(conn *websocket.Conn, attemptID string, userID uint) *Client {
	client := &Client{
		hub:       h,
		id:        "client_" + uuid.NewString(),
		socket:    conn,
		send:      make(chan []byte, 256),
		attemptID: attemptID,
		userID:    userID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warnf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
		c.hub.send(c, data)

	case "request_state":
		c.hub.SendState(c)

	default:
		log.Debugf("Unknown message type: %s from user %d on attempt %s", msg.Type, c.userID, c.attemptID)
	}
}
