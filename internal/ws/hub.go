package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans leaderboard updates out to websocket clients watching a chat.
type Hub struct {
	mu    sync.RWMutex
	chats map[int64]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		chats: make(map[int64]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(chatID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.chats[chatID] == nil {
		h.chats[chatID] = make(map[*websocket.Conn]bool)
	}
	h.chats[chatID][conn] = true
	log.Printf("ws: client connected to chat %d (total: %d)", chatID, len(h.chats[chatID]))
}

func (h *Hub) RemoveConnection(chatID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.chats[chatID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.chats, chatID)
		}
		log.Printf("ws: client disconnected from chat %d", chatID)
	}
}

// Broadcast writes the message to every client watching the chat and drops
// clients whose write fails. The write lock is held for the whole pass:
// broadcasts come in concurrently from the refresh job and the update
// handlers, and neither the conn map nor a single conn tolerates concurrent
// writers.
func (h *Hub) Broadcast(chatID int64, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.chats[chatID]
	if !ok {
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.chats, chatID)
	}
}
