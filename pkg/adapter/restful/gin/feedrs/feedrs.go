// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package feedrs streams the committed slot state changes to websocket
// clients. Its Hub is registered as a sessionsuc.SlotObserver, so the
// sessions use case pushes the changes after each commit.
package feedrs

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

// Event is one frame of the feed.
type Event struct {
	Type string     `json:"type"`
	At   time.Time  `json:"at"`
	Slot model.Slot `json:"slot"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the connected clients and fans out the slot events.
// A client which does not keep up with the events is disconnected.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a Hub. The checkOrigin function decides which browser
// origins may connect; a nil value accepts same-origin requests only.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// Register adds the GET slots/feed websocket endpoint to r.
func Register(r *gin.RouterGroup, h *Hub) {
	r.GET("slots/feed", h.Serve)
}

// SlotChanged implements sessionsuc.SlotObserver.
func (h *Hub) SlotChanged(ctx context.Context, slot model.Slot) {
	msg, err := json.Marshal(Event{Type: "slot", At: time.Now(), Slot: slot})
	if err != nil {
		log.Warn(ctx, "marshaling slot event", log.Err("err", err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			h.drop(cl)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects the new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.drop(cl)
	}
}

// drop must be called while holding h.mu.
func (h *Hub) drop(cl *client) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}

// Serve upgrades the request to a websocket and keeps it until the
// client goes away. Frames from the clients are ignored.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied with an error status
		log.Info(c, "websocket upgrade failed", log.Err("err", err))
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Debug(c, "feed client connected", slog.Int("clients", n))

	go h.write(cl)
	h.read(cl)

	h.mu.Lock()
	h.drop(cl)
	h.mu.Unlock()
}

func (h *Hub) read(cl *client) {
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) write(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
