package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/platform/logger"
	"github.com/lmedrano/pulso/internal/platform/metrics"
)

// Hub maintains the set of active observer clients and broadcasts
// journal entries to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket Hub. broadcastBuffer bounds the
// number of pending broadcasts before entries are dropped.
func NewHub(log *logger.Logger, m *metrics.Collector, broadcastBuffer int) *Hub {
	if broadcastBuffer <= 0 {
		broadcastBuffer = 256
	}
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("New observer connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("Observer disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEntry serializes a journal entry and sends it to all
// connected observers. Clients filter by session on their side.
func (h *Hub) BroadcastEntry(entry journal.Entry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		h.metrics.RecordWSError()
		h.logger.Error("Failed to serialize journal entry for broadcast: " + err.Error())
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.metrics.RecordWSError()
	}
}

// StartJournalPoller spawns a goroutine that polls the journal and
// pushes new entries to the Hub. The hub runs independently from the
// advance path while observers still see every entry.
func (h *Hub) StartJournalPoller(ctx context.Context, j *journal.Journal) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				total := j.Len()
				if total <= lastProcessed {
					continue
				}
				for _, entry := range j.Since(lastProcessed) {
					h.BroadcastEntry(entry)
				}
				lastProcessed = total
			}
		}
	}()
}
