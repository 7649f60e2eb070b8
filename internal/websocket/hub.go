package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"datacleaner/internal/config"
	"datacleaner/internal/infrastructure"
	"datacleaner/pkg/contracts/events"
)

const (
	// broadcastQueueSize bounds messages waiting for the hub loop
	broadcastQueueSize = 64

	// clientSendBuffer bounds messages waiting for a client's write pump
	clientSendBuffer = 256
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	cfg     config.WebSocketConfig
	metrics *HubMetrics
	logger  *slog.Logger

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(cfg config.WebSocketConfig, metrics *HubMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in the background. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop and closes every client's send channel
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.metrics.recordConnect(ctx)
			h.logger.Info("Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			greeting, err := json.Marshal(events.ConnectionEvent{
				Type:      events.TypeConnection,
				ClientID:  client.id,
				Protocol:  events.ProtocolName,
				Version:   events.ProtocolVersion,
				Timestamp: time.Now().UTC(),
			})
			if err == nil {
				select {
				case client.send <- greeting:
				default:
					h.logger.Warn("Client buffer full, greeting dropped",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				h.metrics.recordDisconnect(ctx, time.Since(client.connectedAt))
				h.logger.Info("Client unregistered",
					slog.String("client_id", client.id),
					slog.Int("total_clients", count),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.fanOut(ctx, message)
		}
	}
}

// fanOut delivers message to every client, disconnecting those that cannot keep up
func (h *Hub) fanOut(ctx context.Context, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent, dropped := 0, 0
	for client := range h.clients {
		select {
		case client.send <- message:
			sent++
		default:
			dropped++
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn("Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	h.metrics.recordSent(ctx, sent)
	h.metrics.recordDropped(ctx, dropped)
	h.logger.Debug("Broadcast delivered",
		slog.Int("sent", sent),
		slog.Int("dropped", dropped),
		slog.Int("message_size", len(message)))
}

// Broadcast marshals v as JSON and queues it for every client. It never
// blocks: when the queue is full or the hub is stopped the message is dropped.
func (h *Hub) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Error marshaling broadcast message", slog.String("error", err.Error()))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- data:
	default:
		h.metrics.recordDropped(context.Background(), 1)
		h.logger.Warn("Broadcast queue full, message dropped",
			slog.Int("message_size", len(data)))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
