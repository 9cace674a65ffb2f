package ws

import (
	"context"
	"log"
	"sync"
)

type message struct {
	topic   string
	payload []byte
}

// Hub fans messages out to the clients subscribed to a topic. A topic is a
// user id or an anonymous visitor id, so progress of one upload only reaches
// the browser that started it.
type Hub struct {
	topics     map[string]map[*Client]struct{}
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		topics:     make(map[string]map[*Client]struct{}),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.topics[client.topic]
			if !ok {
				set = make(map[*Client]struct{})
				h.topics[client.topic] = set
			}
			set[client] = struct{}{}
			total := len(set)
			h.mutex.Unlock()
			h.logger.Printf("WS connected | topic=%s topic_clients=%d", client.topic, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.topics[msg.topic]))
			for c := range h.topics[msg.topic] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.topics[client.topic]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.topics, client.topic)
	}
	h.logger.Printf("WS disconnected | topic=%s topic_clients=%d", client.topic, len(set))
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for topic, set := range h.topics {
		for c := range set {
			close(c.send)
		}
		delete(h.topics, topic)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish queues payload for every client of topic. It never blocks; when the
// queue is full the message is dropped and logged.
func (h *Hub) Publish(topic string, payload []byte) {
	if h == nil || topic == "" {
		return
	}
	select {
	case h.broadcast <- message{topic: topic, payload: payload}:
	default:
		h.logger.Printf("WS publish dropped | topic=%s reason=buffer_full", topic)
	}
}

func (h *Hub) ClientCount(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
