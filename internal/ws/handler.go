package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

// TopicResolver maps an upgrade request to the topic the connection follows.
type TopicResolver func(c fiber.Ctx) (string, error)

type Handler struct {
	hub     *Hub
	resolve TopicResolver
	logger  *log.Logger
}

func NewHandler(hub *Hub, resolve TopicResolver, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, resolve: resolve, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleProgressWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.resolve == nil {
		return fiber.ErrServiceUnavailable
	}
	topic, err := h.resolve(c)
	if err != nil {
		return err
	}
	return adaptor.HTTPHandlerFunc(h.Serve(topic))(c)
}

// Serve upgrades the request and subscribes the connection to topic.
func (h *Handler) Serve(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("WS upgrade error | topic=%s error=%v", topic, err)
			return
		}
		client := NewClient(h.hub, conn, topic)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}
}
