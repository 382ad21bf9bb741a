package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

// Client is one WebSocket subscriber. A fundraiserID of zero subscribes to
// events from every fundraiser.
type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	fundraiserID uint
}

// EventsHandler fans domain events out to WebSocket subscribers. It
// satisfies the services' EventBroadcaster interface.
type EventsHandler struct {
	clients      map[*Client]struct{}
	clientsMutex sync.RWMutex
	broadcast    chan domain.Event
	register     chan *Client
	unregister   chan *Client
}

func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan domain.Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Broadcast queues an event for delivery. Delivery is fire-and-forget: if
// the hub's queue is full the event is dropped rather than blocking the
// caller.
func (h *EventsHandler) Broadcast(event domain.Event) {
	select {
	case h.broadcast <- event:
	default:
		zap.L().Warn("event broadcast queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.Uint("fundraiser_id", event.FundraiserID))
	}
}

func (h *EventsHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				zap.L().Error("failed to marshal event", zap.Error(err))
				continue
			}

			h.clientsMutex.Lock()
			for client := range h.clients {
				if client.fundraiserID != 0 && client.fundraiserID != event.FundraiserID {
					continue
				}
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// HandleWebSocket godoc
// @Summary      Subscribe to realtime events
// @Description  Upgrades to a WebSocket and streams inventory, order, fundraiser and participant events. Pass fundraiser_id to receive only one fundraiser's events.
// @Tags         events
// @Produce      json
// @Param        fundraiser_id  query  int  false  "only events for this fundraiser"
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      500 {object} response.Err
// @Router       /events [get]
func (h *EventsHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("failed to upgrade websocket", zap.Error(err))
		return
	}

	fundraiserID, _ := strconv.ParseUint(c.Query("fundraiser_id"), 10, 64)

	client := &Client{
		conn:         conn,
		send:         make(chan []byte, 256),
		fundraiserID: uint(fundraiserID),
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains client frames so pings and close messages are processed.
// Subscribers are read-only; inbound payloads are discarded.
func (c *Client) readPump(h *EventsHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket read error", zap.Error(err))
			}
			break
		}
	}
}
