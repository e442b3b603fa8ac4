package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	bulkCompletedMessage = "certificates.bulk_completed"
)

type liveClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uint
}

type liveMessage struct {
	eventID uint
	payload []byte
}

// LiveMessage is what subscribers of an event receive.
type LiveMessage struct {
	Type   string            `json:"type"`
	Result domain.BulkResult `json:"result"`
}

type EventFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// LiveHub fans bulk certificate results out to websocket subscribers of each event.
// Only Run touches the subscriber sets.
type LiveHub struct {
	events     EventFinder
	upgrader   websocket.Upgrader
	clients    map[uint]map[*liveClient]struct{}
	broadcast  chan liveMessage
	register   chan *liveClient
	unregister chan *liveClient
	done       chan struct{}
}

// NewLiveHub creates a hub. checkOrigin filters websocket handshakes; nil accepts any origin.
func NewLiveHub(events EventFinder, checkOrigin func(origin string) bool) *LiveHub {
	h := &LiveHub{
		events:     events,
		clients:    make(map[uint]map[*liveClient]struct{}),
		broadcast:  make(chan liveMessage, 64),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || checkOrigin == nil || checkOrigin(origin)
		},
	}

	return h
}

func (h *LiveHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			subs, ok := h.clients[client.eventID]
			if !ok {
				subs = make(map[*liveClient]struct{})
				h.clients[client.eventID] = subs
			}
			subs[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.broadcast:
			for client := range h.clients[msg.eventID] {
				select {
				case client.send <- msg.payload:
				default:
					h.drop(client)
				}
			}
		case <-ctx.Done():
			for _, subs := range h.clients {
				for client := range subs {
					h.drop(client)
				}
			}
			return
		}
	}
}

func (h *LiveHub) drop(client *liveClient) {
	subs, ok := h.clients[client.eventID]
	if !ok {
		return
	}
	if _, ok = subs[client]; !ok {
		return
	}

	delete(subs, client)
	close(client.send)
	if len(subs) == 0 {
		delete(h.clients, client.eventID)
	}
}

// Publish queues a bulk result for the event's subscribers without blocking the caller.
func (h *LiveHub) Publish(result domain.BulkResult) {
	payload, err := json.Marshal(LiveMessage{Type: bulkCompletedMessage, Result: result})
	if err != nil {
		zap.L().Error("failed to encode live message", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- liveMessage{eventID: result.EventID, payload: payload}:
	default:
		zap.L().Warn("live hub is busy, dropping notification", zap.Uint("eventID", result.EventID))
	}
}

// HandleLive godoc
// @Summary      Subscribe to certificate runs of an event
// @Description  Websocket. Sends a message each time bulk certificate generation for the event finishes.
// @Description  Browsers may pass the token as the access_token query parameter.
// @Tags         certificates
// @Param        eventID  path  int  true  "Event ID"
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/{eventID}/certificates/live [get]
// @Security BearerAuth
func (h *LiveHub) HandleLive(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.events.FindByID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleLive -> h.events.FindByID", err)
		return
	}
	if !actor.IsAdmin() && !actor.Owns(event) {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrForbidden))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn:    conn,
		send:    make(chan []byte, 16),
		eventID: eventID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; subscribers never send data.
func (c *liveClient) readPump(h *LiveHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live subscriber closed", zap.Uint("eventID", c.eventID), zap.Error(err))
			}
			return
		}
	}
}
