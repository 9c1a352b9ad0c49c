package matching

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The Telegram web app is served from a different origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is pushed to connected clients
type Message struct {
	Type   string      `json:"type"`
	UserID uuid.UUID   `json:"-"`
	Data   interface{} `json:"data"`
}

// MatchNotice tells a user who they matched with, contact details included
type MatchNotice struct {
	Partner   *models.UserProfile `json:"partner"`
	MatchedAt time.Time           `json:"matched_at"`
}

// Hub routes messages to the websocket of each online user
type Hub struct {
	clients    map[uuid.UUID]*Client
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	online     chan onlineQuery
	done       chan struct{}
	log        *logger.Logger
}

type onlineQuery struct {
	userID uuid.UUID
	reply  chan bool
}

// Client is one websocket connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID uuid.UUID
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client map until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			close(h.done)
			return

		case client := <-h.register:
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			h.log.Debug("websocket connected", "profile_id", client.userID)

		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
				h.log.Debug("websocket disconnected", "profile_id", client.userID)
			}

		case message := <-h.broadcast:
			if client, ok := h.clients[message.UserID]; ok {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}

		case q := <-h.online:
			_, ok := h.clients[q.userID]
			q.reply <- ok
		}
	}
}

// Online reports whether the user has a live connection
func (h *Hub) Online(userID uuid.UUID) bool {
	q := onlineQuery{userID: userID, reply: make(chan bool, 1)}
	select {
	case h.online <- q:
		return <-q.reply
	case <-h.done:
		return false
	}
}

// NotifyMatch tells both users about the match, each receiving the other's profile
func (h *Hub) NotifyMatch(a, b *models.UserProfile, matchedAt time.Time) {
	h.enqueue(Message{Type: "new_match", UserID: a.ID, Data: MatchNotice{Partner: b, MatchedAt: matchedAt}})
	h.enqueue(Message{Type: "new_match", UserID: b.ID, Data: MatchNotice{Partner: a, MatchedAt: matchedAt}})
}

func (h *Hub) enqueue(m Message) {
	select {
	case h.broadcast <- m:
	default:
		h.log.Warn("websocket broadcast queue full, dropping message", "type", m.Type, "profile_id", m.UserID)
	}
}

// ServeWS upgrades the request and attaches the connection to userID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Message, 32),
		userID: userID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
