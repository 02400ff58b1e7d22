package ws

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/pkg/jwt"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
)

// Event is the wire shape pushed to clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type balancePayload struct {
	Balance decimal.Decimal `json:"balance"`
}

type orderStatusPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// Hub tracks connected clients per user and fans events out to every
// connection a user holds.
type Hub struct {
	jwt *jwt.Service

	mu    sync.RWMutex
	conns map[uuid.UUID]map[*websocket.Conn]struct{}

	upgrader websocket.Upgrader
}

func NewHub(jwtService *jwt.Service) *Hub {
	return &Hub{
		jwt:   jwtService,
		conns: make(map[uuid.UUID]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws?token=<access token>
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "token query parameter required")
		return
	}
	claims, err := h.jwt.ValidateAccessToken(token)
	if err != nil {
		response.Unauthorized(w, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.add(claims.UserID, conn)
	log.Debug().Str("user_id", claims.UserID.String()).Msg("websocket connected")

	// Reader loop exists only to detect disconnects; clients do not
	// send messages.
	go func() {
		defer func() {
			h.remove(claims.UserID, conn)
			conn.Close()
			log.Debug().Str("user_id", claims.UserID.String()).Msg("websocket disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) add(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) remove(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

func (h *Hub) send(userID uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[userID] {
		if err := conn.WriteJSON(event); err != nil {
			log.Debug().Err(err).Str("user_id", userID.String()).Msg("websocket write failed")
		}
	}
}

// NotifyBalance pushes the user's new wallet balance
func (h *Hub) NotifyBalance(userID uuid.UUID, balance decimal.Decimal) {
	h.send(userID, Event{Type: "balance", Payload: balancePayload{Balance: balance}})
}

// NotifyOrderStatus pushes an order status transition
func (h *Hub) NotifyOrderStatus(userID, orderID uuid.UUID, status string) {
	h.send(userID, Event{Type: "order_status", Payload: orderStatusPayload{OrderID: orderID, Status: status}})
}
