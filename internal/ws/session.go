package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/delivery"
	"github.com/chatnest/chatnest-server/internal/presence"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientEvent is the inbound wire format. Event selects the transition:
// "add-user" binds the connection to a user, "send-msg" delivers a message.
type clientEvent struct {
	Event   string `json:"event"`
	UserID  string `json:"userId,omitempty"`
	To      string `json:"to,omitempty"`
	Message string `json:"message,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

// failedEvent is reported back to the sender when a message could not be
// persisted. Live-push failures are deliberately not acknowledged.
type failedEvent struct {
	Event string `json:"event"`
	To    string `json:"to"`
	Error string `json:"error"`
}

// SessionHandler upgrades HTTP requests and runs one session per
// connection.
type SessionHandler struct {
	Hub      *Hub
	Registry *presence.Registry
	Router   *delivery.Router
	Logger   zerolog.Logger
}

// session is the per-connection state machine. A connection starts
// unidentified, becomes identified on the first add-user event, and is
// closed when the read loop exits. Events are handled strictly in the
// order they arrive on the socket.
type session struct {
	client   *Client
	registry *presence.Registry
	router   *delivery.Router
	logger   zerolog.Logger
	userID   string // empty until identified
}

func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		ConnID: uuid.NewString(),
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
	h.Hub.Register <- client

	sess := &session{
		client:   client,
		registry: h.Registry,
		router:   h.Router,
		logger:   h.Logger.With().Str("conn_id", client.ConnID).Logger(),
	}

	go sess.writePump()
	sess.readPump(r.Context(), h.Hub)
}

// readPump consumes events until the socket errors or closes, then tears
// the session down. Running delivery synchronously here preserves the
// per-connection event order.
func (s *session) readPump(ctx context.Context, hub *Hub) {
	defer func() {
		s.registry.Remove(s.client.ConnID)
		hub.Unregister <- s.client
		s.client.Conn.Close()
		s.logger.Debug().Str("user_id", s.userID).Msg("session closed")
	}()

	for {
		_, data, err := s.client.Conn.ReadMessage()
		if err != nil {
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn().Err(err).Msg("malformed event, ignoring")
			continue
		}
		s.handle(ctx, ev)
	}
}

func (s *session) handle(ctx context.Context, ev clientEvent) {
	switch ev.Event {
	case "add-user":
		if ev.UserID == "" {
			return
		}
		s.userID = ev.UserID
		s.registry.Register(ev.UserID, s.client.ConnID)
		s.logger.Info().Str("user_id", ev.UserID).Msg("connection identified")

	case "send-msg":
		if s.userID == "" {
			// Sending before identifying has no sender to attribute; drop.
			s.logger.Warn().Msg("send-msg before add-user, ignoring")
			return
		}
		if ev.To == "" {
			s.logger.Warn().Str("user_id", s.userID).Msg("send-msg without recipient, ignoring")
			return
		}
		payload := delivery.Payload{Body: ev.Message, Audio: ev.Audio}
		if err := s.router.Deliver(ctx, s.userID, ev.To, payload); err != nil {
			s.reportFailure(ev.To, err)
		}

	default:
		s.logger.Warn().Str("event", ev.Event).Msg("unknown event, ignoring")
	}
}

// reportFailure tells the sender their message was not saved, closing the
// silent-drop gap of the original design.
func (s *session) reportFailure(to string, err error) {
	data, mErr := json.Marshal(failedEvent{Event: "msg-failed", To: to, Error: err.Error()})
	if mErr != nil {
		return
	}
	select {
	case s.client.Send <- data:
	default:
	}
}

func (s *session) writePump() {
	for message := range s.client.Send {
		if err := s.client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
