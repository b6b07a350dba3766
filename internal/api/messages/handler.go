package messages

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/delivery"
)

// MessageHandler holds the dependencies for the message HTTP endpoints.
type MessageHandler struct {
	Router *delivery.Router
	Logger zerolog.Logger
}

func (h *MessageHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error().Err(err).Msg("response write failed")
	}
}

func (h *MessageHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"msg": msg})
}

// AddMessage persists a text message and forwards it live when the
// recipient is connected.
func (h *MessageHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.From == "" || req.To == "" {
		h.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	err := h.Router.Deliver(r.Context(), req.From, req.To, delivery.Payload{Body: req.Message})
	switch {
	case errors.Is(err, delivery.ErrInvalidRecipient):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "failed to send message")
	default:
		h.writeJSON(w, http.StatusOK, map[string]any{"status": true, "msg": "Message sent successfully"})
	}
}

// AddVoiceMessage persists a voice clip the same way as a text message.
func (h *MessageHandler) AddVoiceMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Audio string `json:"audio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.From == "" || req.To == "" || req.Audio == "" {
		h.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := h.Router.Deliver(r.Context(), req.From, req.To, delivery.Payload{Audio: req.Audio})
	switch {
	case errors.Is(err, delivery.ErrInvalidRecipient):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "Failed to send voice message")
	default:
		h.writeJSON(w, http.StatusCreated, map[string]any{"status": true, "msg": "Voice message sent successfully"})
	}
}

// GetMessages returns the conversation between two users as seen by the
// requesting side.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	history, err := h.Router.History(r.Context(), req.From, req.To)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

// DeleteMessages removes the whole conversation between two users.
func (h *MessageHandler) DeleteMessages(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'from' or 'to' parameters."})
		return
	}

	count, err := h.Router.DeleteConversation(r.Context(), from, to)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete messages"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Messages deleted successfully.",
		"deleted": count,
	})
}
