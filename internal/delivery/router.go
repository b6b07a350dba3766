// Package delivery routes a sent message to durable storage and, when the
// recipient is online, to their live connection.
//
// The message log is the delivery guarantee; the live push is a
// best-effort, at-most-once notification with no acknowledgement and no
// retry. A recipient that misses the push finds the message on its next
// history fetch.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/metrics"
	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/chatnest/chatnest-server/internal/storage"
)

// ErrInvalidRecipient is returned when a sender addresses themselves. The
// participant pair of a message must hold two distinct users.
var ErrInvalidRecipient = errors.New("invalid recipient")

// Presence is the read side of the presence registry.
type Presence interface {
	Lookup(userID string) (connectionID string, ok bool)
}

// Pusher sends a payload to one live connection. Implementations must not
// block and must swallow pushes to connections that died after lookup.
type Pusher interface {
	Push(connectionID string, event PushEvent)
}

// PushEvent is the wire payload of a live message push.
type PushEvent struct {
	Event   string `json:"event"`
	From    string `json:"from"`
	Message string `json:"message"`
	Audio   string `json:"audio,omitempty"`
}

// Payload is the content of one outgoing message. Body carries text,
// Audio a base64 voice clip; voice messages leave Body empty.
type Payload struct {
	Body  string
	Audio string
}

// HistoryItem is one row of a conversation as seen by the requesting user.
type HistoryItem struct {
	FromSelf bool   `json:"fromSelf"`
	Message  string `json:"message"`
	Audio    string `json:"audio,omitempty"`
	Time     string `json:"time"`
}

// Router wires the message log, the presence registry and the transport
// push primitive together.
type Router struct {
	log      storage.MessageLog
	presence Presence
	pusher   Pusher
	logger   zerolog.Logger
}

func NewRouter(log storage.MessageLog, presence Presence, pusher Pusher, logger zerolog.Logger) *Router {
	return &Router{
		log:      log,
		presence: presence,
		pusher:   pusher,
		logger:   logger.With().Str("component", "delivery").Logger(),
	}
}

// Deliver persists a message and pushes it to the recipient's live
// connection when one exists. The returned error reflects persistence
// only: once the append succeeds, Deliver succeeds, whether or not a live
// push happened.
func (r *Router) Deliver(ctx context.Context, senderID, recipientID string, payload Payload) error {
	if senderID == recipientID {
		return fmt.Errorf("%w: sender and recipient must differ", ErrInvalidRecipient)
	}

	msg := &models.Message{
		SenderID: senderID,
		UserA:    senderID,
		UserB:    recipientID,
		Body:     payload.Body,
		Audio:    payload.Audio,
	}
	if _, err := r.log.Append(ctx, msg); err != nil {
		r.logger.Error().Err(err).Str("from", senderID).Str("to", recipientID).Msg("message not persisted")
		return err
	}
	metrics.MessagesPersisted.Inc()

	connID, ok := r.presence.Lookup(recipientID)
	if !ok {
		// Normal outcome, not an error: the recipient reads the message
		// from history on their next fetch.
		return nil
	}

	r.pusher.Push(connID, PushEvent{
		Event:   "msg-receive",
		From:    senderID,
		Message: payload.Body,
		Audio:   payload.Audio,
	})
	metrics.LivePushes.Inc()
	return nil
}

// History returns the conversation between viewer and other, oldest first,
// projected from the viewer's side.
func (r *Router) History(ctx context.Context, viewerID, otherID string) ([]HistoryItem, error) {
	msgs, err := r.log.QueryByPair(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, HistoryItem{
			FromSelf: m.SenderID == viewerID,
			Message:  m.Body,
			Audio:    m.Audio,
			Time:     m.UpdatedAt.Format("15:04"),
		})
	}
	return items, nil
}

// DeleteConversation irreversibly removes every message between the two
// users. Matching is on the participant pair in either order.
func (r *Router) DeleteConversation(ctx context.Context, userA, userB string) (int64, error) {
	count, err := r.log.DeleteByPair(ctx, userA, userB)
	if err != nil {
		return 0, err
	}
	r.logger.Info().Str("user_a", userA).Str("user_b", userB).Int64("deleted", count).Msg("conversation deleted")
	return count, nil
}
