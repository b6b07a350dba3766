package models

import "time"

// Message is one direct message between two users. Exactly one of Body or
// Audio is normally set: Body for text, Audio for a base64-encoded voice
// clip, mirroring the stored record shape.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	UserA     string    `json:"user_a"` // participant pair, order not significant
	UserB     string    `json:"user_b"`
	Body      string    `json:"message"`
	Audio     string    `json:"audio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
