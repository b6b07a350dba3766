// Package storage defines the persistence contracts the chat core depends
// on. Implementations live in the memory and postgres subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/chatnest/chatnest-server/internal/models"
)

var (
	// ErrPersistenceFailure wraps any storage-level write error on the
	// message log. Callers treat it as "message not saved", full stop.
	ErrPersistenceFailure = errors.New("persistence failure")

	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already used")
	ErrDuplicateEmail    = errors.New("email already used")
)

// MessageLog is the durable append-only record of messages between user
// pairs. It is the single source of truth for conversation state; live
// WebSocket delivery is only a best-effort notification on top of it.
type MessageLog interface {
	// Append persists a message and returns its generated id.
	Append(ctx context.Context, msg *models.Message) (string, error)

	// QueryByPair returns every message between the two users, in either
	// direction, ordered by ascending last-modified time.
	QueryByPair(ctx context.Context, userA, userB string) ([]models.Message, error)

	// DeleteByPair removes every message between the two users regardless
	// of which side sent it, returning the number removed.
	DeleteByPair(ctx context.Context, userA, userB string) (int64, error)
}

// UserStore is the user directory backing registration, login and the
// contact list.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListOthers returns every user except the given one.
	ListOthers(ctx context.Context, excludeID string) ([]models.User, error)
	SetAvatar(ctx context.Context, id, image string) (*models.User, error)
}

// OTPStore holds short-lived one-time codes keyed by email address.
type OTPStore interface {
	// Put stores a code, replacing any previous one for the same email.
	Put(ctx context.Context, email, code string) error
	// Get returns the current code, or ("", nil) when none is stored or
	// the previous one expired.
	Get(ctx context.Context, email string) (string, error)
	// Delete discards the code after a successful or failed verification.
	Delete(ctx context.Context, email string) error
}
