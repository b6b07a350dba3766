// Package presence tracks which users currently hold a live connection.
//
// The registry is strictly in-process: entries exist only for the lifetime
// of the server and are never persisted. Each user has at most one live
// connection; a newer registration supersedes the old one outright.
package presence

import (
	"sync"
	"time"
)

// Entry records one live connection for a user.
type Entry struct {
	UserID       string
	ConnectionID string
	Since        time.Time
}

// Registry maps logical users to live connection ids. A reverse index
// (connection id -> user id) makes removal by connection id O(1), since
// disconnect events only know the connection, not the user.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]Entry
	byConn map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]Entry),
		byConn: make(map[string]string),
	}
}

// Register binds a user to a connection, unconditionally replacing any
// previous binding for the same user. Idempotent; no error conditions.
func (r *Registry) Register(userID, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[userID]; ok {
		delete(r.byConn, prev.ConnectionID)
	}
	// A connection may re-identify as a different user; the old owner's
	// entry goes away with it or it would outlive the connection.
	if prevUser, ok := r.byConn[connectionID]; ok && prevUser != userID {
		delete(r.byUser, prevUser)
	}
	r.byUser[userID] = Entry{UserID: userID, ConnectionID: connectionID, Since: time.Now()}
	r.byConn[connectionID] = userID
}

// Lookup returns the live connection id for a user, if any.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byUser[userID]
	if !ok {
		return "", false
	}
	return entry.ConnectionID, true
}

// Remove drops the entry owning the given connection id. Removing an
// unknown connection is a no-op, which also covers the case where the
// user has already re-registered on a newer connection.
func (r *Registry) Remove(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connectionID]
	if !ok {
		return
	}
	delete(r.byConn, connectionID)
	delete(r.byUser, userID)
}

// Online returns a snapshot of the currently connected user ids.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		users = append(users, id)
	}
	return users
}
