package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/google/uuid"
)

// MessageLog is an in-memory message log, used in tests and when no
// database is configured.
type MessageLog struct {
	mu       sync.RWMutex
	messages map[string][]models.Message // pair key -> ordered messages
}

func NewMessageLog() *MessageLog {
	return &MessageLog{
		messages: make(map[string][]models.Message),
	}
}

// pairKey builds the canonical key for a participant pair, ignoring order.
func pairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "\x00" + userB
}

func (s *MessageLog) Append(ctx context.Context, msg *models.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *msg
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	key := pairKey(msg.UserA, msg.UserB)
	s.messages[key] = append(s.messages[key], stored)

	msg.ID = stored.ID
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return stored.ID, nil
}

func (s *MessageLog) QueryByPair(ctx context.Context, userA, userB string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[pairKey(userA, userB)]
	out := make([]models.Message, len(stored))
	copy(out, stored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MessageLog) DeleteByPair(ctx context.Context, userA, userB string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userA, userB)
	count := int64(len(s.messages[key]))
	delete(s.messages, key)
	return count, nil
}
