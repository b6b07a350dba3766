package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/chatnest/chatnest-server/internal/storage"
	"github.com/google/uuid"
)

// UserStore is an in-memory user directory.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byName  map[string]string // username -> id
	byEmail map[string]string // email -> id
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*models.User),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[u.Username]; ok {
		return storage.ErrDuplicateUsername
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return storage.ErrDuplicateEmail
	}

	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	s.byID[u.ID] = &stored
	s.byName[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *UserStore) ListOthers(ctx context.Context, excludeID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for id, u := range s.byID {
		if id == excludeID {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *UserStore) SetAvatar(ctx context.Context, id, image string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u.AvatarImage = image
	u.IsAvatarSet = true
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}
