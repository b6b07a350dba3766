package memory

import (
	"context"
	"sync"
	"time"
)

// OTPStore keeps one-time codes in memory with a fixed TTL. It is the
// fallback when no valkey instance is configured.
type OTPStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]otpEntry
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		ttl:   ttl,
		codes: make(map[string]otpEntry),
	}
}

func (s *OTPStore) Put(ctx context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = otpEntry{code: code, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return "", nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return "", nil
	}
	return entry.code, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
