// Package valkeystore backs the short-lived stores with a Valkey instance,
// so codes survive a server restart and expire server-side.
package valkeystore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// OTPStore implements storage.OTPStore on Valkey using per-key TTLs.
type OTPStore struct {
	client valkey.Client
	ttl    time.Duration
}

func NewOTPStore(addr string, ttl time.Duration) (*OTPStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	return &OTPStore{client: client, ttl: ttl}, nil
}

func (s *OTPStore) Close() {
	s.client.Close()
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *OTPStore) Put(ctx context.Context, email, code string) error {
	cmd := s.client.B().Set().Key(otpKey(email)).Value(code).Ex(s.ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(otpKey(email)).Build())
	code, err := resp.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(otpKey(email)).Build()).Error()
}
