package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/delivery"
)

// A push that wins the map lookup while the connection is being torn down
// must be dropped, never sent on the closed channel.
func TestPushDuringDisconnectChurn(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	const connID = "conn-churn"
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Push(connID, delivery.PushEvent{Event: "msg-receive", From: "alice", Message: "hi"})
				}
			}
		}()
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		client := &Client{ConnID: connID, Send: make(chan []byte, 1)}
		hub.Register <- client
		hub.Unregister <- client
	}

	close(done)
	wg.Wait()
}

func TestPushToUnknownConnectionIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	// Must simply return; nothing to assert beyond not blocking.
	hub.Push("conn-never-registered", delivery.PushEvent{Event: "msg-receive", From: "alice"})
}
