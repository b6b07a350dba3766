package messages

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatnest/chatnest-server/internal/delivery"
	"github.com/chatnest/chatnest-server/internal/presence"
	"github.com/chatnest/chatnest-server/internal/storage/memory"
)

type noopPusher struct{}

func (noopPusher) Push(string, delivery.PushEvent) {}

func newTestServer() *httptest.Server {
	router := delivery.NewRouter(memory.NewMessageLog(), presence.NewRegistry(), noopPusher{}, zerolog.Nop())
	r := mux.NewRouter()
	RegisterRoutes(r, &MessageHandler{Router: router, Logger: zerolog.Nop()})
	return httptest.NewServer(r)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAddThenGetMessages(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/messages/addmsg", map[string]string{
		"from": "alice", "to": "bob", "message": "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["status"])

	resp = postJSON(t, server.URL+"/api/messages/getmsg", map[string]string{
		"from": "alice", "to": "bob",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]map[string]any](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, true, history[0]["fromSelf"])
	assert.Equal(t, "hello", history[0]["message"])
	assert.NotEmpty(t, history[0]["time"])
}

func TestAddMessageRejectsSelfSend(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/messages/addmsg", map[string]string{
		"from": "alice", "to": "alice", "message": "hi me",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMessagesMatchesPairInEitherOrder(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	for _, m := range []map[string]string{
		{"from": "alice", "to": "bob", "message": "one"},
		{"from": "bob", "to": "alice", "message": "two"},
		{"from": "alice", "to": "carol", "message": "keep"},
	} {
		resp := postJSON(t, server.URL+"/api/messages/addmsg", m)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Delete with from/to swapped relative to the first send: the pair
	// filter, not the scalar fields, decides what goes.
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/messages/deletemessages?from=bob&to=alice", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2), body["deleted"])

	resp = postJSON(t, server.URL+"/api/messages/getmsg", map[string]string{"from": "alice", "to": "bob"})
	history := decode[[]map[string]any](t, resp)
	assert.Empty(t, history)

	resp = postJSON(t, server.URL+"/api/messages/getmsg", map[string]string{"from": "alice", "to": "carol"})
	history = decode[[]map[string]any](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, "keep", history[0]["message"])
}

func TestDeleteMessagesRequiresBothParams(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/messages/deletemessages?from=alice", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoiceMessageRoundTrip(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/messages/voice", map[string]string{
		"from": "alice", "to": "bob", "audio": "b64-clip",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/messages/getmsg", map[string]string{"from": "bob", "to": "alice"})
	history := decode[[]map[string]any](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, false, history[0]["fromSelf"])
	assert.Equal(t, "b64-clip", history[0]["audio"])
	assert.Empty(t, history[0]["message"])
}

func TestVoiceMessageRequiresAudio(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/messages/voice", map[string]string{
		"from": "alice", "to": "bob",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
