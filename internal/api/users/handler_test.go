package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatnest/chatnest-server/internal/auth"
	"github.com/chatnest/chatnest-server/internal/storage/memory"
)

func newTestServer() *httptest.Server {
	r := mux.NewRouter()
	RegisterRoutes(r, &UserHandler{
		Store:  memory.NewUserStore(),
		Auth:   auth.NewAuthenticator("test-secret", "chatnest", time.Hour),
		Logger: zerolog.Nop(),
	})
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

func register(t *testing.T, url, username, email string) map[string]any {
	t.Helper()
	resp := postJSON(t, url+"/api/auth/register", map[string]string{
		"username": username, "email": email,
		"password": "password1", "confirmpassword": "password1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	body := register(t, server.URL, "alice", "alice@example.com")
	assert.Equal(t, true, body["status"])
	user := body["user"].(map[string]any)
	assert.NotEmpty(t, user["id"])

	resp := postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"username": "alice", "password": "password1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.Equal(t, true, login["status"])
	assert.NotEmpty(t, login["token"])
}

func TestRegisterDuplicates(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	register(t, server.URL, "alice", "alice@example.com")

	resp := postJSON(t, server.URL+"/api/auth/register", map[string]string{
		"username": "alice", "email": "other@example.com",
		"password": "password1", "confirmpassword": "password1",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/register", map[string]string{
		"username": "alice2", "email": "alice@example.com",
		"password": "password1", "confirmpassword": "password1",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com",
		"password": "password1", "confirmpassword": "password2",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	register(t, server.URL, "alice", "alice@example.com")

	resp := postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"username": "nobody", "password": "whatever1",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetAvatarAndListOthers(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	alice := register(t, server.URL, "alice", "alice@example.com")["user"].(map[string]any)
	register(t, server.URL, "bob", "bob@example.com")
	aliceID := alice["id"].(string)

	resp := postJSON(t, server.URL+"/api/auth/setavatar/"+aliceID, map[string]string{
		"image": "base64-avatar",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var avatar map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&avatar))
	assert.Equal(t, true, avatar["isSet"])
	assert.Equal(t, "base64-avatar", avatar["image"])

	listResp, err := http.Get(server.URL + "/api/auth/allusers/" + aliceID)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var others []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&others))
	require.Len(t, others, 1)
	assert.Equal(t, "bob", others[0]["username"])
}
