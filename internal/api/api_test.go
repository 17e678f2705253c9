package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-diary/internal/api"
	"github.com/inkwell-app/inkwell-diary/internal/auth"
	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/services"
	"github.com/inkwell-app/inkwell-diary/internal/store/memory"
)

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, content string) (*model.AIAnalysis, error) {
	return &model.AIAnalysis{
		GeneralComment:         "A calm, reflective entry.",
		PositiveAspects:        []string{"gratitude"},
		ImprovementSuggestions: []string{"more specifics"},
		OverallScore:           8,
	}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := memory.New()
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	authSvc := services.NewAuthService(st, jwt)
	diarySvc := services.NewDiaryService(st, stubGenerator{})
	mw := auth.NewMiddleware(jwt, zerolog.Nop())

	srv := httptest.NewServer(api.NewRouter(authSvc, diarySvc, mw))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func registerUser(t *testing.T, srv *httptest.Server, username, email string) string {
	t.Helper()
	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginCreateListFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register.
	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password")

	// Login with the same credentials.
	resp, body = doJSON(t, "POST", srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// Create an entry.
	resp, body = doJSON(t, "POST", srv.URL+"/api/diaries", token, map[string]string{
		"content": "day one",
		"mood":    "calm",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entryID := body["_id"].(string)
	assert.NotEmpty(t, entryID)
	assert.Equal(t, "day one", body["content"])
	analysis := body["aiAnalysis"].(map[string]interface{})
	assert.Equal(t, "A calm, reflective entry.", analysis["generalComment"])
	assert.Equal(t, float64(8), analysis["overallScore"])

	// List has exactly that entry.
	req, _ := http.NewRequest("GET", srv.URL+"/api/diaries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var entries []map[string]interface{}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, entryID, entries[0]["_id"])
}

func TestDiaryRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/diaries"},
		{"GET", "/api/diaries"},
		{"GET", "/api/diaries/some-id"},
		{"PUT", "/api/diaries/some-id"},
		{"DELETE", "/api/diaries/some-id"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := doJSON(t, tc.method, srv.URL+tc.path, "", map[string]string{"content": "x"})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "Please authenticate", body["message"])
		})
	}
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	aliceToken := registerUser(t, srv, "alice", "alice@example.com")
	bobToken := registerUser(t, srv, "bob", "bob@example.com")

	resp, body := doJSON(t, "POST", srv.URL+"/api/diaries", aliceToken, map[string]string{
		"content": "private",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entryID := body["_id"].(string)

	url := fmt.Sprintf("%s/api/diaries/%s", srv.URL, entryID)

	resp, body = doJSON(t, "GET", url, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Diary not found", body["message"])

	resp, _ = doJSON(t, "PUT", url, bobToken, map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, "DELETE", url, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Still intact for the owner.
	resp, body = doJSON(t, "GET", url, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private", body["content"])
}

func TestUpdateAndDeleteFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice", "alice@example.com")

	resp, body := doJSON(t, "POST", srv.URL+"/api/diaries", token, map[string]string{
		"content": "original",
		"mood":    "sad",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entryID := body["_id"].(string)
	url := fmt.Sprintf("%s/api/diaries/%s", srv.URL, entryID)

	resp, body = doJSON(t, "PUT", url, token, map[string]string{
		"content": "revised",
		"mood":    "happy",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "revised", body["content"])
	assert.Equal(t, "happy", body["mood"])
	assert.NotNil(t, body["aiAnalysis"], "analysis from creation must survive the update")

	resp, body = doJSON(t, "DELETE", url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Diary deleted successfully", body["message"])

	resp, _ = doJSON(t, "GET", url, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "alice@example.com")

	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "User already exists", body["message"])
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "alice@example.com")

	resp, body := doJSON(t, "POST", srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestMalformedJSONBody(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice", "alice@example.com")

	req, err := http.NewRequest("POST", srv.URL+"/api/diaries", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpointIsOpen(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, "GET", srv.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "status")
	assert.Contains(t, body, "timestamp")
}
