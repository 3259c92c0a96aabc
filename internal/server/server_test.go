package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

// newTestServer builds a full server backed by a temporary sqlite database.
func newTestServer(t *testing.T, configure ...func(cfg *common.Config)) *Server {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "folio.db")
	cfg.Auth.LoginRatePerMinute = 0
	for _, fn := range configure {
		fn(cfg)
	}

	a, err := app.NewAppWithConfig(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// do sends a request through the full middleware stack.
func do(t *testing.T, srv *Server, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

type tokenEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	} `json:"data"`
}

// signup creates an account and returns its bearer token.
func signup(t *testing.T, srv *Server, email, password string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/auth/signup", jsonBody(t, map[string]string{
		"email":    email,
		"password": password,
		"name":     "Test User",
	}), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env tokenEnvelope
	decode(t, rec, &env)
	require.NotEmpty(t, env.Data.Token)
	return env.Data.Token
}
