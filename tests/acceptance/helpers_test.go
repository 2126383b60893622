package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/dressmaker-orders-api/tests/testutil"
	"github.com/stretchr/testify/require"
)

// server runs the full app on a real listener
type server struct {
	app *testutil.App
	srv *httptest.Server
}

func startServer(t *testing.T) *server {
	t.Helper()
	testutil.MustSetTestEnvironment(t)
	app := testutil.NewApp(t)
	srv := httptest.NewServer(app.Engine)
	t.Cleanup(srv.Close)
	return &server{app: app, srv: srv}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (s *server) send(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: body}
}

func (s *server) call(t *testing.T, method, path string, body interface{}, token string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(token))
	}
	return s.send(t, req)
}

func (s *server) admin(t *testing.T, method, path string, body interface{}) response {
	t.Helper()
	return s.call(t, method, path, body, s.app.Token)
}

// decode parses the envelope into env and its data into out when non-nil
func (r response) decode(t *testing.T, out interface{}) testutil.Envelope {
	t.Helper()
	var env testutil.Envelope
	require.NoError(t, json.Unmarshal(r.body, &env), string(r.body))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(r.body))
	}
	return env
}

func (r response) requireStatus(t *testing.T, status int) {
	t.Helper()
	require.Equal(t, status, r.status, string(r.body))
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	env := r.decode(t, nil)
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}
