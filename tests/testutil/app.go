package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
	"github.com/kendall-kelly/dressmaker-orders-api/router"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"github.com/kendall-kelly/dressmaker-orders-api/worker"
	"github.com/stretchr/testify/require"
)

// App is the full HTTP stack over caller supplied stores with mocked LINE,
// sheet and image collaborators. The queue runs tasks in process.
type App struct {
	Config *config.Config
	Engine *gin.Engine
	Orders store.OrderStore
	Users  store.UserStore
	Line   *services.MockLineClient
	Sheet  *services.MockSheetAppender
	Images *services.MockImageService
	Queue  *queue.Client
	Token  string
}

// NewApp wires the stack on in-memory stores
func NewApp(t *testing.T) *App {
	t.Helper()
	return NewAppWithStores(t, TestConfig(), store.NewMemoryOrderStore(), store.NewMemoryUserStore())
}

// NewAppWithStores wires the stack on the given stores
func NewAppWithStores(t *testing.T, cfg *config.Config, orders store.OrderStore, users store.UserStore) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &App{
		Config: cfg,
		Orders: orders,
		Users:  users,
		Line:   services.NewMockLineClient(),
		Sheet:  services.NewMockSheetAppender(),
		Images: services.NewMockImageService(),
	}

	cfg.QueueEnabled = false
	app.Queue = queue.NewClient(cfg)
	app.Queue.SetInlineHandler(worker.NewMux(&worker.Consumer{
		Orders:   orders,
		Users:    users,
		Line:     app.Line,
		Sheet:    app.Sheet,
		Links:    cfg,
		AdminIDs: cfg.AdminLineUserIDs,
	}))
	t.Cleanup(app.Queue.Wait)

	engine, err := router.Setup(router.Deps{
		Config:  cfg,
		Orders:  services.NewOrderService(orders, users, services.NewQueueNotifier(app.Queue), app.Images),
		Members: services.NewMemberService(users),
		Auth:    services.NewAdminAuthService(cfg),
		Line:    app.Line,
	})
	require.NoError(t, err)
	app.Engine = engine
	app.Token = AdminToken(t, cfg)
	return app
}

// Do sends a JSON request; token may be empty for public routes
func (a *App) Do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", BearerHeader(token))
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

// AdminDo sends a JSON request with the admin token
func (a *App) AdminDo(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return a.Do(t, method, path, body, a.Token)
}

// Envelope is the response wrapper every JSON endpoint uses
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"pagination"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decode parses the envelope and, when out is non-nil, its data
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// ErrorCode returns the error code of a failed response
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := Decode(t, w, nil)
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

// RequireStatus fails unless the response has the expected status
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
