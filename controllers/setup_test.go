package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/middleware"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"github.com/stretchr/testify/require"
)

// testEnv mounts the handlers without the admin middleware
type testEnv struct {
	router   *gin.Engine
	orders   *store.MemoryOrderStore
	users    *store.MemoryUserStore
	notifier *services.MockNotifier
	images   *services.MockImageService
	line     *services.MockLineClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		orders:   store.NewMemoryOrderStore(),
		users:    store.NewMemoryUserStore(),
		notifier: services.NewMockNotifier(),
		images:   services.NewMockImageService(),
		line:     services.NewMockLineClient(),
	}
	orderService := services.NewOrderService(env.orders, env.users, env.notifier, env.images)
	memberService := services.NewMemberService(env.users)

	orders := NewOrderController(orderService)
	members := NewMemberController(memberService)
	confirm := NewConfirmController(orderService)
	webhook := NewWebhookController(memberService, orderService, env.line)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/orders", orders.ListOrders)
	v1.POST("/orders", orders.CreateOrder)
	v1.GET("/orders/export", orders.ExportOrders)
	v1.GET("/orders/confirm-received/:id", confirm.ConfirmReceived)
	v1.GET("/orders/:id", orders.GetOrder)
	v1.PUT("/orders/:id", orders.UpdateOrder)
	v1.DELETE("/orders/:id", orders.DeleteOrder)
	v1.PUT("/orders/:id/status", orders.UpdateStatus)
	v1.POST("/orders/:id/assign-tailor", orders.AssignTailor)
	v1.POST("/orders/:id/image", orders.UploadImage)
	v1.PUT("/orders/:id/tailor-status", orders.UpdateTailorStatus)
	v1.GET("/tailors/:lineUserId/jobs", orders.ListTailorJobs)
	v1.GET("/customers/:lineUserId/orders", orders.ListCustomerOrders)
	v1.POST("/members/register", members.Register)
	v1.GET("/members", members.ListMembers)
	v1.GET("/members/:id", members.GetMember)
	v1.PUT("/members/:id", members.UpdateMember)
	v1.DELETE("/members/:id", members.DeleteMember)
	v1.POST("/members/:id/promote", members.Promote)
	v1.POST("/members/:id/demote", members.Demote)
	v1.GET("/tailors", members.ListTailors)
	v1.POST("/webhook/line", middleware.LineWebhook(""), webhook.HandleLine)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) member(t *testing.T, lineUserID, name string) *models.User {
	t.Helper()
	user, err := e.users.Upsert(context.Background(), &models.User{LineUserID: lineUserID, DisplayName: name})
	require.NoError(t, err)
	return user
}

func (e *testEnv) tailor(t *testing.T, lineUserID, name string) *models.User {
	t.Helper()
	user := e.member(t, lineUserID, name)
	user.PromoteToTailor("gowns")
	require.NoError(t, e.users.Update(context.Background(), user))
	return user
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := parseResponse(t, w)["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseResponse(t, w)["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
