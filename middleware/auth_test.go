package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		GoEnv:         "test",
		AdminSecret:   "shop-secret",
		AdminTokenTTL: time.Hour,
		TokenIssuer:   "dressmaker-orders-api",
		TokenAudience: "dressmaker-admin",
	}
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	requireAdmin, err := RequireAdmin(cfg)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", requireAdmin, func(c *gin.Context) {
		claims, err := GetClaims(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"subject": claims.RegisteredClaims.Subject}})
	})
	return router
}

func TestRequireAdmin(t *testing.T) {
	cfg := testAuthConfig()
	router := adminRouter(t, cfg)

	valid, _, err := services.NewAdminAuthService(cfg).Verify("shop-secret")
	require.NoError(t, err)

	now := time.Now()
	base := jwt.RegisteredClaims{
		Issuer:    cfg.TokenIssuer,
		Subject:   services.AdminSubject,
		Audience:  jwt.ClaimStrings{cfg.TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := base
	expired.IssuedAt = jwt.NewNumericDate(now.Add(-3 * time.Hour))
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))

	wrongAudience := base
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongSubject := base
	wrongSubject.Subject = "customer"

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "issued token", authHeader: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "signed with another secret", authHeader: "Bearer " + signToken(t, "other", base), wantStatus: http.StatusUnauthorized},
		{name: "expired", authHeader: "Bearer " + signToken(t, cfg.AdminSecret, expired), wantStatus: http.StatusUnauthorized},
		{name: "wrong audience", authHeader: "Bearer " + signToken(t, cfg.AdminSecret, wrongAudience), wantStatus: http.StatusUnauthorized},
		{name: "wrong subject", authHeader: "Bearer " + signToken(t, cfg.AdminSecret, wrongSubject), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, true, body["success"])
				return
			}
			assert.Equal(t, false, body["success"])
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, "INVALID_TOKEN", errObj["code"])
		})
	}
}

func TestRequireAdminNeedsSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AdminSecret = ""
	_, err := RequireAdmin(cfg)
	assert.Error(t, err)
}

func TestGetClaimsMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantCode  string
	}{
		{
			name:      "claims not found in context",
			setupFunc: func(c *gin.Context) {},
			wantCode:  "MISSING_CLAIMS",
		},
		{
			name: "claims have the wrong type",
			setupFunc: func(c *gin.Context) {
				c.Set(claimsKey, "not claims")
			},
			wantCode: "INVALID_CLAIMS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupFunc(c)

			claims, err := GetClaims(c)
			assert.Nil(t, claims)
			require.Error(t, err)
			authErr, ok := err.(*AuthError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, authErr.Code)
		})
	}
}
