package testutil

import (
	"testing"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/stretchr/testify/require"
)

// AdminSecret is the shared secret in TestConfig
const AdminSecret = "test-admin-secret"

// LineChannelSecret signs webhook bodies in TestConfig
const LineChannelSecret = "test-channel-secret"

// TestConfig is a complete configuration for in-process tests
func TestConfig() *config.Config {
	return &config.Config{
		GoEnv:             "test",
		Port:              "8080",
		LogLevel:          "debug",
		MongoDatabase:     "dressmaker_test",
		AdminSecret:       AdminSecret,
		AdminTokenTTL:     time.Hour,
		TokenIssuer:       "dressmaker-orders-api",
		TokenAudience:     "dressmaker-admin",
		LineChannelSecret: LineChannelSecret,
		AdminLineUserIDs:  []string{"Uadmin"},
		PublicBaseURL:     "https://shop.test",
	}
}

// AdminToken issues a bearer token the way POST /auth/verify does
func AdminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, _, err := services.NewAdminAuthService(cfg).Verify(cfg.AdminSecret)
	require.NoError(t, err)
	return token
}

// BearerHeader formats the Authorization header value
func BearerHeader(token string) string {
	return "Bearer " + token
}
