package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
)

const (
	subjectKey = "subject"
	claimsKey  = "validated_claims"
)

// RequireAdmin validates the HS256 bearer token issued by POST /auth/verify
func RequireAdmin(cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.AdminSecret == "" {
		return nil, errors.New("admin secret is not configured")
	}
	secret := []byte(cfg.AdminSecret)

	jwtValidator, err := validator.New(
		func(context.Context) (interface{}, error) { return secret, nil },
		validator.HS256,
		cfg.TokenIssuer,
		[]string{cfg.TokenAudience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Debugw("admin_token_rejected", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok || claims.RegisteredClaims.Subject != services.AdminSubject {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
				return
			}
			c.Set(subjectKey, claims.RegisteredClaims.Subject)
			c.Set(claimsKey, claims)
			c.Request = r
			passed = true
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}, nil
}

// GetClaims extracts the validated admin claims from the gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
