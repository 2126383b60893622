package services

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
)

// AdminSubject is the subject of every admin token; there is one shared login
const AdminSubject = "admin"

// AdminAuthService exchanges the shared admin secret for a signed bearer token
type AdminAuthService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewAdminAuthService(cfg *config.Config) *AdminAuthService {
	ttl := cfg.AdminTokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuthService{
		secret:   []byte(cfg.AdminSecret),
		issuer:   cfg.TokenIssuer,
		audience: cfg.TokenAudience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Verify compares the submitted secret in constant time and issues an HS256
// token on a match
func (s *AdminAuthService) Verify(secret string) (string, time.Time, error) {
	if len(s.secret) == 0 || subtle.ConstantTimeCompare([]byte(secret), s.secret) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   AdminSubject,
		Audience:  jwt.ClaimStrings{s.audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
