package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maulidiphilip/money-manager-api/internal/config"
)

var (
	ErrMisconfigured = errors.New("auth config invalid")

	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// TokenCodec issues and verifies HS256-signed bearer tokens binding an email
// subject to a validity window. The secret is never mutated after
// construction, so a single codec is safe for concurrent use. Tokens are not
// persisted and cannot be revoked before expiry; expiry is the only
// termination mechanism.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(cfg config.AuthConfig) (*TokenCodec, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	ttl, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	return &TokenCodec{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
	}, nil
}

func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs a token for the given subject, valid from now until now+TTL.
func (tc *TokenCodec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify checks signature and expiry and returns the subject unchanged.
func (tc *TokenCodec) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return tc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenSignature
		}
	}
	if !token.Valid {
		return "", ErrTokenSignature
	}

	return claims.Subject, nil
}
