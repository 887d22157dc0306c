// AngelaMos | 2026
// token.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/abhaipedapaga/opspilot/internal/config"
	"github.com/abhaipedapaga/opspilot/internal/core"
)

// TokenManager issues and verifies HMAC-signed access tokens. The signing
// secret is injected once at construction and is the only authentication
// factor a verified token asserts.
type TokenManager struct {
	key    jwk.Key
	config config.TokenConfig
}

func NewTokenManager(cfg config.TokenConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token manager: signing secret is required")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &TokenManager{
		key:    key,
		config: cfg,
	}, nil
}

func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(m.config.AccessTokenExpire)).
		NotBefore(now).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify returns the subject user id. Expiry maps to core.ErrTokenExpired;
// every other failure maps to core.ErrTokenInvalid.
func (m *TokenManager) Verify(
	ctx context.Context,
	tokenString string,
) (string, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return "", fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return "", fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return subject, nil
}

func (m *TokenManager) Expiry() time.Duration {
	return m.config.AccessTokenExpire
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
