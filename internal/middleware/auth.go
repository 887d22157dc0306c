// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/abhaipedapaga/opspilot/internal/core"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	MemberRoleKey contextKey = "member_role"
	RequestIDKey  contextKey = "request_id"
)

// TokenVerifier resolves a bearer token to the subject user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Authenticator gates a request on a valid bearer token and binds the
// resolved user id to the request context. It never touches the store.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken returns the bearer token from the Authorization header, or ""
// when the header is absent or carries a different scheme.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Both expiry and signature failures stay 401; only the error code differs.
func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetMemberRole(ctx context.Context) string {
	if role, ok := ctx.Value(MemberRoleKey).(string); ok {
		return role
	}
	return ""
}

func WithMemberRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, MemberRoleKey, role)
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
