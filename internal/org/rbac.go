// AngelaMos | 2026
// rbac.go

package org

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhaipedapaga/opspilot/internal/core"
	"github.com/abhaipedapaga/opspilot/internal/middleware"
)

// MembershipResolver looks up the unique membership for an (org, user) pair.
type MembershipResolver interface {
	GetMembership(ctx context.Context, orgID, userID string) (*Membership, error)
}

// RequireRole gates a request on the caller holding one of the listed roles
// in the target organization. The org id is resolved from the `orgID` route
// parameter first, then the `orgId` query parameter; the request body is
// never consulted. Failures are terminal: 400 when no org id is present,
// 403 when the caller is not a member or the role is not in the allow-list,
// 500 on a store failure. On success the member role is bound to the
// request context.
func RequireRole(
	resolver MembershipResolver,
	roles ...Role,
) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := middleware.GetUserID(r.Context())
			if userID == "" {
				core.Unauthorized(w, "")
				return
			}

			orgID := OrgIDFromRequest(r)
			if orgID == "" {
				core.BadRequest(w, "orgId is required")
				return
			}

			m, err := resolver.GetMembership(r.Context(), orgID, userID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.Forbidden(w, "not a member of this organization")
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if _, ok := allowed[m.Role]; !ok {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			ctx := middleware.WithMemberRole(r.Context(), m.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OrgIDFromRequest resolves the target org id: route param, then query.
func OrgIDFromRequest(r *http.Request) string {
	if orgID := chi.URLParam(r, "orgID"); orgID != "" {
		return orgID
	}
	return r.URL.Query().Get("orgId")
}

// MemberRoleFromContext returns the role bound by RequireRole, if any.
func MemberRoleFromContext(ctx context.Context) (Role, bool) {
	role := Role(middleware.GetMemberRole(ctx))
	if !role.Valid() {
		return "", false
	}
	return role, true
}
