// AngelaMos | 2026
// rbac_test.go

package org

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abhaipedapaga/opspilot/internal/core"
	"github.com/abhaipedapaga/opspilot/internal/middleware"
)

type stubResolver struct {
	membership *Membership
	err        error

	gotOrgID  string
	gotUserID string
}

func (s *stubResolver) GetMembership(
	_ context.Context,
	orgID, userID string,
) (*Membership, error) {
	s.gotOrgID = orgID
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.membership, nil
}

func memberOf(orgID, userID string, role Role) *Membership {
	return &Membership{
		ID:     "m1",
		OrgID:  orgID,
		UserID: userID,
		Role:   role,
	}
}

// serveGated routes the request through a chi router so the orgID route
// param resolves the same way it does in production.
func serveGated(
	resolver MembershipResolver,
	allowed []Role,
	userID, target string,
	next http.HandlerFunc,
) *httptest.ResponseRecorder {
	if next == nil {
		next = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
	}

	r := chi.NewRouter()
	r.With(RequireRole(resolver, allowed...)).Get("/orgs/{orgID}/widget", next)
	r.With(RequireRole(resolver, allowed...)).Get("/widget", next)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req = req.WithContext(
			middleware.WithUserID(req.Context(), userID),
		)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o1", "u1", RoleAdmin)}

	rec := serveGated(
		resolver,
		[]Role{RoleAdmin},
		"u1",
		"/orgs/o1/widget",
		nil,
	)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resolver.gotOrgID != "o1" || resolver.gotUserID != "u1" {
		t.Errorf(
			"resolver called with (%q, %q), want (o1, u1)",
			resolver.gotOrgID,
			resolver.gotUserID,
		)
	}
}

func TestRequireRoleRejectsUnlistedRole(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o1", "u1", RoleViewer)}

	rec := serveGated(
		resolver,
		[]Role{RoleAdmin, RoleManager},
		"u1",
		"/orgs/o1/widget",
		nil,
	)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireRoleRejectsNonMember(t *testing.T) {
	resolver := &stubResolver{err: fmt.Errorf("lookup: %w", core.ErrNotFound)}

	rec := serveGated(
		resolver,
		[]Role{RoleViewer},
		"u1",
		"/orgs/o1/widget",
		nil,
	)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireRoleMissingOrgID(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o1", "u1", RoleAdmin)}

	rec := serveGated(resolver, []Role{RoleAdmin}, "u1", "/widget", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resolver.gotUserID != "" {
		t.Error("resolver should not be called without an org id")
	}
}

func TestRequireRoleQueryFallback(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o9", "u1", RoleViewer)}

	rec := serveGated(
		resolver,
		[]Role{RoleViewer},
		"u1",
		"/widget?orgId=o9",
		nil,
	)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resolver.gotOrgID != "o9" {
		t.Errorf("resolver org id = %q, want o9", resolver.gotOrgID)
	}
}

func TestRequireRoleStoreFailure(t *testing.T) {
	resolver := &stubResolver{err: errors.New("connection refused")}

	rec := serveGated(
		resolver,
		[]Role{RoleAdmin},
		"u1",
		"/orgs/o1/widget",
		nil,
	)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf(
			"status = %d, want %d",
			rec.Code,
			http.StatusInternalServerError,
		)
	}
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o1", "u1", RoleAdmin)}

	rec := serveGated(resolver, []Role{RoleAdmin}, "", "/orgs/o1/widget", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRoleBindsMemberRole(t *testing.T) {
	resolver := &stubResolver{membership: memberOf("o1", "u1", RoleManager)}

	var gotRole Role
	var found bool
	rec := serveGated(
		resolver,
		[]Role{RoleManager},
		"u1",
		"/orgs/o1/widget",
		func(w http.ResponseWriter, r *http.Request) {
			gotRole, found = MemberRoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		},
	)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !found || gotRole != RoleManager {
		t.Errorf("bound role = (%q, %v), want (MANAGER, true)", gotRole, found)
	}
}
