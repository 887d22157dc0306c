// AngelaMos | 2026
// handler_test.go

package org

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhaipedapaga/opspilot/internal/core"
	"github.com/abhaipedapaga/opspilot/internal/middleware"
)

// memRepository is an in-memory Repository for routing tests.
type memRepository struct {
	orgs        map[string]*Organization
	memberships map[string]*Membership
}

func newMemRepository() *memRepository {
	return &memRepository{
		orgs:        make(map[string]*Organization),
		memberships: make(map[string]*Membership),
	}
}

func (r *memRepository) key(orgID, userID string) string {
	return orgID + "/" + userID
}

func (r *memRepository) CreateWithAdmin(
	_ context.Context,
	o *Organization,
	userID string,
) error {
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.orgs[o.ID] = o
	r.memberships[r.key(o.ID, userID)] = &Membership{
		ID:     "m-" + o.ID,
		OrgID:  o.ID,
		UserID: userID,
		Role:   RoleAdmin,
	}
	return nil
}

func (r *memRepository) GetByID(
	_ context.Context,
	id string,
) (*Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return nil, fmt.Errorf("get organization: %w", core.ErrNotFound)
	}
	return o, nil
}

func (r *memRepository) ListForUser(
	_ context.Context,
	userID string,
) ([]Organization, error) {
	var orgs []Organization
	for _, m := range r.memberships {
		if m.UserID == userID {
			orgs = append(orgs, *r.orgs[m.OrgID])
		}
	}
	return orgs, nil
}

func (r *memRepository) UpdateName(
	_ context.Context,
	id, name string,
) (*Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return nil, fmt.Errorf("update organization: %w", core.ErrNotFound)
	}
	o.Name = name
	return o, nil
}

func (r *memRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.orgs[id]; !ok {
		return fmt.Errorf("delete organization: %w", core.ErrNotFound)
	}
	delete(r.orgs, id)
	return nil
}

func (r *memRepository) CreateMembership(
	_ context.Context,
	m *Membership,
) error {
	key := r.key(m.OrgID, m.UserID)
	if _, exists := r.memberships[key]; exists {
		return fmt.Errorf("create membership: %w", core.ErrDuplicateKey)
	}
	r.memberships[key] = m
	return nil
}

func (r *memRepository) GetMembership(
	_ context.Context,
	orgID, userID string,
) (*Membership, error) {
	m, ok := r.memberships[r.key(orgID, userID)]
	if !ok {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	return m, nil
}

func (r *memRepository) ListMembers(
	_ context.Context,
	orgID string,
) ([]MemberRow, error) {
	var rows []MemberRow
	for _, m := range r.memberships {
		if m.OrgID == orgID {
			rows = append(rows, MemberRow{
				UserID:    m.UserID,
				Email:     m.UserID + "@example.com",
				Role:      m.Role,
				CreatedAt: m.CreatedAt,
			})
		}
	}
	return rows, nil
}

func (r *memRepository) UpdateMembershipRole(
	_ context.Context,
	orgID, userID string,
	role Role,
) error {
	m, ok := r.memberships[r.key(orgID, userID)]
	if !ok {
		return fmt.Errorf("update membership role: %w", core.ErrNotFound)
	}
	m.Role = role
	return nil
}

func (r *memRepository) DeleteMembership(
	_ context.Context,
	orgID, userID string,
) error {
	key := r.key(orgID, userID)
	if _, ok := r.memberships[key]; !ok {
		return fmt.Errorf("delete membership: %w", core.ErrNotFound)
	}
	delete(r.memberships, key)
	return nil
}

type memUserFinder struct {
	idsByEmail map[string]string
}

func (f *memUserFinder) FindUserIDByEmail(
	_ context.Context,
	email string,
) (string, error) {
	id, ok := f.idsByEmail[email]
	if !ok {
		return "", fmt.Errorf("find user: %w", core.ErrNotFound)
	}
	return id, nil
}

// headerAuthenticator trusts an X-Test-User header so routing tests skip
// real token verification.
func headerAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-Test-User")
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(
			middleware.WithUserID(r.Context(), userID),
		))
	})
}

type orgFixture struct {
	router chi.Router
	repo   *memRepository
}

// newOrgFixture mounts the org routes with one org where "admin" is ADMIN
// and "viewer" is VIEWER.
func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()

	repo := newMemRepository()
	finder := &memUserFinder{idsByEmail: map[string]string{
		"admin@example.com":  "admin",
		"viewer@example.com": "viewer",
		"new@example.com":    "newbie",
	}}

	svc := NewService(repo, finder)
	handler := NewHandler(svc)

	router := chi.NewRouter()
	handler.RegisterRoutes(router, headerAuthenticator)

	now := time.Now()
	repo.orgs["o1"] = &Organization{
		ID:        "o1",
		Name:      "Acme",
		CreatedAt: now,
		UpdatedAt: now,
	}
	repo.memberships["o1/admin"] = &Membership{
		ID: "m1", OrgID: "o1", UserID: "admin", Role: RoleAdmin,
	}
	repo.memberships["o1/viewer"] = &Membership{
		ID: "m2", OrgID: "o1", UserID: "viewer", Role: RoleViewer,
	}

	return &orgFixture{router: router, repo: repo}
}

func (f *orgFixture) do(
	method, target, user, body string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestViewerCanListMembers(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(http.MethodGet, "/orgs/o1/members", "viewer", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var members []MemberResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("len(members) = %d, want 2", len(members))
	}
}

func TestViewerCannotRenameOrg(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(
		http.MethodPatch,
		"/orgs/o1",
		"viewer",
		`{"name":"Hacked"}`,
	)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAdminCanDeleteOrg(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(http.MethodDelete, "/orgs/o1", "admin", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body)
	}

	if _, ok := f.repo.orgs["o1"]; ok {
		t.Error("org should be deleted")
	}
}

func TestNonMemberCannotListMembers(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(http.MethodGet, "/orgs/o1/members", "stranger", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Error.Message != "not a member of this organization" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestAddMemberConflict(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(
		http.MethodPost,
		"/orgs/o1/members",
		"admin",
		`{"email":"viewer@example.com","role":"MANAGER"}`,
	)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body)
	}
}

func TestAddMemberSuccess(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(
		http.MethodPost,
		"/orgs/o1/members",
		"admin",
		`{"email":"new@example.com","role":"VIEWER"}`,
	)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var resp MembershipResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode membership: %v", err)
	}
	if resp.UserID != "newbie" || resp.Role != "VIEWER" {
		t.Errorf("membership = %+v", resp)
	}
}

func TestMyRole(t *testing.T) {
	f := newOrgFixture(t)

	tests := []struct {
		name     string
		target   string
		user     string
		wantCode int
		wantRole *string
	}{
		{
			name:     "member",
			target:   "/me/role?orgId=o1",
			user:     "viewer",
			wantCode: http.StatusOK,
			wantRole: strPtr("VIEWER"),
		},
		{
			name:     "non-member",
			target:   "/me/role?orgId=o1",
			user:     "stranger",
			wantCode: http.StatusOK,
			wantRole: nil,
		},
		{
			name:     "missing org id",
			target:   "/me/role",
			user:     "viewer",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.target, tt.user, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp RoleResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode role: %v", err)
			}
			switch {
			case tt.wantRole == nil && resp.Role != nil:
				t.Errorf("role = %q, want null", *resp.Role)
			case tt.wantRole != nil && resp.Role == nil:
				t.Errorf("role = null, want %q", *tt.wantRole)
			case tt.wantRole != nil && *resp.Role != *tt.wantRole:
				t.Errorf("role = %q, want %q", *resp.Role, *tt.wantRole)
			}
		})
	}
}

func TestUnauthenticatedRequest(t *testing.T) {
	f := newOrgFixture(t)

	rec := f.do(http.MethodGet, "/orgs", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func strPtr(s string) *string {
	return &s
}
