// AngelaMos | 2026
// handler.go

package org

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abhaipedapaga/opspilot/internal/core"
	"github.com/abhaipedapaga/opspilot/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts /me/role and the /orgs tree. Every route requires
// authentication; per-org routes additionally pass through the role gate.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me/role", h.MyRole)
	})

	r.Route("/orgs", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{orgID}", func(r chi.Router) {
			r.With(RequireRole(h.service, RoleAdmin, RoleManager)).
				Patch("/", h.Rename)
			r.With(RequireRole(h.service, RoleAdmin)).
				Delete("/", h.Delete)

			r.Route("/members", func(r chi.Router) {
				r.With(RequireRole(
					h.service,
					RoleAdmin,
					RoleManager,
					RoleViewer,
				)).Get("/", h.ListMembers)
				r.With(RequireRole(h.service, RoleAdmin, RoleManager)).
					Post("/", h.AddMember)

				r.Route("/{userID}", func(r chi.Router) {
					r.Use(RequireRole(h.service, RoleAdmin))
					r.Patch("/", h.UpdateMemberRole)
					r.Delete("/", h.RemoveMember)
				})
			})
		})
	})
}

// MyRole reports the caller's role in one org, or a null role when the
// caller is not a member. Membership absence is not an error here.
func (h *Handler) MyRole(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("orgId")
	if orgID == "" {
		core.BadRequest(w, "orgId is required")
		return
	}

	userID := middleware.GetUserID(r.Context())

	m, err := h.service.GetMembership(r.Context(), orgID, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.OK(w, RoleResponse{Role: nil})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	role := m.Role.String()
	core.OK(w, RoleResponse{Role: &role})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orgs, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrgResponseList(orgs))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	o, err := h.service.Create(r.Context(), req.Name, userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToOrgResponse(o))
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	orgID := chi.URLParam(r, "orgID")

	o, err := h.service.Rename(r.Context(), orgID, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "organization")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrgResponse(o))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	if err := h.service.Delete(r.Context(), orgID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "organization")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	members, err := h.service.Members(r.Context(), orgID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMemberResponseList(members))
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	orgID := chi.URLParam(r, "orgID")

	m, err := h.service.AddMember(r.Context(), orgID, req.Email, Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, ErrAlreadyMember):
			core.Conflict(w, "membership")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid role")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToMembershipResponse(m))
}

func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	orgID := chi.URLParam(r, "orgID")
	userID := chi.URLParam(r, "userID")

	err := h.service.UpdateMemberRole(r.Context(), orgID, userID, Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "membership")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid role")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	userID := chi.URLParam(r, "userID")

	if err := h.service.RemoveMember(r.Context(), orgID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "membership")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
