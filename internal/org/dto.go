// AngelaMos | 2026
// dto.go

package org

import (
	"time"
)

type CreateOrgRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateOrgRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role"  validate:"required,oneof=ADMIN MANAGER VIEWER"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MANAGER VIEWER"`
}

type OrgResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
}

type MemberResponse struct {
	User      MemberUser `json:"user"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

type RoleResponse struct {
	Role *string `json:"role"`
}

type MembershipResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToOrgResponse(o *Organization) OrgResponse {
	return OrgResponse{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}

func ToOrgResponseList(orgs []Organization) []OrgResponse {
	responses := make([]OrgResponse, 0, len(orgs))
	for _, o := range orgs {
		responses = append(responses, ToOrgResponse(&o))
	}
	return responses
}

func ToMembershipResponse(m *Membership) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		OrgID:     m.OrgID,
		UserID:    m.UserID,
		Role:      m.Role.String(),
		CreatedAt: m.CreatedAt,
	}
}

func ToMemberResponse(m *MemberRow) MemberResponse {
	return MemberResponse{
		User: MemberUser{
			ID:       m.UserID,
			Email:    m.Email,
			FullName: m.FullName,
		},
		Role:      m.Role.String(),
		CreatedAt: m.CreatedAt,
	}
}

func ToMemberResponseList(members []MemberRow) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, ToMemberResponse(&members[i]))
	}
	return responses
}
