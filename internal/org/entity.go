// AngelaMos | 2026
// entity.go

package org

import (
	"time"
)

// Organization is a tenant container. Names are not unique.
type Organization struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Membership binds one user to one organization with a role. At most one
// membership exists per (organization, user) pair; the store enforces this
// with a unique index and violations surface as conflicts, never overwrites.
type Membership struct {
	ID        string    `db:"id"`
	OrgID     string    `db:"organization_id"`
	UserID    string    `db:"user_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// MemberRow is the membership joined with its user for listings.
type MemberRow struct {
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	FullName  *string   `db:"full_name"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}
