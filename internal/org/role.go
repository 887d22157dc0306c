// AngelaMos | 2026
// role.go

package org

import (
	"fmt"

	"github.com/abhaipedapaga/opspilot/internal/core"
)

// Role is the capability a membership grants within one organization. Roles
// are a closed set and carry no hierarchy: every protected operation names
// the exact roles it accepts.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleViewer  Role = "VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q: %w", s, core.ErrInvalidInput)
	}
	return role, nil
}
