// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User is an account identity. PasswordHash is nil for accounts that were
// provisioned without a password and cannot authenticate with one.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	FullName     *string   `db:"full_name"`
	PasswordHash *string   `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) CanAuthenticate() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
