// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/abhaipedapaga/opspilot/internal/core"
)

// Totals holds the dashboard counters.
type Totals struct {
	TotalOrgs    int `db:"total_orgs"`
	TotalUsers   int `db:"total_users"`
	TotalMembers int `db:"total_members"`
}

// RecentOrg is a slim organization row for the dashboard feed.
type RecentOrg struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	RecentOrgs(ctx context.Context, limit int) ([]RecentOrg, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM organizations) AS total_orgs,
			(SELECT COUNT(*) FROM users)         AS total_users,
			(SELECT COUNT(*) FROM memberships)   AS total_members`

	var t Totals
	if err := r.db.GetContext(ctx, &t, query); err != nil {
		return nil, fmt.Errorf("load totals: %w", err)
	}

	return &t, nil
}

func (r *repository) RecentOrgs(
	ctx context.Context,
	limit int,
) ([]RecentOrg, error) {
	query := `
		SELECT id, name, created_at
		FROM organizations
		ORDER BY created_at DESC
		LIMIT $1`

	var orgs []RecentOrg
	if err := r.db.SelectContext(ctx, &orgs, query, limit); err != nil {
		return nil, fmt.Errorf("load recent organizations: %w", err)
	}

	return orgs, nil
}
