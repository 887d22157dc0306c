// AngelaMos | 2026
// repository.go

package org

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/abhaipedapaga/opspilot/internal/core"
)

type Repository interface {
	CreateWithAdmin(ctx context.Context, o *Organization, userID string) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	ListForUser(ctx context.Context, userID string) ([]Organization, error)
	UpdateName(ctx context.Context, id, name string) (*Organization, error)
	Delete(ctx context.Context, id string) error

	CreateMembership(ctx context.Context, m *Membership) error
	GetMembership(
		ctx context.Context,
		orgID, userID string,
	) (*Membership, error)
	ListMembers(ctx context.Context, orgID string) ([]MemberRow, error)
	UpdateMembershipRole(
		ctx context.Context,
		orgID, userID string,
		role Role,
	) error
	DeleteMembership(ctx context.Context, orgID, userID string) error
}

// repository holds *sqlx.DB rather than core.DBTX because organization
// creation spans two inserts in one transaction.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithAdmin(
	ctx context.Context,
	o *Organization,
	userID string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		orgQuery := `
			INSERT INTO organizations (id, name)
			VALUES ($1, $2)
			RETURNING created_at, updated_at`

		if err := tx.GetContext(ctx, o, orgQuery, o.ID, o.Name); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}

		memberQuery := `
			INSERT INTO memberships (id, organization_id, user_id, role)
			VALUES (gen_random_uuid(), $1, $2, $3)`

		if _, err := tx.ExecContext(
			ctx,
			memberQuery,
			o.ID,
			userID,
			RoleAdmin,
		); err != nil {
			return fmt.Errorf("create admin membership: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Organization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations
		WHERE id = $1`

	var o Organization
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get organization: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return &o, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]Organization, error) {
	query := `
		SELECT o.id, o.name, o.created_at, o.updated_at
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at DESC`

	var orgs []Organization
	if err := r.db.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}

	return orgs, nil
}

func (r *repository) UpdateName(
	ctx context.Context,
	id, name string,
) (*Organization, error) {
	query := `
		UPDATE organizations
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`

	var o Organization
	err := r.db.GetContext(ctx, &o, query, id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update organization: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}

	return &o, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM organizations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete organization: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateMembership(
	ctx context.Context,
	m *Membership,
) error {
	query := `
		INSERT INTO memberships (id, organization_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &m.CreatedAt, query,
		m.ID,
		m.OrgID,
		m.UserID,
		m.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create membership: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

func (r *repository) GetMembership(
	ctx context.Context,
	orgID, userID string,
) (*Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, orgID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &m, nil
}

func (r *repository) ListMembers(
	ctx context.Context,
	orgID string,
) ([]MemberRow, error) {
	query := `
		SELECT m.user_id, u.email, u.full_name, m.role, m.created_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.created_at ASC`

	var members []MemberRow
	if err := r.db.SelectContext(ctx, &members, query, orgID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

func (r *repository) UpdateMembershipRole(
	ctx context.Context,
	orgID, userID string,
	role Role,
) error {
	query := `
		UPDATE memberships
		SET role = $3
		WHERE organization_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, userID, role)
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update membership role: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteMembership(
	ctx context.Context,
	orgID, userID string,
) error {
	query := `
		DELETE FROM memberships
		WHERE organization_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, userID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete membership: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
