// AngelaMos | 2026
// service.go

package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhaipedapaga/opspilot/internal/core"
)

var (
	ErrAlreadyMember = errors.New("user is already a member")
	ErrUserNotFound  = errors.New("no user with that email")
)

// UserFinder resolves an email to a user id when adding members.
type UserFinder interface {
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
}

type Service struct {
	repo  Repository
	users UserFinder
}

func NewService(repo Repository, users UserFinder) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// Create inserts the organization and the creator's ADMIN membership in one
// transaction, so an org can never exist without at least one admin.
func (s *Service) Create(
	ctx context.Context,
	name, creatorID string,
) (*Organization, error) {
	o := &Organization{
		ID:   uuid.New().String(),
		Name: name,
	}

	if err := s.repo.CreateWithAdmin(ctx, o, creatorID); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]Organization, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Rename(
	ctx context.Context,
	orgID, name string,
) (*Organization, error) {
	return s.repo.UpdateName(ctx, orgID, name)
}

func (s *Service) Delete(ctx context.Context, orgID string) error {
	return s.repo.Delete(ctx, orgID)
}

func (s *Service) Members(
	ctx context.Context,
	orgID string,
) ([]MemberRow, error) {
	return s.repo.ListMembers(ctx, orgID)
}

func (s *Service) AddMember(
	ctx context.Context,
	orgID, email string,
	role Role,
) (*Membership, error) {
	if !role.Valid() {
		return nil, fmt.Errorf(
			"add member: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	userID, err := s.users.FindUserIDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	m := &Membership{
		ID:     uuid.New().String(),
		OrgID:  orgID,
		UserID: userID,
		Role:   role,
	}

	if err := s.repo.CreateMembership(ctx, m); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	return m, nil
}

func (s *Service) UpdateMemberRole(
	ctx context.Context,
	orgID, userID string,
	role Role,
) error {
	if !role.Valid() {
		return fmt.Errorf(
			"update member role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.UpdateMembershipRole(ctx, orgID, userID, role)
}

func (s *Service) RemoveMember(
	ctx context.Context,
	orgID, userID string,
) error {
	return s.repo.DeleteMembership(ctx, orgID, userID)
}

// GetMembership reports the caller's membership in an org; used by both the
// role gate and the /me/role endpoint.
func (s *Service) GetMembership(
	ctx context.Context,
	orgID, userID string,
) (*Membership, error) {
	return s.repo.GetMembership(ctx, orgID, userID)
}
