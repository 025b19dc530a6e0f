package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

// UserService manages accounts on behalf of administrators.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, bcryptCost int) *UserService {
	return &UserService{users: users, roles: roles, bcryptCost: bcryptCost}
}

// UserCreateInput describes an account creation payload.
type UserCreateInput struct {
	Username string
	FullName string
	Password string
	RoleID   int64
}

// UserUpdateInput describes an account update. Nil fields are left untouched.
type UserUpdateInput struct {
	Username *string
	FullName *string
	Password *string
	RoleID   *int64
}

// Create registers a new account after verifying the role exists and the
// username is free.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	role, err := s.roles.GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("role", map[string]any{"role_id": input.RoleID})
		}
		return nil, util.MapError(err)
	}
	if !domain.Role(role.Name).Valid() {
		return nil, util.NewValidationError("role is not assignable", map[string]any{"role": role.Name})
	}

	username := strings.TrimSpace(input.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, util.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, util.MapError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, util.MapError(err)
	}
	return user, nil
}

// Update applies a partial account update.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.MapError(err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != user.Username {
			if _, err := s.users.GetByUsername(ctx, username); err == nil {
				return nil, util.NewConflict("username already taken", map[string]any{"username": username})
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, util.MapError(err)
			}
			user.Username = username
		}
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, util.MapError(err)
		}
		user.PasswordHash = hash
	}
	if input.RoleID != nil {
		role, err := s.roles.GetByID(ctx, *input.RoleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, util.NewNotFound("role", map[string]any{"role_id": *input.RoleID})
			}
			return nil, util.MapError(err)
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.MapError(err)
	}
	return user, nil
}

// Delete soft-deletes an account. Existing tickets keep their association
// with the removed account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user", nil)
		}
		return util.MapError(err)
	}
	return nil
}

// GetByID fetches a single account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.MapError(err)
	}
	return user, nil
}

// List returns every active account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return users, nil
}
