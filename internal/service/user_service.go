package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService handles manager-level account administration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

// UserCreateInput carries fields for a manager-created account.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// CreateUser lets a manager provision an account with any role.
func (s *UserService) CreateUser(ctx context.Context, actor domain.ActorContext, input UserCreateInput) (*domain.User, error) {
	if actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleNotPermitted("only managers can create users")
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if _, ok := domain.ParseUserRole(string(input.Role)); !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetUser loads a single user. Clients can only read their own record.
func (s *UserService) GetUser(ctx context.Context, actor domain.ActorContext, id string) (*domain.User, error) {
	if actor.Role == domain.RoleClient && actor.UserID != id {
		return nil, apperrors.NewForbidden("cannot read other users")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns all accounts, optionally filtered by role.
func (s *UserService) ListUsers(ctx context.Context, actor domain.ActorContext, role *domain.UserRole) ([]domain.User, error) {
	if actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleNotPermitted("only managers can list users")
	}
	if role != nil {
		users, err := s.users.ListByRole(ctx, *role)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return users, nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// SetActive toggles an account on or off.
func (s *UserService) SetActive(ctx context.Context, actor domain.ActorContext, id string, active bool) (*domain.User, error) {
	if actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleNotPermitted("only managers can change account state")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
