package service

import (
	"context"
	"fmt"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
	"cafe-system/internal/repository"
)

type UserServiceInterface interface {
	Update(ctx context.Context, login string, field domain.UserField, value string) (database.Result, error)
}

type UserService struct {
	users repository.UserRepositoryInterface
	lg    *logger.Logger
}

func NewUserService(users repository.UserRepositoryInterface) *UserService {
	return &UserService{users: users, lg: logger.New("users")}
}

// Update changes one field of login and returns the user's row afterwards.
// Role values are validated against the closed role set and stored in
// canonical form.
func (s *UserService) Update(ctx context.Context, login string, field domain.UserField, value string) (database.Result, error) {
	switch field {
	case domain.FieldRole:
		role, err := domain.ParseRole(value)
		if err != nil {
			return database.Result{}, err
		}
		value = string(role)
	case domain.FieldPassword:
		if value == "" {
			return database.Result{}, &domain.ValidationError{Field: "password", Reason: "must not be empty"}
		}
	}

	n, err := s.users.UpdateField(ctx, login, field, value)
	if err != nil {
		return database.Result{}, fmt.Errorf("update user %s: %w", login, err)
	}
	if n == 0 {
		return database.Result{}, fmt.Errorf("user %s: %w", login, domain.ErrNotFound)
	}
	s.lg.Info("user_updated", map[string]any{"login": login, "field": string(field)})
	return s.users.Show(ctx, login)
}
