package service

import (
	"context"
	"fmt"
	"strings"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/domain"
	"cafe-system/internal/repository"
)

type AuthServiceInterface interface {
	CreateUser(ctx context.Context, login, password, phone string) error
	Login(ctx context.Context, login, password string) (string, bool, error)
	ResolveRole(ctx context.Context, login string) (domain.Role, error)
}

type AuthService struct {
	users repository.UserRepositoryInterface
	lg    *logger.Logger
}

func NewAuthService(users repository.UserRepositoryInterface) *AuthService {
	return &AuthService{users: users, lg: logger.New("auth")}
}

// CreateUser registers a customer with no favourite items.
func (s *AuthService) CreateUser(ctx context.Context, login, password, phone string) error {
	if strings.TrimSpace(login) == "" {
		return &domain.ValidationError{Field: "login", Reason: "must not be empty"}
	}
	if password == "" {
		return &domain.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	err := s.users.Create(ctx, domain.User{
		Login:    login,
		Password: password,
		PhoneNum: phone,
		FavItems: "",
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		return err
	}
	s.lg.Info("user_created", map[string]any{"login": login})
	return nil
}

// Login returns the login as the authenticated identity when the pair
// matches a stored user. ok is false for unknown or mismatched pairs.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, bool, error) {
	ok, err := s.users.Authenticate(ctx, login, password)
	if err != nil {
		return "", false, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.lg.Info("login_rejected", map[string]any{"login": login})
		return "", false, nil
	}
	s.lg.Info("login_succeeded", map[string]any{"login": login})
	return login, true, nil
}

func (s *AuthService) ResolveRole(ctx context.Context, login string) (domain.Role, error) {
	raw, err := s.users.Role(ctx, login)
	if err != nil {
		return "", err
	}
	return domain.ParseRole(raw)
}
