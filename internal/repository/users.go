package repository

import (
	"context"
	"fmt"

	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u domain.User) error
	Authenticate(ctx context.Context, login, password string) (bool, error)
	Role(ctx context.Context, login string) (string, error)
	UpdateField(ctx context.Context, login string, field domain.UserField, value string) (int64, error)
	Show(ctx context.Context, login string) (database.Result, error)
}

type UserRepository struct {
	ex database.Executor
}

func NewUserRepository(ex database.Executor) UserRepositoryInterface {
	return &UserRepository{ex: ex}
}

var userColumns = map[domain.UserField]string{
	domain.FieldPhone:    "phoneNum",
	domain.FieldPassword: "password",
	domain.FieldFavItems: "favItems",
	domain.FieldRole:     "type",
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.ex.Exec(ctx, `
		INSERT INTO Users (phoneNum, login, password, favItems, type)
		VALUES ($1, $2, $3, $4, $5)
	`, u.PhoneNum, u.Login, u.Password, u.FavItems, string(u.Role))
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.Login, err)
	}
	return nil
}

func (r *UserRepository) Authenticate(ctx context.Context, login, password string) (bool, error) {
	n, err := r.ex.QueryCount(ctx, `SELECT * FROM Users WHERE login = $1 AND password = $2`, login, password)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Role returns the raw users.type value of login.
func (r *UserRepository) Role(ctx context.Context, login string) (string, error) {
	res, err := r.ex.QueryCollect(ctx, `SELECT type FROM Users WHERE login = $1`, login)
	if err != nil {
		return "", err
	}
	role, ok := res.First()
	if !ok {
		return "", fmt.Errorf("user %s: %w", login, domain.ErrNotFound)
	}
	return role, nil
}

func (r *UserRepository) UpdateField(ctx context.Context, login string, field domain.UserField, value string) (int64, error) {
	col, ok := userColumns[field]
	if !ok {
		return 0, &domain.ValidationError{Field: "user field", Reason: fmt.Sprintf("%q cannot be updated", field)}
	}
	// col comes from the fixed whitelist above.
	return r.ex.Exec(ctx, `UPDATE Users SET `+col+` = $1 WHERE login = $2`, value, login)
}

func (r *UserRepository) Show(ctx context.Context, login string) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `SELECT login, phoneNum, favItems, type FROM Users WHERE login = $1`, login)
}
