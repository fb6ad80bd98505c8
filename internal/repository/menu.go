package repository

import (
	"context"
	"fmt"
	"strconv"

	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
)

type MenuRepositoryInterface interface {
	ByName(ctx context.Context, name string) (database.Result, error)
	ByType(ctx context.Context, typ string) (database.Result, error)
	Price(ctx context.Context, name string) (float64, error)
	Add(ctx context.Context, item domain.MenuItem) error
	Delete(ctx context.Context, name string) (int64, error)
	UpdateField(ctx context.Context, name string, field domain.MenuField, value any) (int64, error)
}

type MenuRepository struct {
	ex database.Executor
}

func NewMenuRepository(ex database.Executor) MenuRepositoryInterface {
	return &MenuRepository{ex: ex}
}

var menuColumns = map[domain.MenuField]string{
	domain.FieldType:        "type",
	domain.FieldPrice:       "price",
	domain.FieldDescription: "description",
}

func (r *MenuRepository) ByName(ctx context.Context, name string) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `SELECT * FROM Menu WHERE itemName = $1`, name)
}

func (r *MenuRepository) ByType(ctx context.Context, typ string) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `
		SELECT itemName, price, description FROM Menu
		WHERE type = $1 ORDER BY itemName
	`, typ)
}

func (r *MenuRepository) Price(ctx context.Context, name string) (float64, error) {
	res, err := r.ex.QueryCollect(ctx, `SELECT price FROM Menu WHERE itemName = $1`, name)
	if err != nil {
		return 0, err
	}
	v, ok := res.First()
	if !ok {
		return 0, fmt.Errorf("menu item %q: %w", name, domain.ErrNotFound)
	}
	price, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("menu item %q has price %q: %w", name, v, err)
	}
	return price, nil
}

func (r *MenuRepository) Add(ctx context.Context, item domain.MenuItem) error {
	_, err := r.ex.Exec(ctx, `
		INSERT INTO Menu (itemName, type, price, description)
		VALUES ($1, $2, $3, $4)
	`, item.Name, item.Type, item.Price, item.Description)
	if err != nil {
		return fmt.Errorf("add menu item %s: %w", item.Name, err)
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, name string) (int64, error) {
	return r.ex.Exec(ctx, `DELETE FROM Menu WHERE itemName = $1`, name)
}

func (r *MenuRepository) UpdateField(ctx context.Context, name string, field domain.MenuField, value any) (int64, error) {
	col, ok := menuColumns[field]
	if !ok {
		return 0, &domain.ValidationError{Field: "menu field", Reason: fmt.Sprintf("%q cannot be updated", field)}
	}
	return r.ex.Exec(ctx, `UPDATE Menu SET `+col+` = $1 WHERE itemName = $2`, value, name)
}
