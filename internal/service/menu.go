package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
	"cafe-system/internal/repository"
)

type MenuServiceInterface interface {
	BrowseByName(ctx context.Context, name string) (database.Result, error)
	BrowseByType(ctx context.Context, typ string) (database.Result, error)
	AddItem(ctx context.Context, item domain.MenuItem) error
	DeleteItem(ctx context.Context, name string) error
	UpdateItem(ctx context.Context, name string, field domain.MenuField, value string) (database.Result, error)
}

type MenuService struct {
	menu repository.MenuRepositoryInterface
	lg   *logger.Logger
}

func NewMenuService(menu repository.MenuRepositoryInterface) *MenuService {
	return &MenuService{menu: menu, lg: logger.New("menu")}
}

func (s *MenuService) BrowseByName(ctx context.Context, name string) (database.Result, error) {
	return s.menu.ByName(ctx, name)
}

func (s *MenuService) BrowseByType(ctx context.Context, typ string) (database.Result, error) {
	return s.menu.ByType(ctx, typ)
}

func (s *MenuService) AddItem(ctx context.Context, item domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return &domain.ValidationError{Field: "item name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(item.Type) == "" {
		return &domain.ValidationError{Field: "item type", Reason: "must not be empty"}
	}
	if item.Price < 0 {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if err := s.menu.Add(ctx, item); err != nil {
		return err
	}
	s.lg.Info("menu_item_added", map[string]any{"item": item.Name, "price": item.Price})
	return nil
}

func (s *MenuService) DeleteItem(ctx context.Context, name string) error {
	n, err := s.menu.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("menu item %q: %w", name, domain.ErrNotFound)
	}
	s.lg.Info("menu_item_deleted", map[string]any{"item": name})
	return nil
}

// UpdateItem changes one column of a menu item and returns the updated row.
func (s *MenuService) UpdateItem(ctx context.Context, name string, field domain.MenuField, value string) (database.Result, error) {
	var arg any = value
	if field == domain.FieldPrice {
		price, err := ParsePrice(value)
		if err != nil {
			return database.Result{}, err
		}
		arg = price
	}
	n, err := s.menu.UpdateField(ctx, name, field, arg)
	if err != nil {
		return database.Result{}, fmt.Errorf("update menu item %s: %w", name, err)
	}
	if n == 0 {
		return database.Result{}, fmt.Errorf("menu item %q: %w", name, domain.ErrNotFound)
	}
	s.lg.Info("menu_item_updated", map[string]any{"item": name, "field": string(field)})
	return s.menu.ByName(ctx, name)
}

// ParsePrice accepts a non-negative decimal such as "3.50" or "$3.50".
func ParsePrice(s string) (float64, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "$")
	price, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &domain.ValidationError{Field: "price", Reason: strconv.Quote(s) + " is not a number"}
	}
	if price < 0 {
		return 0, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return price, nil
}
