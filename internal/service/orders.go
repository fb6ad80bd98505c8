package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
	"cafe-system/internal/notify"
	"cafe-system/internal/repository"
)

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, login string, items []string) (domain.Order, error)
	UpdateComments(ctx context.Context, login string, orderID int64, comments string) (database.Result, error)
	MarkPaid(ctx context.Context, by string, orderID int64) (database.Result, error)
	SetItemStatus(ctx context.Context, by string, orderID int64, itemName, status string) (database.Result, error)
	History(ctx context.Context, login string) (database.Result, error)
	Status(ctx context.Context, orderID int64, login string) (database.Result, error)
	Current(ctx context.Context) (database.Result, error)
}

type OrderService struct {
	ex           database.Executor
	orders       repository.OrderRepositoryInterface
	pub          notify.Publisher
	historyLimit int
	lg           *logger.Logger
}

func NewOrderService(ex database.Executor, orders repository.OrderRepositoryInterface, pub notify.Publisher, historyLimit int) *OrderService {
	return &OrderService{
		ex:           ex,
		orders:       orders,
		pub:          pub,
		historyLimit: historyLimit,
		lg:           logger.New("orders"),
	}
}

// PlaceOrder prices the selected items, then inserts the order and one
// ItemStatus row per item in a single transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, login string, items []string) (domain.Order, error) {
	names, err := normalizeItems(items)
	if err != nil {
		return domain.Order{}, err
	}

	var (
		order domain.Order
		lines []domain.OrderLine
	)
	err = s.ex.InTx(ctx, func(tx database.Executor) error {
		menu := repository.NewMenuRepository(tx)
		orders := repository.NewOrderRepository(tx)

		lines = lines[:0]
		total := 0.0
		for _, name := range names {
			price, err := menu.Price(ctx, name)
			if err != nil {
				return err
			}
			lines = append(lines, domain.OrderLine{ItemName: name, Price: price})
			total += price
		}

		o, err := orders.Insert(ctx, login, roundCents(total))
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := orders.InsertItem(ctx, o.ID, l.ItemName, domain.StatusNotStarted); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.lg.Info("order_placed", map[string]any{"order_id": order.ID, "login": login, "total": order.Total, "items": len(lines)})

	msgs := make([]domain.OrderItemMsg, 0, len(lines))
	for _, l := range lines {
		msgs = append(msgs, domain.OrderItemMsg{Name: l.ItemName, Price: l.Price})
	}
	s.publish(ctx, domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		OrderID:   order.ID,
		Login:     login,
		ChangedBy: login,
		Items:     msgs,
		Total:     order.Total,
	})
	return order, nil
}

// UpdateComments sets the comments of every item of one of login's orders
// and returns the resulting comment rows.
func (s *OrderService) UpdateComments(ctx context.Context, login string, orderID int64, comments string) (database.Result, error) {
	n, err := s.orders.SetComments(ctx, orderID, login, comments)
	if err != nil {
		return database.Result{}, fmt.Errorf("update comments of order %d: %w", orderID, err)
	}
	if n == 0 {
		return database.Result{}, fmt.Errorf("order %d of %s: %w", orderID, login, domain.ErrNotFound)
	}
	s.lg.Info("order_comments_updated", map[string]any{"order_id": orderID, "login": login})
	return s.orders.Comments(ctx, orderID)
}

// MarkPaid is idempotent: paying a paid order succeeds and leaves it paid.
func (s *OrderService) MarkPaid(ctx context.Context, by string, orderID int64) (database.Result, error) {
	n, err := s.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return database.Result{}, fmt.Errorf("mark order %d paid: %w", orderID, err)
	}
	if n == 0 {
		return database.Result{}, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	s.lg.Info("order_paid", map[string]any{"order_id": orderID, "by": by})
	s.publish(ctx, domain.OrderEvent{Type: domain.EventOrderPaid, OrderID: orderID, ChangedBy: by})
	return s.orders.Get(ctx, orderID)
}

// SetItemStatus changes the status of one item, or of every item of the
// order when itemName is blank.
func (s *OrderService) SetItemStatus(ctx context.Context, by string, orderID int64, itemName, status string) (database.Result, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return database.Result{}, &domain.ValidationError{Field: "status", Reason: "must not be empty"}
	}
	itemName = strings.TrimSpace(itemName)

	n, err := s.orders.SetItemStatus(ctx, orderID, itemName, status)
	if err != nil {
		return database.Result{}, fmt.Errorf("set status of order %d: %w", orderID, err)
	}
	if n == 0 {
		if itemName == "" {
			return database.Result{}, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
		}
		return database.Result{}, fmt.Errorf("item %q of order %d: %w", itemName, orderID, domain.ErrNotFound)
	}
	s.lg.Info("item_status_changed", map[string]any{"order_id": orderID, "item": itemName, "status": status, "by": by})
	s.publish(ctx, domain.OrderEvent{
		Type:      domain.EventItemStatusChanged,
		OrderID:   orderID,
		ChangedBy: by,
		ItemName:  itemName,
		Status:    status,
	})
	return s.orders.Items(ctx, orderID)
}

func (s *OrderService) History(ctx context.Context, login string) (database.Result, error) {
	return s.orders.History(ctx, login, s.historyLimit)
}

// Status shows one order. A non-empty login limits it to that user's orders.
func (s *OrderService) Status(ctx context.Context, orderID int64, login string) (database.Result, error) {
	res, err := s.orders.Status(ctx, orderID, login)
	if err != nil {
		return database.Result{}, err
	}
	if res.Len() == 0 {
		return database.Result{}, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return res, nil
}

func (s *OrderService) Current(ctx context.Context) (database.Result, error) {
	return s.orders.Current(ctx)
}

// publish reports failures in the log only; the database stays the source
// of truth.
func (s *OrderService) publish(ctx context.Context, ev domain.OrderEvent) {
	ev.Timestamp = time.Now().UTC()
	if err := s.pub.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		s.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type, "order_id": ev.OrderID})
	}
}

func normalizeItems(items []string) ([]string, error) {
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, &domain.ValidationError{Field: "item", Reason: fmt.Sprintf("%q is already in the order", name)}
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	return names, nil
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }
