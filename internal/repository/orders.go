package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
)

type OrderRepositoryInterface interface {
	Insert(ctx context.Context, login string, total float64) (domain.Order, error)
	InsertItem(ctx context.Context, orderID int64, itemName, status string) error
	MarkPaid(ctx context.Context, orderID int64) (int64, error)
	SetItemStatus(ctx context.Context, orderID int64, itemName, status string) (int64, error)
	SetComments(ctx context.Context, orderID int64, login, comments string) (int64, error)

	Get(ctx context.Context, orderID int64) (database.Result, error)
	Items(ctx context.Context, orderID int64) (database.Result, error)
	Comments(ctx context.Context, orderID int64) (database.Result, error)
	Status(ctx context.Context, orderID int64, login string) (database.Result, error)
	History(ctx context.Context, login string, limit int) (database.Result, error)
	Current(ctx context.Context) (database.Result, error)
}

type OrderRepository struct {
	ex database.Executor
}

func NewOrderRepository(ex database.Executor) OrderRepositoryInterface {
	return &OrderRepository{ex: ex}
}

const timestampLayout = "2006-01-02 15:04:05"

func (r *OrderRepository) Insert(ctx context.Context, login string, total float64) (domain.Order, error) {
	res, err := r.ex.QueryCollect(ctx, `
		INSERT INTO Orders (login, paid, timeStamp, total)
		VALUES ($1, false, now(), $2)
		RETURNING orderID, timeStamp
	`, login, total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	if res.Len() == 0 || len(res.Rows[0]) < 2 {
		return domain.Order{}, fmt.Errorf("insert order: no id returned")
	}
	id, err := strconv.ParseInt(res.Rows[0][0], 10, 64)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: bad id %q: %w", res.Rows[0][0], err)
	}
	created, err := time.Parse(timestampLayout, res.Rows[0][1])
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order %d: bad timestamp %q: %w", id, res.Rows[0][1], err)
	}
	return domain.Order{ID: id, Login: login, Total: total, CreatedAt: created}, nil
}

func (r *OrderRepository) InsertItem(ctx context.Context, orderID int64, itemName, status string) error {
	_, err := r.ex.Exec(ctx, `
		INSERT INTO ItemStatus (orderID, itemName, status, comments)
		VALUES ($1, $2, $3, '')
	`, orderID, itemName, status)
	if err != nil {
		return fmt.Errorf("insert order item %s: %w", itemName, err)
	}
	return nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, orderID int64) (int64, error) {
	return r.ex.Exec(ctx, `UPDATE Orders SET paid = true WHERE orderID = $1`, orderID)
}

// SetItemStatus updates one item of the order, or all of them when itemName
// is empty.
func (r *OrderRepository) SetItemStatus(ctx context.Context, orderID int64, itemName, status string) (int64, error) {
	if itemName == "" {
		return r.ex.Exec(ctx, `UPDATE ItemStatus SET status = $1 WHERE orderID = $2`, status, orderID)
	}
	return r.ex.Exec(ctx, `
		UPDATE ItemStatus SET status = $1
		WHERE orderID = $2 AND itemName = $3
	`, status, orderID, itemName)
}

// SetComments only touches orders owned by login.
func (r *OrderRepository) SetComments(ctx context.Context, orderID int64, login, comments string) (int64, error) {
	return r.ex.Exec(ctx, `
		UPDATE ItemStatus SET comments = $1
		WHERE orderID = $2
		  AND orderID IN (SELECT orderID FROM Orders WHERE login = $3)
	`, comments, orderID, login)
}

func (r *OrderRepository) Get(ctx context.Context, orderID int64) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `SELECT * FROM Orders WHERE orderID = $1`, orderID)
}

func (r *OrderRepository) Items(ctx context.Context, orderID int64) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `SELECT * FROM ItemStatus WHERE orderID = $1 ORDER BY itemName`, orderID)
}

func (r *OrderRepository) Comments(ctx context.Context, orderID int64) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `
		SELECT orderID, itemName, comments FROM ItemStatus
		WHERE orderID = $1 ORDER BY itemName
	`, orderID)
}

// Status lists item statuses of one order. A non-empty login restricts the
// lookup to that user's orders.
func (r *OrderRepository) Status(ctx context.Context, orderID int64, login string) (database.Result, error) {
	if login == "" {
		return r.ex.QueryCollect(ctx, `
			SELECT itemName, status FROM ItemStatus NATURAL JOIN Orders
			WHERE orderID = $1 ORDER BY itemName
		`, orderID)
	}
	return r.ex.QueryCollect(ctx, `
		SELECT itemName, status FROM ItemStatus NATURAL JOIN Orders
		WHERE orderID = $1 AND login = $2 ORDER BY itemName
	`, orderID, login)
}

// History returns item rows of the limit most recent orders of login.
func (r *OrderRepository) History(ctx context.Context, login string, limit int) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `
		SELECT orderID, timeStamp, paid, total, itemName, status, comments
		FROM ItemStatus NATURAL JOIN Orders
		WHERE login = $1
		  AND orderID IN (
			SELECT orderID FROM Orders WHERE login = $1
			ORDER BY timeStamp DESC, orderID DESC LIMIT $2
		  )
		ORDER BY timeStamp DESC, orderID DESC, itemName
	`, login, limit)
}

// Current lists unpaid orders placed within the last 24 hours.
func (r *OrderRepository) Current(ctx context.Context) (database.Result, error) {
	return r.ex.QueryCollect(ctx, `
		SELECT orderID, login, timeStamp, total FROM Orders
		WHERE timeStamp > now() - interval '24 hours' AND paid = false
		ORDER BY timeStamp
	`)
}
