package repository

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
)

type call struct {
	query string
	args  []any
}

// recordingExecutor records statements and answers queries from results in order.
type recordingExecutor struct {
	calls    []call
	results  []database.Result
	affected int64
	count    int
}

func (e *recordingExecutor) record(query string, args []any) {
	e.calls = append(e.calls, call{query: strings.Join(strings.Fields(query), " "), args: args})
}

func (e *recordingExecutor) Exec(_ context.Context, query string, args ...any) (int64, error) {
	e.record(query, args)
	return e.affected, nil
}

func (e *recordingExecutor) QueryCount(_ context.Context, query string, args ...any) (int, error) {
	e.record(query, args)
	return e.count, nil
}

func (e *recordingExecutor) QueryCollect(_ context.Context, query string, args ...any) (database.Result, error) {
	e.record(query, args)
	if len(e.results) == 0 {
		return database.Result{}, nil
	}
	res := e.results[0]
	e.results = e.results[1:]
	return res, nil
}

func (e *recordingExecutor) QueryPrint(ctx context.Context, w io.Writer, query string, args ...any) (int, error) {
	res, _ := e.QueryCollect(ctx, query, args...)
	_, err := res.WriteTo(w)
	return res.Len(), err
}

func (e *recordingExecutor) InTx(_ context.Context, fn func(database.Executor) error) error {
	return fn(e)
}

func (e *recordingExecutor) last(t *testing.T) call {
	t.Helper()
	if len(e.calls) == 0 {
		t.Fatal("no statement issued")
	}
	return e.calls[len(e.calls)-1]
}

func assertArgs(t *testing.T, got []any, want ...any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %#v, want %#v", i+1, got[i], want[i])
		}
	}
}

func TestUserCreate(t *testing.T) {
	ex := &recordingExecutor{affected: 1}
	repo := NewUserRepository(ex)

	err := repo.Create(context.Background(), domain.User{
		Login: "alice", Password: "pw123", PhoneNum: "555-1111", Role: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := ex.last(t)
	if !strings.HasPrefix(c.query, "INSERT INTO Users (phoneNum, login, password, favItems, type)") {
		t.Errorf("query = %q", c.query)
	}
	assertArgs(t, c.args, "555-1111", "alice", "pw123", "", "Customer")
}

func TestUserAuthenticate(t *testing.T) {
	ex := &recordingExecutor{count: 1}
	ok, err := NewUserRepository(ex).Authenticate(context.Background(), "alice", "pw123")
	if err != nil || !ok {
		t.Fatalf("Authenticate = %v, %v", ok, err)
	}
	c := ex.last(t)
	if c.query != "SELECT * FROM Users WHERE login = $1 AND password = $2" {
		t.Errorf("query = %q", c.query)
	}
	assertArgs(t, c.args, "alice", "pw123")

	ex.count = 0
	if ok, _ := NewUserRepository(ex).Authenticate(context.Background(), "alice", "wrong"); ok {
		t.Error("mismatched password authenticated")
	}
}

func TestUserRole_NotFound(t *testing.T) {
	ex := &recordingExecutor{}
	_, err := NewUserRepository(ex).Role(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserRole(t *testing.T) {
	ex := &recordingExecutor{results: []database.Result{{Columns: []string{"type"}, Rows: [][]string{{"Manager "}}}}}
	role, err := NewUserRepository(ex).Role(context.Background(), "boss")
	if err != nil || role != "Manager " {
		t.Errorf("Role = %q, %v", role, err)
	}
}

func TestUserUpdateField(t *testing.T) {
	tests := []struct {
		field domain.UserField
		col   string
	}{
		{domain.FieldPhone, "phoneNum"},
		{domain.FieldPassword, "password"},
		{domain.FieldFavItems, "favItems"},
		{domain.FieldRole, "type"},
	}
	for _, tt := range tests {
		ex := &recordingExecutor{affected: 1}
		n, err := NewUserRepository(ex).UpdateField(context.Background(), "alice", tt.field, "v")
		if err != nil || n != 1 {
			t.Fatalf("UpdateField(%s) = %d, %v", tt.field, n, err)
		}
		c := ex.last(t)
		if want := "UPDATE Users SET " + tt.col + " = $1 WHERE login = $2"; c.query != want {
			t.Errorf("query = %q, want %q", c.query, want)
		}
		assertArgs(t, c.args, "v", "alice")
	}
}

func TestUserUpdateField_Rejected(t *testing.T) {
	ex := &recordingExecutor{}
	_, err := NewUserRepository(ex).UpdateField(context.Background(), "alice", "login; DROP TABLE Users", "x")
	if !domain.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
	if len(ex.calls) != 0 {
		t.Error("statement issued for unknown field")
	}
}

func TestMenuQueries(t *testing.T) {
	ex := &recordingExecutor{}
	repo := NewMenuRepository(ex)
	ctx := context.Background()

	if _, err := repo.ByName(ctx, "Latte"); err != nil {
		t.Fatal(err)
	}
	if c := ex.last(t); c.query != "SELECT * FROM Menu WHERE itemName = $1" {
		t.Errorf("ByName query = %q", c.query)
	}

	if _, err := repo.ByType(ctx, "Drink"); err != nil {
		t.Fatal(err)
	}
	c := ex.last(t)
	if c.query != "SELECT itemName, price, description FROM Menu WHERE type = $1 ORDER BY itemName" {
		t.Errorf("ByType query = %q", c.query)
	}
	assertArgs(t, c.args, "Drink")
}

func TestMenuPrice(t *testing.T) {
	ex := &recordingExecutor{results: []database.Result{{Columns: []string{"price"}, Rows: [][]string{{"3.50"}}}}}
	price, err := NewMenuRepository(ex).Price(context.Background(), "Latte")
	if err != nil || price != 3.5 {
		t.Errorf("Price = %v, %v", price, err)
	}

	_, err = NewMenuRepository(&recordingExecutor{}).Price(context.Background(), "Unicorn")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMenuAddAndUpdate(t *testing.T) {
	ex := &recordingExecutor{affected: 1}
	repo := NewMenuRepository(ex)
	ctx := context.Background()

	item := domain.MenuItem{Name: "Latte", Type: "Drink", Price: 3.5, Description: "milk coffee"}
	if err := repo.Add(ctx, item); err != nil {
		t.Fatal(err)
	}
	assertArgs(t, ex.last(t).args, "Latte", "Drink", 3.5, "milk coffee")

	if _, err := repo.UpdateField(ctx, "Latte", domain.FieldPrice, 4.0); err != nil {
		t.Fatal(err)
	}
	c := ex.last(t)
	if c.query != "UPDATE Menu SET price = $1 WHERE itemName = $2" {
		t.Errorf("query = %q", c.query)
	}
	assertArgs(t, c.args, 4.0, "Latte")

	if _, err := repo.UpdateField(ctx, "Latte", "itemName", "x"); !domain.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestOrderInsert(t *testing.T) {
	ex := &recordingExecutor{results: []database.Result{{
		Columns: []string{"orderid", "timestamp"},
		Rows:    [][]string{{"17", "2024-03-09 14:05:07"}},
	}}}
	o, err := NewOrderRepository(ex).Insert(context.Background(), "alice", 7.5)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if o.ID != 17 || o.Login != "alice" || o.Total != 7.5 || o.CreatedAt.IsZero() {
		t.Errorf("order = %+v", o)
	}
	c := ex.last(t)
	if !strings.Contains(c.query, "RETURNING orderID, timeStamp") {
		t.Errorf("query = %q", c.query)
	}
	assertArgs(t, c.args, "alice", 7.5)
}

func TestOrderSetItemStatus(t *testing.T) {
	ex := &recordingExecutor{affected: 2}
	repo := NewOrderRepository(ex)
	ctx := context.Background()

	if _, err := repo.SetItemStatus(ctx, 3, "", "Ready"); err != nil {
		t.Fatal(err)
	}
	c := ex.last(t)
	if c.query != "UPDATE ItemStatus SET status = $1 WHERE orderID = $2" {
		t.Errorf("all items query = %q", c.query)
	}
	assertArgs(t, c.args, "Ready", int64(3))

	if _, err := repo.SetItemStatus(ctx, 3, "Latte", "Ready"); err != nil {
		t.Fatal(err)
	}
	assertArgs(t, ex.last(t).args, "Ready", int64(3), "Latte")
}

func TestOrderStatus_Ownership(t *testing.T) {
	ex := &recordingExecutor{}
	repo := NewOrderRepository(ex)
	ctx := context.Background()

	if _, err := repo.Status(ctx, 9, "alice"); err != nil {
		t.Fatal(err)
	}
	c := ex.last(t)
	if !strings.Contains(c.query, "login = $2") {
		t.Errorf("customer status query not restricted: %q", c.query)
	}
	assertArgs(t, c.args, int64(9), "alice")

	if _, err := repo.Status(ctx, 9, ""); err != nil {
		t.Fatal(err)
	}
	assertArgs(t, ex.last(t).args, int64(9))
}

func TestOrderHistoryAndCurrent(t *testing.T) {
	ex := &recordingExecutor{}
	repo := NewOrderRepository(ex)
	ctx := context.Background()

	if _, err := repo.History(ctx, "alice", 5); err != nil {
		t.Fatal(err)
	}
	c := ex.last(t)
	if !strings.Contains(c.query, "LIMIT $2") {
		t.Errorf("history query = %q", c.query)
	}
	assertArgs(t, c.args, "alice", 5)

	if _, err := repo.Current(ctx); err != nil {
		t.Fatal(err)
	}
	c = ex.last(t)
	if !strings.Contains(c.query, "interval '24 hours'") || !strings.Contains(c.query, "paid = false") {
		t.Errorf("current query = %q", c.query)
	}
}

func TestOrderInsert_BadTimestamp(t *testing.T) {
	ex := &recordingExecutor{results: []database.Result{{
		Columns: []string{"orderid", "timestamp"},
		Rows:    [][]string{{"18", "yesterday"}},
	}}}
	if _, err := NewOrderRepository(ex).Insert(context.Background(), "alice", 1.1); err == nil {
		t.Error("unparseable order timestamp accepted")
	}
}
