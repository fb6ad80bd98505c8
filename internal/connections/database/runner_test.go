package database

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"cafe-system/internal/domain"
)

// stubDriver serves canned results keyed by query text.
type stubDriver struct {
	mu      sync.Mutex
	results map[string]stubRows
	execs   []string
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	err  error
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return &stubConn{d: d}, nil }

type stubConn struct{ d *stubDriver }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare not supported") }
func (c *stubConn) Close() error { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	r, ok := c.d.results[query]
	if !ok {
		return nil, errors.New("relation does not exist")
	}
	if r.err != nil {
		return nil, r.err
	}
	return &stubCursor{cols: r.cols, rows: r.rows}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.execs = append(c.d.execs, query)
	return driver.RowsAffected(2), nil
}

type stubCursor struct {
	cols []string
	rows [][]driver.Value
	pos  int
}

func (r *stubCursor) Columns() []string { return r.cols }
func (r *stubCursor) Close() error { return nil }

func (r *stubCursor) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

var registerStub sync.Once

var stub = &stubDriver{}

func stubRunner(t *testing.T, results map[string]stubRows) runner {
	t.Helper()
	registerStub.Do(func() { sql.Register("cafe-stub", stub) })
	stub.mu.Lock()
	stub.results = results
	stub.execs = nil
	stub.mu.Unlock()

	db, err := sql.Open("cafe-stub", "")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return runner{q: db}
}

func TestRunnerQueryPrint(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	r := stubRunner(t, map[string]stubRows{
		"SELECT * FROM Orders": {
			cols: []string{"orderid", "login", "paid", "timestamp", "total"},
			rows: [][]driver.Value{
				{int64(7), "alice", false, ts, []byte("6.85")},
				{int64(8), "bob", true, ts, nil},
			},
		},
	})

	var buf bytes.Buffer
	n, err := r.QueryPrint(context.Background(), &buf, "SELECT * FROM Orders")
	if err != nil {
		t.Fatalf("QueryPrint: %v", err)
	}
	if n != 2 {
		t.Errorf("row count = %d, want 2", n)
	}
	want := "orderid\tlogin\tpaid\ttimestamp\ttotal\t\n" +
		"7 alice false 2024-03-09 14:05:07 6.85 \n" +
		"8 bob true 2024-03-09 14:05:07  \n"
	if buf.String() != want {
		t.Errorf("output = %q\nwant     %q", buf.String(), want)
	}
}

func TestRunnerQueryPrint_Empty(t *testing.T) {
	r := stubRunner(t, map[string]stubRows{"SELECT * FROM Menu": {cols: []string{"itemname"}}})
	var buf bytes.Buffer
	n, err := r.QueryPrint(context.Background(), &buf, "SELECT * FROM Menu")
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("QueryPrint = %d, %v, output %q", n, err, buf.String())
	}
}

func TestRunnerQueryCount(t *testing.T) {
	r := stubRunner(t, map[string]stubRows{
		"match":   {cols: []string{"login"}, rows: [][]driver.Value{{"a"}, {"b"}}},
		"nomatch": {cols: []string{"login"}},
	})
	ctx := context.Background()
	if n, err := r.QueryCount(ctx, "match"); err != nil || n != 1 {
		t.Errorf("QueryCount(match) = %d, %v; want 1", n, err)
	}
	if n, err := r.QueryCount(ctx, "nomatch"); err != nil || n != 0 {
		t.Errorf("QueryCount(nomatch) = %d, %v; want 0", n, err)
	}
}

func TestRunnerExec(t *testing.T) {
	r := stubRunner(t, nil)
	n, err := r.Exec(context.Background(), "UPDATE Orders SET paid = true")
	if err != nil || n != 2 {
		t.Errorf("Exec = %d, %v", n, err)
	}
	if len(stub.execs) != 1 || !strings.HasPrefix(stub.execs[0], "UPDATE Orders") {
		t.Errorf("execs = %v", stub.execs)
	}
}

func TestRunnerQueryError(t *testing.T) {
	r := stubRunner(t, map[string]stubRows{})
	var buf bytes.Buffer
	_, err := r.QueryPrint(context.Background(), &buf, "SELECT * FROM Nowhere")
	var qe *domain.QueryError
	if !errors.As(err, &qe) || qe.Op != "query" {
		t.Errorf("err = %v, want query error", err)
	}
}
