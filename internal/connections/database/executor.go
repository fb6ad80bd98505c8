package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"time"

	"cafe-system/internal/domain"
)

// Executor issues statements. Every call uses its own statement, closed
// before returning. Values are always bound through $n placeholders.
type Executor interface {
	// Exec runs INSERT/UPDATE/DELETE/DDL and reports rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// QueryCount reports 1 if the query matched at least one row, else 0.
	QueryCount(ctx context.Context, query string, args ...any) (int, error)
	// QueryCollect materializes the whole result set as text.
	QueryCollect(ctx context.Context, query string, args ...any) (Result, error)
	// QueryPrint writes the result set to w and returns the row count.
	QueryPrint(ctx context.Context, w io.Writer, query string, args ...any) (int, error)
	// InTx runs fn with an executor bound to one transaction.
	InTx(ctx context.Context, fn func(Executor) error) error
}

// Result is a query result converted to text. Column order follows the
// result set metadata; NULL becomes the empty string.
type Result struct {
	Columns []string
	Rows    [][]string
}

func (r Result) Len() int { return len(r.Rows) }

// First returns the first column of the first row.
func (r Result) First() (string, bool) {
	if len(r.Rows) == 0 || len(r.Rows[0]) == 0 {
		return "", false
	}
	return r.Rows[0][0], true
}

// WriteTo prints a tab separated header once, then one line per row with
// every value followed by a space. Nothing is printed for an empty result.
func (r Result) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if len(r.Rows) == 0 {
		return 0, nil
	}
	for _, c := range r.Columns {
		n, err := fmt.Fprint(w, c, "\t")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := fmt.Fprintln(w)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, row := range r.Rows {
		for _, v := range row {
			n, err := fmt.Fprint(w, v, " ")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := fmt.Fprintln(w)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// runner implements the statement modes over a connection or a transaction.
type runner struct {
	q querier
}

func (r runner) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &domain.QueryError{Op: "exec", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.QueryError{Op: "exec", Err: err}
	}
	return n, nil
}

func (r runner) QueryCount(ctx context.Context, query string, args ...any) (int, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, &domain.QueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	count := 0
	if rows.Next() {
		count = 1
	}
	if err := rows.Err(); err != nil {
		return 0, &domain.QueryError{Op: "query", Err: err}
	}
	return count, nil
}

func (r runner) QueryCollect(ctx context.Context, query string, args ...any) (Result, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, &domain.QueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, &domain.QueryError{Op: "query", Err: err}
	}
	res := Result{Columns: cols}

	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Result{}, &domain.QueryError{Op: "scan", Err: err}
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			rec[i] = Text(v)
		}
		res.Rows = append(res.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return Result{}, &domain.QueryError{Op: "query", Err: err}
	}
	return res, nil
}

func (r runner) QueryPrint(ctx context.Context, w io.Writer, query string, args ...any) (int, error) {
	res, err := r.QueryCollect(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if _, err := res.WriteTo(w); err != nil {
		return 0, fmt.Errorf("print result: %w", err)
	}
	return res.Len(), nil
}

// Text converts a driver value to its console representation.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
