package readstore

import (
	"fmt"
	"strings"
	"time"

	"servicebay/internal/usecase/queries"
)

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

// keyset appends a descending (ts, id) seek predicate.
func (w *where) keyset(tsCol, idCol string, after *queries.Keyset) {
	if after == nil {
		return
	}
	w.args = append(w.args, after.At, after.ID)
	n := len(w.args)
	w.clauses = append(w.clauses, fmt.Sprintf("(%s, %s) < ($%d, $%d)", tsCol, idCol, n-1, n))
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *where) limit(n int32) string {
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
