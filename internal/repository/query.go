// Package repository provides owner-scoped persistence for notes and
// bookmarks using a PostgreSQL database.
package repository

import (
	"fmt"
	"strings"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/lib/pq"
)

// recordTable describes how one record kind is laid out in the store.
type recordTable struct {
	// name is the table name.
	name string
	// columns is the select list, in scan order.
	columns string
	// document is the tsvector expression over the searchable fields.
	// It must match the expression index in the schema.
	document string
}

// assignment is one column update in an allow-listed SET clause.
type assignment struct {
	column string
	value  any
}

// listQuery builds the list statement for owner. The owner predicate is
// always $1 and is never derived from the filter. Search and tag predicates
// are appended only when present and are ANDed together; the tag predicate
// matches records sharing at least one tag with the filter.
func listQuery(t recordTable, owner string, f models.ListFilter) (string, []any) {
	args := []any{owner}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE owner_id = $1", t.columns, t.name)

	if f.Search != "" {
		args = append(args, f.Search)
		fmt.Fprintf(&b, " AND %s @@ plainto_tsquery('simple', $%d)", t.document, len(args))
	}

	if len(f.Tags) > 0 {
		args = append(args, pq.Array(f.Tags))
		fmt.Fprintf(&b, " AND tags && $%d::text[]", len(args))
	}

	b.WriteString(" ORDER BY created_at DESC, id DESC")
	return b.String(), args
}

// updateQuery builds a conditional update scoped to {id, owner}. Only the
// given assignments are written; updated_at is always refreshed.
func updateQuery(t recordTable, owner, id string, set []assignment) (string, []any) {
	args := []any{id, owner}

	parts := make([]string, 0, len(set)+1)
	for _, a := range set {
		args = append(args, a.value)
		parts = append(parts, fmt.Sprintf("%s = $%d", a.column, len(args)))
	}
	parts = append(parts, "updated_at = now()")

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND owner_id = $2 RETURNING %s",
		t.name, strings.Join(parts, ", "), t.columns)
	return q, args
}
