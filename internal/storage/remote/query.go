package remote

import (
	"fmt"
	"sort"
	"strings"

	"github.com/comptaflow/comptaflow/internal/storage"
)

// buildSelect compiles a filter object to parameterized SQL over a JSON
// document table. The tenant predicate always comes first and is supplied by
// the store, never by the caller. Where keys are sorted so generated SQL is
// deterministic.
func buildSelect(table, tenantID string, f storage.QueryFilters) (string, []any) {
	where, args := buildWhere(tenantID, f)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT doc FROM %s WHERE %s", table, where)

	if f.OrderBy != nil {
		dir := "ASC"
		if f.OrderBy.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", orderColumn(f.OrderBy.Field), dir)
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func buildCount(table, tenantID string, f storage.QueryFilters) (string, []any) {
	where, args := buildWhere(tenantID, f)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args
}

func buildWhere(tenantID string, f storage.QueryFilters) (string, []any) {
	clauses := []string{"tenant_id = $1"}
	args := []any{tenantID}

	keys := make([]string, 0, len(f.Where))
	for k := range f.Where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprint(f.Where[k]))
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", k, len(args)))
	}

	if f.WhereIn != nil && len(f.WhereIn.Values) > 0 {
		placeholders := make([]string, len(f.WhereIn.Values))
		for i, v := range f.WhereIn.Values {
			args = append(args, fmt.Sprint(v))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' IN (%s)",
			f.WhereIn.Field, strings.Join(placeholders, ", ")))
	}

	if f.StartsWith != nil {
		args = append(args, f.StartsWith.Prefix+"%")
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' LIKE $%d", f.StartsWith.Field, len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// orderColumn maps the ordering field to SQL. The updatedAt field orders on
// the indexed column; anything else sorts on the document text value.
func orderColumn(field string) string {
	if field == "updatedAt" {
		return "updated_at"
	}
	return fmt.Sprintf("doc->>'%s'", field)
}
