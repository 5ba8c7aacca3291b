package storage

import (
	"fmt"
	"sort"
	"strings"
)

// Doc is a record decoded to its JSON field map, used for client-side
// filtering in the local backend.
type Doc map[string]any

// Matches reports whether doc satisfies the Where, WhereIn and StartsWith
// clauses of f. Ordering and windowing are applied separately.
func (f QueryFilters) Matches(doc Doc) bool {
	for field, want := range f.Where {
		if !valueEqual(doc[field], want) {
			return false
		}
	}
	if f.WhereIn != nil {
		got := doc[f.WhereIn.Field]
		found := false
		for _, v := range f.WhereIn.Values {
			if valueEqual(got, v) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.StartsWith != nil {
		s, ok := doc[f.StartsWith.Field].(string)
		if !ok || !strings.HasPrefix(s, f.StartsWith.Prefix) {
			return false
		}
	}
	return true
}

// SortDocs orders docs in place per f.OrderBy. Without an ordering the input
// order is preserved.
func (f QueryFilters) SortDocs(docs []Doc) {
	if f.OrderBy == nil {
		return
	}
	field, desc := f.OrderBy.Field, f.OrderBy.Desc
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return valueLess(docs[j][field], docs[i][field])
		}
		return valueLess(docs[i][field], docs[j][field])
	})
}

// Window applies f.Offset and f.Limit to docs.
func (f QueryFilters) Window(docs []Doc) []Doc {
	if f.Offset > 0 {
		if f.Offset >= len(docs) {
			return nil
		}
		docs = docs[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(docs) {
		docs = docs[:f.Limit]
	}
	return docs
}

// Less orders two decoded JSON field values: numerically when both are
// numbers, lexically otherwise. Backends use it to apply OrderBy client-side.
func Less(a, b any) bool { return valueLess(a, b) }

// valueEqual compares a decoded JSON value against a caller-supplied filter
// value. JSON decoding turns all numbers into float64, so numeric filter
// values of any Go type compare by magnitude.
func valueEqual(got, want any) bool {
	if gf, ok := asFloat(got); ok {
		if wf, ok := asFloat(want); ok {
			return gf == wf
		}
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}

func valueLess(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af < bf
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
