// Package table is a pure, in-memory view engine for dashboard tables.
//
// Records come from upstream list responses after key conversion, decoded as
// generic JSON objects. The engine sorts, filters and paginates them without
// any network interaction; the visible state of a table is fully determined
// by the record set and the view parameters.
package table

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Record is one row. Rows are identified by an id key unique within a
// collection; duplicated ids degrade row identity in the rendering tier but
// never crash this engine.
type Record = map[string]any

// Column declares a table column over a record key.
type Column struct {
	Key      string `json:"key"`
	Sortable bool   `json:"sortable"`
}

// FilterSpec retains records whose Field value matches at least one of
// Values. Specs AND together; values within one spec OR together.
type FilterSpec struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Comparator orders two full records: negative when a comes first,
// zero when equal, positive when b comes first.
type Comparator func(a, b Record) int

// Sort returns records ordered by field. When custom is non-nil it is used
// as-is; otherwise the default comparator applies (numbers numerically,
// strings lexicographically with RFC3339 timestamps chronologically).
//
// The sort is stable and the input slice is left untouched.
func Sort(records []Record, field string, dir Direction, custom Comparator) []Record {
	cmp := custom
	if cmp == nil {
		cmp = func(a, b Record) int {
			return compareValues(a[field], b[field])
		}
	}

	out := make([]Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Filter returns the records matching every spec. An empty spec list is the
// identity. String values match by case-insensitive substring; other kinds
// match exactly against their canonical rendering.
func Filter(records []Record, specs []FilterSpec) []Record {
	if len(specs) == 0 {
		return records
	}

	out := []Record{}
R:
	for _, rec := range records {
		for _, spec := range specs {
			if !matches(rec, spec) {
				continue R
			}
		}
		out = append(out, rec)
	}
	return out
}

// Paginate slices records into the zero-indexed page of at most pageSize
// records. totalPages is at least 1 even for empty input, so pagination
// controls always have one (possibly empty) page to show. An index past the
// last page yields an empty page. pageSize < 1 means no paging.
func Paginate(records []Record, pageSize int, pageIndex int) (page []Record, totalPages int) {
	if pageSize < 1 {
		return records, 1
	}

	totalPages = (len(records) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	lo := pageIndex * pageSize
	if pageIndex < 0 || len(records) <= lo {
		return []Record{}, totalPages
	}
	hi := lo + pageSize
	if len(records) < hi {
		hi = len(records)
	}
	return records[lo:hi], totalPages
}

// View composes filter, sort and paginate. The page index is clamped into
// the range of the filtered result, so a stale index beyond the new last
// page is not reachable.
func View(
	records []Record,
	specs []FilterSpec,
	sortField string, dir Direction, custom Comparator,
	pageSize int, pageIndex int,
) (page []Record, totalPages int) {
	visible := Filter(records, specs)
	if sortField != "" {
		visible = Sort(visible, sortField, dir, custom)
	}

	_, totalPages = Paginate(visible, pageSize, 0)
	if pageIndex < 0 {
		pageIndex = 0
	}
	if totalPages <= pageIndex {
		pageIndex = totalPages - 1
	}
	return Paginate(visible, pageSize, pageIndex)
}

func matches(rec Record, spec FilterSpec) bool {
	v, ok := rec[spec.Field]
	if !ok {
		return false
	}

	switch val := v.(type) {
	case string:
		lower := strings.ToLower(val)
		for _, want := range spec.Values {
			if strings.Contains(lower, strings.ToLower(want)) {
				return true
			}
		}
	default:
		rendered := render(v)
		for _, want := range spec.Values {
			if rendered == want {
				return true
			}
		}
	}
	return false
}

// render gives the canonical string form used for exact matching:
// JSON numbers print without a trailing ".0".
func render(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// compareValues is the default ordering. nil sorts first. Numbers compare
// numerically, times chronologically. Two strings that both parse as
// RFC3339 compare as timestamps, otherwise case-sensitively.
// Mixed or unknown kinds fall back to their rendered form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if na, ok := asNumber(a); ok {
		if nb, ok := asNumber(b); ok {
			switch {
			case na < nb:
				return -1
			case nb < na:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}

	sa, aIsString := a.(string)
	sb, bIsString := b.(string)
	if aIsString && bIsString {
		return strings.Compare(sa, sb)
	}

	return strings.Compare(render(a), render(b))
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		if ts, err := time.Parse(time.RFC3339, x); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
