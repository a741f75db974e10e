// Package filter implements the conjunctive predicate chain used by the
// search tab: text substring, categorical equality, set membership and
// date-range narrowing over a table.
package filter

import (
	"strings"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
)

// All is the sentinel option that disables a categorical filter.
const All = "Todos"

// Predicate is a pure row test. Predicates are independent and compose
// with logical AND.
type Predicate func(domain.Row) bool

// TextContains matches case-insensitive substrings of a string column.
// An empty query matches everything; an empty cell never matches.
func TextContains(col, query string) Predicate {
	query = strings.ToLower(strings.TrimSpace(query))
	return func(r domain.Row) bool {
		if query == "" {
			return true
		}
		v := r[col]
		if v.IsEmpty() {
			return false
		}
		return strings.Contains(strings.ToLower(v.Display()), query)
	}
}

// Equals matches exact display equality against one selected value. The
// All sentinel (or an empty selection) disables the filter.
func Equals(col, selected string) Predicate {
	return func(r domain.Row) bool {
		if selected == "" || selected == All {
			return true
		}
		return r[col].Display() == selected
	}
}

// OneOf matches membership of the selected set. An empty selection means
// no filtering, not filter-out-everything.
func OneOf(col string, selected []string) Predicate {
	if len(selected) == 0 {
		return func(domain.Row) bool { return true }
	}
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	return func(r domain.Row) bool {
		_, ok := set[r[col].Display()]
		return ok
	}
}

// DateBetween matches dates in [from, to] with both endpoints included;
// a timestamp anywhere on the end date still matches. Zero endpoints
// leave that side open, and two zero endpoints disable the filter.
func DateBetween(col string, from, to time.Time) Predicate {
	var end time.Time
	if !to.IsZero() {
		end = to.AddDate(0, 0, 1)
	}
	return func(r domain.Row) bool {
		if from.IsZero() && to.IsZero() {
			return true
		}
		d, ok := coerce.Date(r[col])
		if !ok {
			return false
		}
		if !from.IsZero() && d.Before(from) {
			return false
		}
		if !end.IsZero() && !d.Before(end) {
			return false
		}
		return true
	}
}

// Apply narrows the table to rows satisfying every predicate. Rows are
// shared with the input, not copied.
func Apply(t domain.Table, preds ...Predicate) domain.Table {
	out := domain.Table{Columns: t.Columns}
	for _, row := range t.Rows {
		keep := true
		for _, p := range preds {
			if !p(row) {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Options lists the distinct non-empty values of a column, in first-seen
// order, computed from the table narrowed by all *other* active filters.
// Deriving options this way prunes combinations that would yield zero
// rows without ever letting a filter empty its own option list.
func Options(t domain.Table, col string, others ...Predicate) []string {
	narrowed := Apply(t, others...)
	seen := map[string]struct{}{}
	var options []string
	for _, row := range narrowed.Rows {
		v := row[col]
		if v.IsEmpty() {
			continue
		}
		display := v.Display()
		if strings.TrimSpace(display) == "" {
			continue
		}
		if _, ok := seen[display]; ok {
			continue
		}
		seen[display] = struct{}{}
		options = append(options, display)
	}
	return options
}
