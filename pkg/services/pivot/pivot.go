// Package pivot implements the aggregation half of the pipeline: period
// bucketing, group-and-sum, and the Pareto cumulative-share series.
package pivot

import (
	"sort"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
)

// PeriodKey buckets a date under the chosen granularity. All keys are
// strings whose lexical order matches chronological order.
func PeriodKey(t time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityDay:
		return t.Format("2006-01-02")
	case domain.GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// SumBy groups rows by the display value of keyCol and sums valueCol per
// group. Output order is first-seen; rows whose value cell does not
// coerce to a number are skipped.
func SumBy(t domain.Table, keyCol, valueCol string) []domain.AggregateGroup {
	index := map[string]int{}
	var groups []domain.AggregateGroup

	for _, row := range t.Rows {
		if row[keyCol].IsEmpty() {
			continue
		}
		key := row[keyCol].Display()
		value, ok := coerce.Number(row[valueCol])
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.AggregateGroup{Key: key})
		}
		groups[i].Total += value
		groups[i].Count++
	}
	return groups
}

// SumByPeriod buckets dateCol under the granularity and sums valueCol per
// period, in chronological order. Rows without a coercible date are
// skipped; the caller is expected to have dropped them already.
func SumByPeriod(t domain.Table, dateCol, valueCol string, g domain.Granularity) []domain.AggregateGroup {
	bucketed := domain.Table{Columns: append([]string{"Periodo"}, t.Columns...)}
	for _, row := range t.Rows {
		d, ok := coerce.Date(row[dateCol])
		if !ok {
			continue
		}
		derived := row.Clone()
		derived["Periodo"] = domain.String(PeriodKey(d, g))
		bucketed.Rows = append(bucketed.Rows, derived)
	}

	groups := SumBy(bucketed, "Periodo", valueCol)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// SumByMonth aggregates valueCol by calendar month number (1-12) of
// dateCol, for the target comparison.
func SumByMonth(t domain.Table, dateCol, valueCol string) map[int]float64 {
	totals := map[int]float64{}
	for _, row := range t.Rows {
		d, ok := coerce.Date(row[dateCol])
		if !ok {
			continue
		}
		value, ok := coerce.Number(row[valueCol])
		if !ok {
			continue
		}
		totals[int(d.Month())] += value
	}
	return totals
}

// Sum adds every coercible value of the column.
func Sum(t domain.Table, valueCol string) float64 {
	var total float64
	for _, row := range t.Rows {
		if v, ok := coerce.Number(row[valueCol]); ok {
			total += v
		}
	}
	return total
}

// Total sums group totals; with SumBy output it equals the sum of the
// value column over the input table.
func Total(groups []domain.AggregateGroup) float64 {
	var total float64
	for _, g := range groups {
		total += g.Total
	}
	return total
}

// Keep narrows groups to the selected keys. An empty selection keeps
// everything.
func Keep(groups []domain.AggregateGroup, keys []string) []domain.AggregateGroup {
	if len(keys) == 0 {
		return groups
	}
	selected := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		selected[k] = struct{}{}
	}
	out := make([]domain.AggregateGroup, 0, len(groups))
	for _, g := range groups {
		if _, ok := selected[g.Key]; ok {
			out = append(out, g)
		}
	}
	return out
}
