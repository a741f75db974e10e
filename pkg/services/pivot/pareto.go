package pivot

import (
	"errors"
	"sort"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
)

// ErrNoPositiveTotal means the cumulative share is undefined because the
// groups sum to zero or less. Callers surface a message instead of NaN.
var ErrNoPositiveTotal = errors.New("pareto: grand total is not positive")

// Pareto sorts groups descending by total and annotates each with its
// cumulative percentage of the grand total. The last entry reaches 100.
func Pareto(groups []domain.AggregateGroup) ([]domain.ParetoEntry, error) {
	total := Total(groups)
	if total <= 0 {
		return nil, ErrNoPositiveTotal
	}

	sorted := make([]domain.AggregateGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	entries := make([]domain.ParetoEntry, 0, len(sorted))
	var running float64
	for _, g := range sorted {
		running += g.Total
		entries = append(entries, domain.ParetoEntry{
			Key:           g.Key,
			Value:         g.Total,
			Cumulative:    running,
			CumulativePct: running / total * 100,
		})
	}
	return entries, nil
}
