package domain

// AggregateGroup is one output row of a group-and-sum: the distinct key and
// the sum of the value column across rows sharing it.
type AggregateGroup struct {
	Key   string
	Total float64
	Count int
}

// ParetoEntry annotates an aggregate group with its running share of the
// grand total, in percent.
type ParetoEntry struct {
	Key           string
	Value         float64
	Cumulative    float64
	CumulativePct float64
}

// TargetRow is one month of the billing target sheet after reshaping the
// wide month-per-column layout.
type TargetRow struct {
	Month     int
	MonthName string
	Target    float64
}

// TargetComparison joins a monthly target with the realized amount.
// Ratio is actual/target*100; a zero target yields ratio 0.
type TargetComparison struct {
	Month     int
	MonthName string
	Target    float64
	Actual    float64
	Ratio     float64
}
