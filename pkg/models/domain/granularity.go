package domain

import "fmt"

// Granularity is the bucketing resolution for date columns.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "", string(GranularityMonth):
		return GranularityMonth, nil
	case string(GranularityDay):
		return GranularityDay, nil
	case string(GranularityYear):
		return GranularityYear, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

func (g Granularity) String() string { return string(g) }
