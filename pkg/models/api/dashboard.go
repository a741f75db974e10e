package api

// UploadResponse reports the outcome of a workbook upload.
type UploadResponse struct {
	DatasetID string        `json:"dataset_id"`
	Sheets    []SheetStatus `json:"sheets"`
}

type SheetStatus struct {
	Role           string   `json:"role"`
	Name           string   `json:"name,omitempty"`
	Rows           int      `json:"rows"`
	Available      bool     `json:"available"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Warning        string   `json:"warning,omitempty"`
}

type PeriodTotal struct {
	Period         string  `json:"period"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"total_formatted"`
}

// Summary is the period-bucketed aggregation for one sheet, optionally
// narrowed to a selected set of periods.
type Summary struct {
	Sheet          string        `json:"sheet"`
	Granularity    string        `json:"granularity"`
	Groups         []PeriodTotal `json:"groups"`
	Total          float64       `json:"total"`
	TotalFormatted string        `json:"total_formatted"`
	ExcludedRows   int           `json:"excluded_rows"`
	Warning        string        `json:"warning,omitempty"`
}

// Series is a chart-ready value series in chronological order.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type ParetoPoint struct {
	Key           string  `json:"key"`
	Value         float64 `json:"value"`
	CumulativePct float64 `json:"cumulative_pct"`
}

type ParetoResponse struct {
	Group  string        `json:"group"`
	Total  float64       `json:"total"`
	Points []ParetoPoint `json:"points"`
}

type ComparisonRow struct {
	Month           int     `json:"month"`
	MonthName       string  `json:"month_name"`
	Target          float64 `json:"target"`
	Actual          float64 `json:"actual"`
	Ratio           float64 `json:"ratio"`
	TargetFormatted string  `json:"target_formatted"`
	ActualFormatted string  `json:"actual_formatted"`
}

type ComparisonResponse struct {
	Rows          []ComparisonRow `json:"rows"`
	SkippedMonths []string        `json:"skipped_months,omitempty"`
	Warning       string          `json:"warning,omitempty"`
}

// FilterState is the applied (and session-retained) filter selection for
// the search tab.
type FilterState struct {
	Client    string   `json:"client,omitempty"`
	Cierre    string   `json:"cierre,omitempty"`
	Comercial string   `json:"comercial,omitempty"`
	Residuos  []string `json:"residuos,omitempty"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
}

type SearchResponse struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Total   float64             `json:"total"`
	Options map[string][]string `json:"options"`
	Applied FilterState         `json:"applied"`
}

type ErrResponse struct {
	Error string `json:"error"`
}
