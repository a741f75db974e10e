package domain

// DropReport accounts for rows excluded by coercion because a required
// date or value cell was unparseable.
type DropReport struct {
	RowsIn          int
	RowsKept        int
	DroppedByColumn map[string]int
}

func (r DropReport) Excluded() int { return r.RowsIn - r.RowsKept }

// SheetDiagnostics describes how a source sheet loaded: whether it was
// found at all, how many rows it carried and which expected columns were
// absent. A missing sheet degrades to an empty table with a warning.
type SheetDiagnostics struct {
	Role           string
	Name           string
	RowsRead       int
	MissingColumns []string
	Warning        string
}
