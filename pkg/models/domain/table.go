package domain

import (
	"strconv"
	"time"
)

type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDate
)

// Value is a single cell. Exactly one of the payload fields is meaningful,
// selected by Kind; KindEmpty is the null marker produced by coercion.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func Empty() Value           { return Value{Kind: KindEmpty} }

func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// Display renders the cell for tables, option lists and exports.
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		return v.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// Row maps column name to cell value. Rows read from a source table are
// never mutated; coercion and derived columns operate on copies.
type Row map[string]Value

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows sharing a column schema. The schema
// is discovered from the source sheet, not declared.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t Table) Len() int { return len(t.Rows) }

// Select returns a view restricted to the named columns, keeping only the
// ones the table actually has. Rows are shared, not copied.
func (t Table) Select(columns []string) Table {
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if t.HasColumn(c) {
			kept = append(kept, c)
		}
	}
	return Table{Columns: kept, Rows: t.Rows}
}
