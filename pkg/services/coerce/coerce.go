// Package coerce converts raw sheet cells into canonical dates and
// numbers. Coercion never fails: unparseable input degrades to the empty
// value, and rows missing a required cell are dropped with accounting.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/money"
)

// Spec names the columns a pipeline requires: date columns and numeric
// value columns. Every listed column is required by Table.
type Spec struct {
	Dates   []string
	Numbers []string
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01-02-06",
}

// excel serial dates count days from this epoch
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Date coerces a cell to a calendar date. Numeric cells are interpreted
// as spreadsheet serial dates.
func Date(v domain.Value) (time.Time, bool) {
	switch v.Kind {
	case domain.KindDate:
		return v.Time, true
	case domain.KindNumber:
		return fromSerial(v.Num)
	case domain.KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(serial)
		}
	}
	return time.Time{}, false
}

func fromSerial(serial float64) (time.Time, bool) {
	// 2958465 is the serial for 9999-12-31
	if serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(serial)), true
}

// Number coerces a cell to a float amount.
func Number(v domain.Value) (float64, bool) {
	switch v.Kind {
	case domain.KindNumber:
		return v.Num, true
	case domain.KindString:
		return money.ParseAmount(v.Str)
	}
	return 0, false
}

// Columns returns a copy of the table with the spec columns coerced in
// place. Unparseable cells become empty; no rows are dropped.
func Columns(t domain.Table, spec Spec) domain.Table {
	out := domain.Table{Columns: t.Columns, Rows: make([]domain.Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		coerced := row.Clone()
		for _, col := range spec.Dates {
			if d, ok := Date(row[col]); ok {
				coerced[col] = domain.Date(d)
			} else {
				coerced[col] = domain.Empty()
			}
		}
		for _, col := range spec.Numbers {
			if n, ok := Number(row[col]); ok {
				coerced[col] = domain.Number(n)
			} else {
				coerced[col] = domain.Empty()
			}
		}
		out.Rows = append(out.Rows, coerced)
	}
	return out
}

// Table coerces the spec columns and drops every row left with an empty
// cell in one of them. The report counts drops per offending column.
func Table(t domain.Table, spec Spec) (domain.Table, domain.DropReport) {
	coerced := Columns(t, spec)
	report := domain.DropReport{
		RowsIn:          len(coerced.Rows),
		DroppedByColumn: map[string]int{},
	}

	required := make([]string, 0, len(spec.Dates)+len(spec.Numbers))
	required = append(required, spec.Dates...)
	required = append(required, spec.Numbers...)

	kept := make([]domain.Row, 0, len(coerced.Rows))
	for _, row := range coerced.Rows {
		drop := false
		for _, col := range required {
			if row[col].IsEmpty() {
				report.DroppedByColumn[col]++
				drop = true
			}
		}
		if !drop {
			kept = append(kept, row)
		}
	}

	report.RowsKept = len(kept)
	return domain.Table{Columns: coerced.Columns, Rows: kept}, report
}
