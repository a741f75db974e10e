// Package targets joins the monthly billing target sheet against the
// realized amounts per calendar month.
package targets

import (
	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
)

// monthNames is the canonical ordered list used by the target sheet.
var monthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func monthNumber(name string) int {
	for i, m := range monthNames {
		if m == name {
			return i + 1
		}
	}
	return 0
}

// Reshape turns the wide target sheet (one column per month name) into
// target rows. Columns whose header is not a recognized month name are
// skipped and reported, never fatal; the target amount is the first
// coercible number in the column.
func Reshape(t domain.Table) ([]domain.TargetRow, []string) {
	var rows []domain.TargetRow
	var skipped []string

	for _, col := range t.Columns {
		month := monthNumber(col)
		if month == 0 {
			skipped = append(skipped, col)
			continue
		}
		target := 0.0
		for _, row := range t.Rows {
			if n, ok := coerce.Number(row[col]); ok {
				target = n
				break
			}
		}
		rows = append(rows, domain.TargetRow{Month: month, MonthName: col, Target: target})
	}
	return rows, skipped
}

// Compare left-joins targets with the actual amounts per month number.
// Months without actuals default to 0. Ratio is actual/target*100 with a
// zero target mapped to ratio 0, not a division error.
func Compare(targetRows []domain.TargetRow, actualByMonth map[int]float64) []domain.TargetComparison {
	out := make([]domain.TargetComparison, 0, len(targetRows))
	for _, tr := range targetRows {
		actual := actualByMonth[tr.Month]
		ratio := 0.0
		if tr.Target != 0 {
			ratio = actual / tr.Target * 100
		}
		out = append(out, domain.TargetComparison{
			Month:     tr.Month,
			MonthName: tr.MonthName,
			Target:    tr.Target,
			Actual:    actual,
			Ratio:     ratio,
		})
	}
	return out
}
