// Package excel serializes a filtered, column-selected table into the
// downloadable consolidated workbook: a styled "Consolidado" sheet with
// per-column SUM totals and a "Tabla_Dinamica" cross-tabulation sheet.
package excel

import (
	"bytes"
	"fmt"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
	"github.com/co-tools/billing-atlas/pkg/services/pivot"
	"github.com/xuri/excelize/v2"
)

const (
	SheetConsolidated = "Consolidado"
	SheetPivot        = "Tabla_Dinamica"

	headerFill  = "D7E4BC"
	columnWidth = 20.0
	pesosFormat = `"$"#,##0`
)

// Spec selects and formats the export.
type Spec struct {
	// Columns restricts the consolidated sheet; empty exports everything.
	Columns []string
	// CurrencyColumns get the peso number format and currency totals.
	CurrencyColumns []string
	// PivotGroup/PivotValue drive the cross-tabulation sheet. Missing
	// columns degrade to a diagnostic message, never an error.
	PivotGroup string
	PivotValue string
}

func DefaultSpec() Spec {
	return Spec{
		CurrencyColumns: []string{"Vlr Unit", "Subtotal", "Total"},
		PivotGroup:      "Residuo",
		PivotValue:      "Subtotal",
	}
}

// Build renders the workbook. The pivot sheet always groups over the
// full filtered table, regardless of the column selection.
func Build(filtered domain.Table, spec Spec) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetConsolidated); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	view := filtered
	if len(spec.Columns) > 0 {
		view = filtered.Select(spec.Columns)
	}

	if err := writeConsolidated(f, view, spec); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePivot(f, filtered, spec); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Buffer builds the workbook and serializes it for download.
func Buffer(filtered domain.Table, spec Spec) (*bytes.Buffer, error) {
	f, err := Build(filtered, spec)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}

func writeConsolidated(f *excelize.File, view domain.Table, spec Spec) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	pesos := pesosFormat
	currencyStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &pesos,
		Border:       thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("currency style: %w", err)
	}

	currency := map[string]bool{}
	for _, c := range spec.CurrencyColumns {
		currency[c] = true
	}

	for i, col := range view.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		cell := name + "1"
		if err := f.SetCellValue(SheetConsolidated, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
		if err := f.SetCellStyle(SheetConsolidated, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %q: %w", col, err)
		}
		if err := f.SetColWidth(SheetConsolidated, name, name, columnWidth); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	for r, row := range view.Rows {
		for c, col := range view.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			v := row[col]
			if n, ok := coerce.Number(v); ok {
				if err := f.SetCellValue(SheetConsolidated, cell, n); err != nil {
					return fmt.Errorf("write cell: %w", err)
				}
			} else if err := f.SetCellValue(SheetConsolidated, cell, v.Display()); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
			if currency[col] {
				if err := f.SetCellStyle(SheetConsolidated, cell, cell, currencyStyle); err != nil {
					return fmt.Errorf("style cell: %w", err)
				}
			}
		}
	}

	return writeTotals(f, view, currency, currencyStyle)
}

// writeTotals appends a SUM formula under every numeric column.
func writeTotals(f *excelize.File, view domain.Table, currency map[string]bool, currencyStyle int) error {
	if view.Len() == 0 {
		return nil
	}
	totalRow := view.Len() + 2

	for c, col := range view.Columns {
		if !numericColumn(view, col) {
			continue
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		cell := fmt.Sprintf("%s%d", name, totalRow)
		formula := fmt.Sprintf("SUM(%s2:%s%d)", name, name, totalRow-1)
		if err := f.SetCellFormula(SheetConsolidated, cell, formula); err != nil {
			return fmt.Errorf("totals formula for %q: %w", col, err)
		}
		if currency[col] {
			if err := f.SetCellStyle(SheetConsolidated, cell, cell, currencyStyle); err != nil {
				return fmt.Errorf("style totals cell: %w", err)
			}
		}
	}
	return nil
}

// numericColumn holds when the column has data and every non-empty cell
// coerces to a number.
func numericColumn(t domain.Table, col string) bool {
	seen := false
	for _, row := range t.Rows {
		v := row[col]
		if v.IsEmpty() {
			continue
		}
		if _, ok := coerce.Number(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func writePivot(f *excelize.File, filtered domain.Table, spec Spec) error {
	if _, err := f.NewSheet(SheetPivot); err != nil {
		return fmt.Errorf("create pivot sheet: %w", err)
	}

	if !filtered.HasColumn(spec.PivotGroup) || !filtered.HasColumn(spec.PivotValue) {
		// degrade to a diagnostic, the export itself still succeeds
		if err := f.SetCellValue(SheetPivot, "A1", "No se pudo generar la tabla dinámica."); err != nil {
			return fmt.Errorf("write pivot diagnostic: %w", err)
		}
		msg := fmt.Sprintf("Revisa que existan las columnas '%s' y '%s'.", spec.PivotGroup, spec.PivotValue)
		if err := f.SetCellValue(SheetPivot, "A2", msg); err != nil {
			return fmt.Errorf("write pivot diagnostic: %w", err)
		}
		return nil
	}

	pesos := pesosFormat
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pesos})
	if err != nil {
		return fmt.Errorf("currency style: %w", err)
	}

	if err := f.SetSheetRow(SheetPivot, "A1", &[]any{spec.PivotGroup, spec.PivotValue}); err != nil {
		return fmt.Errorf("write pivot header: %w", err)
	}

	groups := pivot.SumBy(filtered, spec.PivotGroup, spec.PivotValue)
	for i, g := range groups {
		row := i + 2
		if err := f.SetSheetRow(SheetPivot, fmt.Sprintf("A%d", row), &[]any{g.Key, g.Total}); err != nil {
			return fmt.Errorf("write pivot row: %w", err)
		}
		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellStyle(SheetPivot, cell, cell, currencyStyle); err != nil {
			return fmt.Errorf("style pivot cell: %w", err)
		}
	}
	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}
