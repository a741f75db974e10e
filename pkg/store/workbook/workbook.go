// Package workbook reads an uploaded xlsx file into raw tables, one per
// sheet. It is the supplier of untyped tabular data for the pipeline;
// all typing happens downstream in coercion.
package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

type Sheet struct {
	Name  string
	Table domain.Table
}

type Workbook struct {
	sheets []Sheet
	index  map[string]int
}

// Load reads every sheet of the workbook. Sheets that cannot be read are
// kept as empty tables so dependent features can degrade instead of
// failing the whole upload.
func Load(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{index: map[string]int{}}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			rows = nil
		}
		wb.index[name] = len(wb.sheets)
		wb.sheets = append(wb.sheets, Sheet{Name: name, Table: toTable(rows)})
	}

	if len(wb.sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb, nil
}

func toTable(rows [][]string) domain.Table {
	if len(rows) == 0 {
		return domain.Table{}
	}

	headers := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Columna %d", i+1)
		}
		headers = append(headers, h)
	}

	table := domain.Table{Columns: headers}
	for _, raw := range rows[1:] {
		row := make(domain.Row, len(headers))
		empty := true
		for i, col := range headers {
			var cell string
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			if cell == "" {
				row[col] = domain.Empty()
				continue
			}
			row[col] = domain.String(cell)
			empty = false
		}
		if !empty {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

// Names lists sheet names in workbook order.
func (w *Workbook) Names() []string {
	names := make([]string, 0, len(w.sheets))
	for _, s := range w.sheets {
		names = append(names, s.Name)
	}
	return names
}

// At resolves a sheet by position.
func (w *Workbook) At(i int) (Sheet, bool) {
	if i < 0 || i >= len(w.sheets) {
		return Sheet{}, false
	}
	return w.sheets[i], true
}

// Named resolves a sheet by exact name.
func (w *Workbook) Named(name string) (Sheet, bool) {
	i, ok := w.index[name]
	if !ok {
		return Sheet{}, false
	}
	return w.sheets[i], true
}
