// Package dataset holds uploaded workbooks in memory and validates their
// sheets against the declared schema at load time, so every dependent
// feature learns up front which columns are unavailable instead of
// discovering them ad hoc.
package dataset

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/store/workbook"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SheetData is one sheet resolved against its spec. Available reports
// whether the sheet was found at all; MissingColumns lists expected
// columns the sheet does not carry. An unavailable sheet keeps an empty
// table so dependent features degrade to "no data".
type SheetData struct {
	Spec           SheetSpec
	Name           string
	Raw            domain.Table
	Available      bool
	MissingColumns []string
}

// Pipelined reports whether the aggregation pipeline can run on this
// sheet: it was found and carries its date and value columns.
func (s *SheetData) Pipelined() bool {
	if !s.Available {
		return false
	}
	if s.Spec.Wide() {
		return true
	}
	return s.Raw.HasColumn(s.Spec.DateColumn) && s.Raw.HasColumn(s.Spec.ValueColumn)
}

// Diagnostics summarizes how the sheet loaded, for upload responses and
// the CLI report.
func (s *SheetData) Diagnostics() domain.SheetDiagnostics {
	d := domain.SheetDiagnostics{
		Role:           string(s.Spec.Role),
		Name:           s.Name,
		RowsRead:       s.Raw.Len(),
		MissingColumns: s.MissingColumns,
	}
	if !s.Available {
		d.Warning = fmt.Sprintf("sheet %q not found; dependent views show no data", s.Spec.Role)
	} else if len(s.MissingColumns) > 0 {
		d.Warning = fmt.Sprintf("missing columns %v; dependent features are skipped", s.MissingColumns)
	}
	return d
}

// Dataset is one uploaded workbook resolved against the schema.
type Dataset struct {
	ID         string
	UploadedAt time.Time
	sheets     map[Role]*SheetData
	order      []Role
}

func (d *Dataset) Sheet(role Role) (*SheetData, bool) {
	s, ok := d.sheets[role]
	return s, ok
}

// Sheets returns sheet data in schema order.
func (d *Dataset) Sheets() []*SheetData {
	out := make([]*SheetData, 0, len(d.order))
	for _, role := range d.order {
		out = append(out, d.sheets[role])
	}
	return out
}

// Registry keeps uploaded datasets in memory, keyed by id. Nothing is
// persisted: a restart forgets every upload.
type Registry struct {
	mu       sync.RWMutex
	schema   []SheetSpec
	datasets map[string]*Dataset
}

func NewRegistry() *Registry {
	return &Registry{
		schema:   DefaultSchema(),
		datasets: map[string]*Dataset{},
	}
}

// Add loads a workbook, resolves its sheets against the schema and
// registers the dataset under a fresh id.
func (r *Registry) Add(ctx context.Context, src io.Reader) (*Dataset, error) {
	logger := zerolog.Ctx(ctx)

	wb, err := workbook.Load(src)
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}

	ds := &Dataset{
		ID:         uuid.NewString(),
		UploadedAt: time.Now(),
		sheets:     map[Role]*SheetData{},
	}

	for _, spec := range r.schema {
		data := resolve(wb, spec)
		ds.sheets[spec.Role] = data
		ds.order = append(ds.order, spec.Role)

		if !data.Available {
			logger.Warn().
				Str("role", string(spec.Role)).
				Msg("sheet not found, dependent views degrade to empty")
			continue
		}
		logger.Info().
			Str("role", string(spec.Role)).
			Str("sheet", data.Name).
			Int("rows", data.Raw.Len()).
			Strs("missing_columns", data.MissingColumns).
			Msg("sheet loaded")
	}

	r.mu.Lock()
	r.datasets[ds.ID] = ds
	r.mu.Unlock()

	return ds, nil
}

func (r *Registry) Get(id string) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[id]
	return ds, ok
}

// resolve finds a sheet by name first, then by schema position.
func resolve(wb *workbook.Workbook, spec SheetSpec) *SheetData {
	var sheet workbook.Sheet
	found := false
	for _, name := range spec.Names {
		if s, ok := wb.Named(name); ok {
			sheet, found = s, true
			break
		}
	}
	if !found {
		if s, ok := wb.At(spec.Index); ok {
			sheet, found = s, true
		}
	}

	data := &SheetData{Spec: spec, Available: found}
	if !found {
		return data
	}

	data.Name = sheet.Name
	data.Raw = sheet.Table

	if spec.Wide() {
		return data
	}
	expected := append([]string{spec.DateColumn, spec.ValueColumn}, spec.Optional...)
	for _, col := range expected {
		if !data.Raw.HasColumn(col) {
			data.MissingColumns = append(data.MissingColumns, col)
		}
	}
	return data
}
