package dataset

import "github.com/co-tools/billing-atlas/pkg/services/coerce"

// Role identifies what a sheet means to the dashboard, independent of
// its position or exact name in the uploaded workbook.
type Role string

const (
	RolePosibles  Role = "posibles"
	RoleEnviados  Role = "enviados"
	RoleMetas     Role = "metas"
	RoleFacturado Role = "facturado"
)

// SheetSpec declares where a sheet is found and which columns the
// pipeline needs from it. Date and value columns are required for the
// aggregation features; Optional columns feed filters and exports and
// may be absent.
type SheetSpec struct {
	Role        Role
	Index       int
	Names       []string
	DateColumn  string
	ValueColumn string
	Optional    []string
}

// Wide reports whether the sheet uses the wide month-per-column layout
// instead of date/value columns.
func (s SheetSpec) Wide() bool { return s.DateColumn == "" }

// CoerceSpec names the required columns for coercion-and-drop.
func (s SheetSpec) CoerceSpec() coerce.Spec {
	return coerce.Spec{Dates: []string{s.DateColumn}, Numbers: []string{s.ValueColumn}}
}

// DefaultSchema mirrors the workbook layout the commercial team uses:
// possible billing items, sent items, monthly targets and invoiced
// amounts, in that sheet order.
func DefaultSchema() []SheetSpec {
	return []SheetSpec{
		{
			Role:        RolePosibles,
			Index:       0,
			Names:       []string{"Posibles", "POSIBLES"},
			DateColumn:  "Fecha CC",
			ValueColumn: "Subtotal",
			Optional: []string{
				"Cliente", "Comercial", "CIERRE DE FACTURACIÓN",
				"REQUERIMIENTO ESPECIAL", "OBSERVACIONES", "Residuo", "Peso CP",
			},
		},
		{
			Role:        RoleEnviados,
			Index:       1,
			Names:       []string{"Enviados", "ENVIADOS"},
			DateColumn:  "Dia",
			ValueColumn: "Subtotal",
			Optional:    []string{"Cliente", "Comercial", "Residuo"},
		},
		{
			Role:  RoleMetas,
			Index: 2,
			Names: []string{"Metas", "METAS"},
		},
		{
			Role:        RoleFacturado,
			Index:       3,
			Names:       []string{"Asi va facturación", "Facturado", "FACTURADO"},
			DateColumn:  "CreaFecha",
			ValueColumn: "Total",
			Optional:    []string{"COMERCIAL"},
		},
	}
}
