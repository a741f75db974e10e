package dataset

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fixture builds a workbook with the first two schema sheets only, and
// the posibles sheet missing its Residuo column.
func fixture(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Posibles"))
	require.NoError(t, f.SetSheetRow("Posibles", "A1",
		&[]any{"Fecha CC", "Subtotal", "Cliente", "Comercial", "CIERRE DE FACTURACIÓN", "REQUERIMIENTO ESPECIAL", "OBSERVACIONES", "Peso CP"}))
	require.NoError(t, f.SetSheetRow("Posibles", "A2",
		&[]any{"2024-01-05", 100, "ACME Corp", "Ana", "1", "", "", ""}))

	_, err := f.NewSheet("Enviados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Enviados", "A1", &[]any{"Dia", "Subotros", "Subtotal"}))
	require.NoError(t, f.SetSheetRow("Enviados", "A2", &[]any{"2024-01-20", "", 300}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestRegistryAdd(t *testing.T) {
	reg := NewRegistry()
	ds, err := reg.Add(context.Background(), fixture(t))
	require.NoError(t, err)
	require.NotEmpty(t, ds.ID)

	t.Run("registered and retrievable", func(t *testing.T) {
		got, ok := reg.Get(ds.ID)
		require.True(t, ok)
		assert.Same(t, ds, got)

		_, ok = reg.Get("unknown")
		assert.False(t, ok)
	})

	t.Run("resolved by name", func(t *testing.T) {
		sheet, ok := ds.Sheet(RolePosibles)
		require.True(t, ok)
		assert.True(t, sheet.Available)
		assert.True(t, sheet.Pipelined())
		assert.Equal(t, "Posibles", sheet.Name)
		assert.Contains(t, sheet.MissingColumns, "Residuo")
	})

	t.Run("missing sheets degrade with a warning", func(t *testing.T) {
		metas, ok := ds.Sheet(RoleMetas)
		require.True(t, ok)
		assert.False(t, metas.Available)
		assert.False(t, metas.Pipelined())
		assert.NotEmpty(t, metas.Diagnostics().Warning)
		assert.Equal(t, 0, metas.Raw.Len())
	})

	t.Run("schema order", func(t *testing.T) {
		sheets := ds.Sheets()
		require.Len(t, sheets, 4)
		assert.Equal(t, RolePosibles, sheets[0].Spec.Role)
		assert.Equal(t, RoleFacturado, sheets[3].Spec.Role)
	})
}

func TestRegistryAddRejectsUnreadable(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(context.Background(), bytes.NewBufferString("nope"))
	assert.Error(t, err)
}
