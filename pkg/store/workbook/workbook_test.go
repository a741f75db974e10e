package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildFixture(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Posibles"))
	require.NoError(t, f.SetSheetRow("Posibles", "A1", &[]any{"Fecha CC", "Subtotal", "Cliente"}))
	require.NoError(t, f.SetSheetRow("Posibles", "A2", &[]any{"2024-01-05", 100, "ACME Corp"}))
	require.NoError(t, f.SetSheetRow("Posibles", "A3", &[]any{"2024-02-10", 200, ""}))

	_, err := f.NewSheet("Enviados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Enviados", "A1", &[]any{"Dia", "Subtotal"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestLoad(t *testing.T) {
	wb, err := Load(buildFixture(t))
	require.NoError(t, err)

	t.Run("sheet inventory", func(t *testing.T) {
		assert.Equal(t, []string{"Posibles", "Enviados"}, wb.Names())
	})

	t.Run("by position", func(t *testing.T) {
		sheet, ok := wb.At(0)
		require.True(t, ok)
		assert.Equal(t, "Posibles", sheet.Name)
		assert.Equal(t, []string{"Fecha CC", "Subtotal", "Cliente"}, sheet.Table.Columns)
		assert.Equal(t, 2, sheet.Table.Len())
	})

	t.Run("by name", func(t *testing.T) {
		sheet, ok := wb.Named("Enviados")
		require.True(t, ok)
		assert.Equal(t, 0, sheet.Table.Len())
	})

	t.Run("missing sheet degrades to not found", func(t *testing.T) {
		_, ok := wb.At(7)
		assert.False(t, ok)
		_, ok = wb.Named("Metas")
		assert.False(t, ok)
	})

	t.Run("blank cells load as null markers", func(t *testing.T) {
		sheet, _ := wb.At(0)
		assert.True(t, sheet.Table.Rows[1]["Cliente"].IsEmpty())
	})
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}
