package dashboard

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/store/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fixtureWithoutTargets builds a workbook carrying only the posibles
// sheet, so every target-dependent view has to degrade.
func fixtureWithoutTargets(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Posibles"))
	require.NoError(t, f.SetSheetRow("Posibles", "A1", &[]any{"Fecha CC", "Subtotal", "Cliente"}))
	require.NoError(t, f.SetSheetRow("Posibles", "A2", &[]any{"2024-03-01", 100, "ACME Corp"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestComparisonDegradesWithoutTargets(t *testing.T) {
	reg := dataset.NewRegistry()
	ds, err := reg.Add(context.Background(), fixtureWithoutTargets(t))
	require.NoError(t, err)

	resp := comparisonResponse(ds)
	assert.Empty(t, resp.Rows)
	assert.NotEmpty(t, resp.Warning)
}

func TestSheetStatusesFlagMissingSheets(t *testing.T) {
	reg := dataset.NewRegistry()
	ds, err := reg.Add(context.Background(), fixtureWithoutTargets(t))
	require.NoError(t, err)

	statuses := sheetStatuses(ds)
	require.Len(t, statuses, 4)

	assert.True(t, statuses[0].Available)
	assert.Empty(t, statuses[0].Warning)
	for _, status := range statuses[1:] {
		assert.False(t, status.Available, status.Role)
		assert.NotEmpty(t, status.Warning, status.Role)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	h := NewHandler(dataset.NewRegistry(), session.NewStore([]byte("secret")))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", strings.NewReader("no multipart body"))
	rec := httptest.NewRecorder()

	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
