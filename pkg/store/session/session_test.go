package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndSelections(t *testing.T) {
	store := NewStore([]byte("test-secret"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/search", nil)

	selections := map[string][]string{
		"comercial": {"Ana"},
		"residuos":  {"Aceite", "Lodos"},
	}
	require.NoError(t, store.Save(w, r, "buscar", selections))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/search", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	t.Run("round trip", func(t *testing.T) {
		got := store.Selections(next, "buscar")
		assert.Equal(t, selections, got)
	})

	t.Run("tabs are independent", func(t *testing.T) {
		assert.Nil(t, store.Selections(next, "posibles"))
	})

	t.Run("no cookie means no selections", func(t *testing.T) {
		bare := httptest.NewRequest(http.MethodGet, "/search", nil)
		assert.Nil(t, store.Selections(bare, "buscar"))
	})
}

func TestRestore(t *testing.T) {
	options := []string{"Aceite", "Lodos", "Solventes"}

	t.Run("keeps only still-valid values", func(t *testing.T) {
		got := Restore([]string{"Lodos", "Retirado"}, options)
		assert.Equal(t, []string{"Lodos"}, got)
	})

	t.Run("all stale resets to no filter", func(t *testing.T) {
		assert.Nil(t, Restore([]string{"Retirado"}, options))
	})

	t.Run("empty saved", func(t *testing.T) {
		assert.Nil(t, Restore(nil, options))
	})
}

func TestRestoreOne(t *testing.T) {
	options := []string{"Ana", "Luis"}

	assert.Equal(t, "Ana", RestoreOne("Ana", options))
	assert.Equal(t, "", RestoreOne("Pedro", options))
	assert.Equal(t, "", RestoreOne("", options))
}
