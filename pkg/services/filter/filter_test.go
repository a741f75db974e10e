package filter

import (
	"testing"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientsTable() domain.Table {
	return domain.Table{
		Columns: []string{"Cliente", "Comercial", "Fecha CC"},
		Rows: []domain.Row{
			{"Cliente": domain.String("ACME Corp"), "Comercial": domain.String("Ana"), "Fecha CC": domain.String("2024-01-10")},
			{"Cliente": domain.String("Other"), "Comercial": domain.String("Luis"), "Fecha CC": domain.String("2024-02-15")},
			{"Cliente": domain.Empty(), "Comercial": domain.String("Ana"), "Fecha CC": domain.String("2024-03-20")},
		},
	}
}

func TestTextContains(t *testing.T) {
	table := clientsTable()

	t.Run("case-insensitive substring", func(t *testing.T) {
		got := Apply(table, TextContains("Cliente", "acme"))
		require.Equal(t, 1, got.Len())
		assert.Equal(t, "ACME Corp", got.Rows[0]["Cliente"].Display())
	})

	t.Run("empty query filters nothing", func(t *testing.T) {
		got := Apply(table, TextContains("Cliente", ""))
		assert.Equal(t, table.Len(), got.Len())
	})

	t.Run("null cells never match", func(t *testing.T) {
		got := Apply(table, TextContains("Cliente", "a"))
		for _, row := range got.Rows {
			assert.False(t, row["Cliente"].IsEmpty())
		}
	})
}

func TestEquals(t *testing.T) {
	table := clientsTable()

	t.Run("sentinel disables the filter", func(t *testing.T) {
		assert.Equal(t, table.Len(), Apply(table, Equals("Comercial", All)).Len())
		assert.Equal(t, table.Len(), Apply(table, Equals("Comercial", "")).Len())
	})

	t.Run("exact match", func(t *testing.T) {
		got := Apply(table, Equals("Comercial", "Luis"))
		require.Equal(t, 1, got.Len())
	})
}

func TestOneOf(t *testing.T) {
	table := clientsTable()

	t.Run("empty selection keeps every row", func(t *testing.T) {
		got := Apply(table, OneOf("Comercial", nil))
		assert.Equal(t, table.Len(), got.Len())
	})

	t.Run("membership", func(t *testing.T) {
		got := Apply(table, OneOf("Comercial", []string{"Ana"}))
		assert.Equal(t, 2, got.Len())
	})
}

func TestDateBetween(t *testing.T) {
	table := clientsTable()

	t.Run("end date is fully included", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		got := Apply(table, DateBetween("Fecha CC", from, to))
		assert.Equal(t, 2, got.Len())
	})

	t.Run("unset range filters nothing", func(t *testing.T) {
		got := Apply(table, DateBetween("Fecha CC", time.Time{}, time.Time{}))
		assert.Equal(t, table.Len(), got.Len())
	})

	t.Run("intra-day timestamps on the end date match", func(t *testing.T) {
		withTime := domain.Table{
			Columns: []string{"Fecha CC"},
			Rows:    []domain.Row{{"Fecha CC": domain.String("2024-02-15 16:30:00")}},
		}
		to := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		got := Apply(withTime, DateBetween("Fecha CC", time.Time{}, to))
		assert.Equal(t, 1, got.Len())
	})
}

func TestApplyIdempotence(t *testing.T) {
	table := clientsTable()
	pred := TextContains("Cliente", "acme")

	once := Apply(table, pred)
	twice := Apply(once, pred)

	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestOptions(t *testing.T) {
	table := clientsTable()

	t.Run("distinct non-empty values in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"Ana", "Luis"}, Options(table, "Comercial"))
		assert.Equal(t, []string{"ACME Corp", "Other"}, Options(table, "Cliente"))
	})

	t.Run("narrowed by the other active filters", func(t *testing.T) {
		got := Options(table, "Comercial", TextContains("Cliente", "acme"))
		assert.Equal(t, []string{"Ana"}, got)
	})
}
