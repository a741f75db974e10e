package pivot

import (
	"testing"
	"time"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date, value, comercial string) domain.Row {
	return domain.Row{
		"Fecha CC":  domain.String(date),
		"Subtotal":  domain.String(value),
		"Comercial": domain.String(comercial),
	}
}

func TestPeriodKey(t *testing.T) {
	d := time.Date(2024, 2, 10, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-10", PeriodKey(d, domain.GranularityDay))
	assert.Equal(t, "2024-02", PeriodKey(d, domain.GranularityMonth))
	assert.Equal(t, "2024", PeriodKey(d, domain.GranularityYear))
}

func TestSumByPeriod(t *testing.T) {
	table := domain.Table{
		Columns: []string{"Fecha CC", "Subtotal", "Comercial"},
		Rows: []domain.Row{
			row("2024-01-05", "100", "A"),
			row("2024-02-10", "200", "B"),
		},
	}

	groups := SumByPeriod(table, "Fecha CC", "Subtotal", domain.GranularityMonth)

	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01", groups[0].Key)
	assert.Equal(t, 100.0, groups[0].Total)
	assert.Equal(t, "2024-02", groups[1].Key)
	assert.Equal(t, 200.0, groups[1].Total)
	assert.Equal(t, 300.0, Total(groups))
}

func TestSumByConservation(t *testing.T) {
	table := domain.Table{
		Columns: []string{"Fecha CC", "Subtotal", "Comercial"},
		Rows: []domain.Row{
			row("2024-01-05", "100.25", "A"),
			row("2024-01-06", "49.75", "A"),
			row("2024-02-10", "200", "B"),
			row("2024-03-01", "10", "C"),
		},
	}

	groups := SumBy(table, "Comercial", "Subtotal")

	columnSum := 100.25 + 49.75 + 200 + 10

	assert.InDelta(t, columnSum, Total(groups), 1e-9)

	t.Run("first seen order", func(t *testing.T) {
		require.Len(t, groups, 3)
		assert.Equal(t, "A", groups[0].Key)
		assert.Equal(t, "B", groups[1].Key)
		assert.Equal(t, "C", groups[2].Key)
	})
}

func TestSumByMonth(t *testing.T) {
	table := domain.Table{
		Columns: []string{"Dia", "Subtotal"},
		Rows: []domain.Row{
			{"Dia": domain.String("2024-01-05"), "Subtotal": domain.String("500")},
			{"Dia": domain.String("2024-01-20"), "Subtotal": domain.String("300")},
			{"Dia": domain.String("2024-03-02"), "Subtotal": domain.String("50")},
			{"Dia": domain.String("bad date"), "Subtotal": domain.String("999")},
		},
	}

	totals := SumByMonth(table, "Dia", "Subtotal")

	assert.Equal(t, 800.0, totals[1])
	assert.Equal(t, 50.0, totals[3])
	assert.NotContains(t, totals, 2)
}

func TestKeep(t *testing.T) {
	groups := []domain.AggregateGroup{
		{Key: "2024-01", Total: 100},
		{Key: "2024-02", Total: 200},
	}

	t.Run("empty selection keeps everything", func(t *testing.T) {
		assert.Len(t, Keep(groups, nil), 2)
	})

	t.Run("narrows to selected period", func(t *testing.T) {
		kept := Keep(groups, []string{"2024-02"})
		require.Len(t, kept, 1)
		assert.Equal(t, 200.0, kept[0].Total)
	})
}

func TestPareto(t *testing.T) {
	groups := []domain.AggregateGroup{
		{Key: "ACME Corp", Total: 500},
		{Key: "Beta SAS", Total: 300},
		{Key: "Gamma Ltda", Total: 200},
	}

	entries, err := Pareto(groups)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	t.Run("sorted descending", func(t *testing.T) {
		assert.Equal(t, "ACME Corp", entries[0].Key)
		assert.Equal(t, "Gamma Ltda", entries[2].Key)
	})

	t.Run("cumulative percentages are monotonic and end at 100", func(t *testing.T) {
		prev := 0.0
		for _, e := range entries {
			assert.GreaterOrEqual(t, e.CumulativePct, prev)
			prev = e.CumulativePct
		}
		assert.InDelta(t, 100, entries[len(entries)-1].CumulativePct, 1e-9)
	})

	t.Run("non-positive total is refused", func(t *testing.T) {
		_, err := Pareto([]domain.AggregateGroup{{Key: "x", Total: 0}})
		assert.ErrorIs(t, err, ErrNoPositiveTotal)

		_, err = Pareto(nil)
		assert.ErrorIs(t, err, ErrNoPositiveTotal)
	})
}
