package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPesos(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"whole amount", 1234567, "$1,234,567"},
		{"rounds fractions", 1234567.8, "$1,234,568"},
		{"zero", 0, "$0"},
		{"small", 800, "$800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPesos(tt.amount))
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Run("plain number", func(t *testing.T) {
		v, ok := ParseAmount("1234.5")
		assert.True(t, ok)
		assert.InDelta(t, 1234.5, v, 1e-9)
	})

	t.Run("currency symbol and separators", func(t *testing.T) {
		v, ok := ParseAmount("$1,234,567.89")
		assert.True(t, ok)
		assert.InDelta(t, 1234567.89, v, 1e-6)
	})

	t.Run("comma decimal mark", func(t *testing.T) {
		v, ok := ParseAmount("1234,56")
		assert.True(t, ok)
		assert.InDelta(t, 1234.56, v, 1e-9)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, ok := ParseAmount("n/a")
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParseAmount("")
		assert.False(t, ok)
	})
}
