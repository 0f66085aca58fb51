package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"zero", decimal.Zero, "Rp 0"},
		{"hundreds", decimal.NewFromInt(500), "Rp 500"},
		{"thousands", decimal.NewFromInt(35000), "Rp 35.000"},
		{"millions", decimal.NewFromInt(1250000), "Rp 1.250.000"},
		{"cents", decimal.RequireFromString("15000.5"), "Rp 15.000,50"},
		{"negative", decimal.NewFromInt(-2000), "Rp -2.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupiah(tt.amount))
		})
	}
}
