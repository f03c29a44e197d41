package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/invoice-tex/internal/decimal"
)

func TestMul_IsExact(t *testing.T) {
	tests := []struct {
		a, b     string
		expected string
	}{
		{"2.5", "4", "10"},
		{"100.00", "2", "200"},
		{"0.1", "0.2", "0.02"},
		{"1.005", "3", "3.015"},
		{"0.333", "0.333", "0.110889"},
	}

	for _, tt := range tests {
		t.Run(tt.a+"x"+tt.b, func(t *testing.T) {
			result := decimal.Mul(dec.RequireFromString(tt.a), dec.RequireFromString(tt.b))
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.RequireFromString("0.1"),
		dec.RequireFromString("0.2"),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.Equal(t, "300.3", result.String())
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestFormatPLN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"12", "12,00"},
		{"12.5", "12,50"},
		{"12.345", "12,35"},
		{"12.344", "12,34"},
		{"12.355", "12,36"},
		{"0", "0,00"},
		{"0.005", "0,01"},
		{"1234567.891", "1234567,89"},
		{"-3.125", "-3,13"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, decimal.FormatPLN(dec.RequireFromString(tt.input)))
		})
	}
}

func TestFormatComma(t *testing.T) {
	assert.Equal(t, "3,142", decimal.FormatComma(dec.RequireFromString("3.14159"), 3))
	assert.Equal(t, "3", decimal.FormatComma(dec.RequireFromString("3.14159"), 0))
}
