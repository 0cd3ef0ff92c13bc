package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "indonesian with decimals", token: "1.234.567,89", want: "1234567.89"},
		{name: "international with decimals", token: "1,234,567.89", want: "1234567.89"},
		{name: "indonesian thousands only", token: "150.000", want: "150000"},
		{name: "international two decimals", token: "2,500,000.00", want: "2500000"},
		{name: "plain digits", token: "500", want: "500"},
		{name: "single group indonesian", token: "1.000", want: "1000"},
		{name: "comma only is decimal", token: "1,500", want: "1.5"},
		{name: "comma decimal small value", token: "12,50", want: "12.5"},
		{name: "period decimal without comma is treated as grouping", token: "150.00", want: "15000"},
		{name: "period before comma", token: "10.000,00", want: "10000"},
		{name: "surrounding whitespace", token: "  75.500 ", want: "75500"},
		{name: "large indonesian", token: "123.456.789.012", want: "123456789012"},
		{name: "large international", token: "123,456,789,012.34", want: "123456789012.34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.token)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestNormalizeAmount_BothConventionsConverge(t *testing.T) {
	pairs := [][2]string{
		{"1.234.567,89", "1,234,567.89"},
		{"2.500.000,00", "2,500,000.00"},
		{"12.345,67", "12,345.67"},
	}

	for _, p := range pairs {
		a, err := NormalizeAmount(p[0])
		require.NoError(t, err)
		b, err := NormalizeAmount(p[1])
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%s vs %s", a, b)
	}
}

func TestNormalizeAmount_Invalid(t *testing.T) {
	for _, token := range []string{"", "   ", "1.234,56,78", "abc", "-5"} {
		t.Run(token, func(t *testing.T) {
			_, err := NormalizeAmount(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParseRupiah(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.000.000", 1000000},
		{"2500000", 2500000},
		{" 150.000 ", 150000},
		{"", 0},
		{"sejuta", 0},
		{"1,5", 0},
		{"-1.000", 0},
		{"Rp 10.000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRupiah(tt.in))
		})
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1.000", FormatThousands(1000))
	assert.Equal(t, "25.000.000", FormatThousands(25000000))
	assert.Equal(t, "-1.500", FormatThousands(-1500))
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"150000", "Rp 150.000"},
		{"1234567.89", "Rp 1.234.568"},
		{"2500000.00", "Rp 2.500.000"},
		{"0.5", "Rp 0"},
		{"1.5", "Rp 2"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupiah(decimal.RequireFromString(tt.amount)))
		})
	}
}
