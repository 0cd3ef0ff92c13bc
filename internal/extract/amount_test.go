package extract

import (
	"testing"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		token  string
		wantOK bool
	}{
		{name: "rp with space", text: "Rp 150.000 pembayaran berhasil", token: "150.000", wantOK: true},
		{name: "idr international", text: "IDR 2,500,000.00 transfer masuk", token: "2,500,000.00", wantOK: true},
		{name: "no space", text: "Total:Rp1.234.567,89", token: "1.234.567,89", wantOK: true},
		{name: "lowercase marker", text: "sebesar rp 25.000", token: "25.000", wantOK: true},
		{name: "uppercase marker", text: "RP 10.000", token: "10.000", wantOK: true},
		{name: "first match wins", text: "Rp 1.000 lalu IDR 2.000", token: "1.000", wantOK: true},
		{name: "stops at malformed group", text: "Rp 12.34 diskon", token: "12.34", wantOK: true},
		{name: "leading group limited to three digits", text: "Rp 1234567", token: "123", wantOK: true},
		{name: "no marker", text: "Saldo 150.000", wantOK: false},
		{name: "marker without digits", text: "Rp -", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := FindAmount(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Rp 1.234.567,89", "1234567.89"},
		{"Rp 1,234,567.89", "1234567.89"},
		{"Rp 150.000 pembayaran berhasil", "150000"},
		{"IDR 2,500,000.00 transfer masuk", "2500000"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseAmount(tt.text)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_NoMatch(t *testing.T) {
	_, err := ParseAmount("tidak ada nominal")
	assert.ErrorIs(t, err, ErrNoAmount)
	assert.NotErrorIs(t, err, currency.ErrInvalidAmount)
}
