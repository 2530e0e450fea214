package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		input string
		want  PriceRange
	}{
		{"100-500", PriceRange{Min: "100", Max: "500"}},
		{"200-", PriceRange{Min: "200"}},
		{"-300", PriceRange{Max: "300"}},
		{"150", PriceRange{Max: "150"}},
		{"  100 - 500 ", PriceRange{Min: "100", Max: "500"}},
		{"100€-500€", PriceRange{Min: "100", Max: "500"}},
		{"99,50", PriceRange{Max: "99.5"}},
		{"1.250,00-2.000,00", PriceRange{Min: "1250", Max: "2000"}},
		{"1,250.50", PriceRange{Max: "1250.5"}},
		{"1 000 eur", PriceRange{Max: "1000"}},
		{"0-50", PriceRange{Min: "0", Max: "50"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePriceRange(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceRange_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"", MsgPriceMissing},
		{"-", MsgPriceMissing},
		{"€", MsgPriceMissing},
		{"abc", "Precio 'abc' no es válido"},
		{"abc-100", "Precio mínimo 'abc' no es válido"},
		{"100-xyz", "Precio máximo 'xyz' no es válido"},
		{"100--5", "Precio máximo '-5' no es válido"},
		{"500-100", MsgPriceMinNotBelow},
		{"100-100", MsgPriceMinNotBelow},
		{"1e5", "Precio '1e5' no es válido"},
		{"10_x", "Precio '10\\_x' no es válido"},
		{"*5-10", "Precio mínimo '\\*5' no es válido"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parsePriceRange(tt.input)
			if assert.Error(t, err) {
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestPriceRange_String(t *testing.T) {
	assert.Equal(t, "Sin límite", PriceRange{}.String())
	assert.Equal(t, "100€ - 500€", PriceRange{Min: "100", Max: "500"}.String())
	assert.Equal(t, "0€ - 300€", PriceRange{Max: "300"}.String())
	assert.Equal(t, "200€ - ∞€", PriceRange{Min: "200"}.String())
}
