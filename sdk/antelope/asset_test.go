package antelope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAsset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		symbol string
		want   string
	}{
		{name: "whole and fraction", amount: 10000, symbol: "4,EOS", want: "1.0000 EOS"},
		{name: "sub unit", amount: 1, symbol: "4,EOS", want: "0.0001 EOS"},
		{name: "zero", amount: 0, symbol: "4,EOS", want: "0.0000 EOS"},
		{name: "negative", amount: -25000, symbol: "4,EOS", want: "-2.5000 EOS"},
		{name: "zero precision", amount: 42, symbol: "0,BP", want: "42 BP"},
		{name: "high precision", amount: 5, symbol: "8,WAX", want: "0.00000005 WAX"},
		{name: "min int64", amount: math.MinInt64, symbol: "4,EOS", want: "-922337203685477.5808 EOS"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := parseSymbol(tt.symbol)
			require.NoError(t, err)

			got, err := formatAsset(tt.amount, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssetRoundTrip(t *testing.T) {
	t.Parallel()

	for _, quantity := range []string{
		"1.0000 EOS",
		"-2.5000 EOS",
		"0.0000 EOS",
		"42 BP",
		"0.00000005 WAX",
	} {
		quantity := quantity
		t.Run(quantity, func(t *testing.T) {
			t.Parallel()

			amount, rawSymbol, err := parseAsset(quantity)
			require.NoError(t, err)

			got, err := formatAsset(amount, rawSymbol)
			require.NoError(t, err)
			assert.Equal(t, quantity, got)
		})
	}
}

func TestParseAssetInvalid(t *testing.T) {
	t.Parallel()

	for _, quantity := range []string{
		"",
		"1.0000",
		"1.0000 eos",
		"1.0000 TOOLONGCODE",
		"x.0000 EOS",
	} {
		_, _, err := parseAsset(quantity)
		assert.Error(t, err, quantity)
	}
}

func TestSymbolRoundTrip(t *testing.T) {
	t.Parallel()

	for _, symbol := range []string{"4,EOS", "0,BP", "8,WAX", "10,BTC"} {
		raw, err := parseSymbol(symbol)
		require.NoError(t, err)

		got, err := formatSymbol(raw)
		require.NoError(t, err)
		assert.Equal(t, symbol, got)
	}
}

func TestFormatSymbolInvalidCode(t *testing.T) {
	t.Parallel()

	// Lowercase bytes in the code portion are rejected.
	raw := uint64(4) | uint64('e')<<8

	_, err := formatSymbol(raw)
	require.Error(t, err)
}
