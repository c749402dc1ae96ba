package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlatformFee(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		feeBps int64
		want   int64
	}{
		{"two percent of 1000.00", 100000, 200, 2000},
		{"rounds up at half", 97500, 200, 2000},
		{"rounds down below half", 97000, 200, 1900},
		{"small amount", 5000, 200, 100},
		{"fee below half a unit rounds to zero", 2000, 200, 0},
		{"zero amount", 0, 200, 0},
		{"negative amount", -5000, 200, 0},
		{"zero rate", 100000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PlatformFee(tc.amount, tc.feeBps))
		})
	}
}

func TestFeeIsWholeCurrencyUnits(t *testing.T) {
	for _, amount := range []int64{1, 99, 12345, 999999, 40000} {
		fee := PlatformFee(amount, DefaultPlatformFeeBps)
		require.Zero(t, fee%MinorUnitsPerUnit, "fee %d for amount %d not whole units", fee, amount)
	}
}

func TestToMinor(t *testing.T) {
	require.Equal(t, int64(250000), ToMinor(2500))
	require.Equal(t, int64(0), ToMinor(0))
}
