package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEscrowStatusTerminal(t *testing.T) {
	for _, status := range []EscrowStatus{EscrowReleased, EscrowRefunded, EscrowCompleted} {
		require.True(t, status.Terminal(), "status %s", status)
	}
	for _, status := range []EscrowStatus{EscrowPending, EscrowFunded, EscrowConfirmed, EscrowDispute} {
		require.False(t, status.Terminal(), "status %s", status)
	}
}

func TestFundsBalanced(t *testing.T) {
	funded := time.Now()
	cases := []struct {
		name   string
		ledger EscrowLedger
		want   bool
	}{
		{
			"unfunded ledger holds nothing",
			EscrowLedger{Amount: 10000},
			true,
		},
		{
			"unfunded ledger must not hold funds",
			EscrowLedger{Amount: 10000, Funds: FundBreakdown{Held: 10000}},
			false,
		},
		{
			"funded ledger fully held",
			EscrowLedger{Amount: 10000, FundedAt: funded, Funds: FundBreakdown{Held: 10000}},
			true,
		},
		{
			"released with fee",
			EscrowLedger{Amount: 10000, FundedAt: funded, Funds: FundBreakdown{Released: 9800, FeeCollected: 200}},
			true,
		},
		{
			"refund waives the fee",
			EscrowLedger{Amount: 10000, FundedAt: funded, Funds: FundBreakdown{Refunded: 10000}},
			true,
		},
		{
			"funds lost",
			EscrowLedger{Amount: 10000, FundedAt: funded, Funds: FundBreakdown{Released: 9800}},
			false,
		},
		{
			"over-distribution",
			EscrowLedger{Amount: 10000, FundedAt: funded, Funds: FundBreakdown{Held: 10000, Released: 9800}},
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.ledger.FundsBalanced())
		})
	}
}
