package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStageAdvancesForwardOnly(t *testing.T) {
	require.True(t, StageNegotiation.CanAdvance(StageSigned))
	require.True(t, StageSigned.CanAdvance(StageInProgress)) // skipping stages is allowed
	require.True(t, StageHarvestSubmitted.CanAdvance(StageCompleted))

	require.False(t, StageSigned.CanAdvance(StageNegotiation))
	require.False(t, StageDelivered.CanAdvance(StageHarvestSubmitted))
	require.False(t, StageNegotiation.CanAdvance(StageNegotiation))
}

func TestDisputedReachableFromAnyNonTerminalStage(t *testing.T) {
	for _, stage := range []ContractStage{
		StageNegotiation, StageSigned, StageEscrowed, StageInProgress,
		StageHarvestSubmitted, StageVerification, StageDelivered, StagePaymentReleased,
	} {
		require.True(t, stage.CanAdvance(StageDisputed), "stage %s", stage)
	}
}

func TestTerminalStagesBlockAllTransitions(t *testing.T) {
	for _, stage := range []ContractStage{StageCompleted, StageDisputed} {
		require.True(t, stage.Terminal())
		require.False(t, stage.CanAdvance(StageDisputed))
		require.False(t, stage.CanAdvance(StageNegotiation))
	}
	require.False(t, StageInProgress.Terminal())
}

func TestPushStageNumbersEntries(t *testing.T) {
	c := &Contract{}
	now := time.Now()
	c.PushStage(StageNegotiation, "buyer-1", now)
	c.PushStage(StageSigned, "farmer-1", now.Add(time.Minute))
	c.PushStage(StageEscrowed, "buyer-1", now.Add(2*time.Minute))

	require.Equal(t, StageEscrowed, c.Stage)
	require.Len(t, c.StageHistory, 3)
	for i, entry := range c.StageHistory {
		require.Equal(t, i+1, entry.Seq)
	}
	require.Equal(t, "farmer-1", c.StageHistory[1].ActorID)
}
