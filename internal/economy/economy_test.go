package economy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
	"roundhold/internal/roundholderr"
	"roundhold/internal/testutil"
)

func TestNewStartsAtBalanceDefaults(t *testing.T) {
	e := New()
	testutil.AssertGold(t, e, balance.PlayerA, balance.StartGold)
	testutil.AssertGold(t, e, balance.PlayerB, balance.StartGold)
	testutil.AssertLives(t, e, balance.PlayerA, balance.StartLives)
	testutil.AssertLives(t, e, balance.PlayerB, balance.StartLives)
}

func TestSpendGoldInsufficientLeavesStateUnchanged(t *testing.T) {
	e := New()
	err := e.SpendGold(balance.PlayerA, balance.StartGold+1)
	require.ErrorIs(t, err, roundholderr.ErrInsufficientGold)
	require.Equal(t, balance.StartGold, e.GetGold(balance.PlayerA))
}

func TestSpendGoldExact(t *testing.T) {
	e := New()
	require.NoError(t, e.SpendGold(balance.PlayerA, balance.StartGold))
	require.Equal(t, 0, e.GetGold(balance.PlayerA))
}

func TestLoseLivesSaturatesAtZero(t *testing.T) {
	e := New()
	e.LoseLives(balance.PlayerA, balance.StartLives+5)
	require.Equal(t, 0, e.GetLives(balance.PlayerA))
}

func TestApplyRoundResultZeroKillsIsValid(t *testing.T) {
	e := New()
	e.ApplyRoundResult(RoundOutcome{})
	require.Equal(t, balance.StartGold, e.GetGold(balance.PlayerA))
	require.Equal(t, balance.StartLives, e.GetLives(balance.PlayerA))
}

func TestWinnerWhenOneSideDepleted(t *testing.T) {
	e := New()
	e.LoseLives(balance.PlayerA, balance.StartLives)
	winner, ok := e.Winner()
	require.True(t, ok)
	require.Equal(t, balance.PlayerB, winner)
	require.False(t, e.IsDraw())
}

func TestSimultaneousKnockoutIsDrawNotWinner(t *testing.T) {
	e := New()
	e.LoseLives(balance.PlayerA, balance.StartLives)
	e.LoseLives(balance.PlayerB, balance.StartLives)
	_, ok := e.Winner()
	require.False(t, ok, "simultaneous knockout must not report a winner")
	require.True(t, e.IsDraw())
}
