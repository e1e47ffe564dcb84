package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
	"roundhold/internal/economy"
	"roundhold/internal/grid"
	"roundhold/internal/roundholderr"
	"roundhold/internal/testutil"
	"roundhold/internal/wave"
)

func TestBuildTowerHappyPath(t *testing.T) {
	m := New(balance.TickRate)
	placement, err := m.BuildTower(balance.PlayerA, "standard", 2, 2, 1)
	require.NoError(t, err)
	require.Equal(t, balance.PlayerA, placement.Player)

	stats, _ := balance.TowerStatsFor("standard")
	require.Equal(t, balance.StartGold-stats.Cost, m.GetGold(balance.PlayerA))
}

func TestBuildTowerRejectsWrongPhase(t *testing.T) {
	m := New(balance.TickRate)
	m.SetPhase(PhaseCombat)
	_, err := m.BuildTower(balance.PlayerA, "standard", 2, 2, 1)
	require.ErrorIs(t, err, roundholderr.ErrWrongPhase)
}

func TestBuildTowerRejectsInsufficientGold(t *testing.T) {
	m := New(balance.TickRate)
	stats, _ := balance.TowerStatsFor("sniper")
	affordable := balance.StartGold / stats.Cost

	placed := 0
	for i := 0; i < balance.GridRows*balance.GridCols && placed < affordable; i++ {
		row, col := i/balance.GridCols, i%balance.GridCols
		if _, err := m.BuildTower(balance.PlayerA, "sniper", row, col, 1); err == nil {
			placed++
		}
	}
	require.Equal(t, affordable, placed, "expected to place exactly as many towers as gold allows")

	_, err := m.BuildTower(balance.PlayerA, "sniper", 0, 0, 1)
	require.ErrorIs(t, err, roundholderr.ErrInsufficientGold)
}

func TestBuildTowerRejectsOccupiedCell(t *testing.T) {
	m := New(balance.TickRate)
	_, err := m.BuildTower(balance.PlayerA, "standard", 2, 2, 1)
	require.NoError(t, err)

	_, err = m.BuildTower(balance.PlayerA, "standard", 2, 2, 1)
	require.ErrorIs(t, err, roundholderr.ErrCellOccupied)
}

func TestBuildTowerRejectsPathCell(t *testing.T) {
	m := New(balance.TickRate)
	pathTile := balance.PathTilesFor(0)[0]
	_, err := m.BuildTower(balance.PlayerA, "standard", pathTile.Row, pathTile.Col, 1)
	require.ErrorIs(t, err, roundholderr.ErrNotBuildable)
}

func TestBuildTowerRejectsUnknownType(t *testing.T) {
	m := New(balance.TickRate)
	_, err := m.BuildTower(balance.PlayerA, "does-not-exist", 2, 2, 1)
	require.ErrorIs(t, err, roundholderr.ErrUnknownType)
}

func TestAddUnitsToWaveHappyPath(t *testing.T) {
	m := New(balance.TickRate)
	err := m.AddUnitsToWave(balance.PlayerA, []wave.UnitRequest{{Type: "standard", Route: 0, Count: 2}})
	require.NoError(t, err)

	snap := m.GetCurrentStateSnapshot()
	require.Len(t, snap.Units, 2)
}

func TestAddUnitsToWaveRejectsWrongPhase(t *testing.T) {
	m := New(balance.TickRate)
	m.SetPhase(PhaseAwaitAck)
	err := m.AddUnitsToWave(balance.PlayerA, []wave.UnitRequest{{Type: "standard", Route: 0, Count: 1}})
	require.ErrorIs(t, err, roundholderr.ErrWrongPhase)
}

func TestApplyRoundResultAndClearWaveData(t *testing.T) {
	m := New(balance.TickRate)
	require.NoError(t, m.AddUnitsToWave(balance.PlayerA, []wave.UnitRequest{{Type: "standard", Route: 0, Count: 1}}))

	m.ApplyRoundResult(economy.RoundOutcome{LivesLostB: 1, GoldEarnedA: 5})
	require.Equal(t, balance.StartLives-1, m.GetLives(balance.PlayerB))

	stats, _ := balance.UnitStatsFor("standard")
	require.Equal(t, balance.StartGold-stats.Cost+5, m.GetGold(balance.PlayerA))

	m.ClearWaveData()
	require.Empty(t, m.GetCurrentStateSnapshot().Units)
}

func TestIsMatchOverAndDraw(t *testing.T) {
	m := New(balance.TickRate)
	m.ApplyRoundResult(economy.RoundOutcome{LivesLostA: balance.StartLives})
	winner, ok := m.IsMatchOver()
	require.True(t, ok)
	require.Equal(t, balance.PlayerB, winner)
	require.False(t, m.IsDraw())
}

func TestIsDrawOnSimultaneousKnockout(t *testing.T) {
	m := New(balance.TickRate)
	m.ApplyRoundResult(economy.RoundOutcome{LivesLostA: balance.StartLives, LivesLostB: balance.StartLives})
	_, ok := m.IsMatchOver()
	require.False(t, ok)
	require.True(t, m.IsDraw())
}

func TestGridsAreIndependentPerPlayer(t *testing.T) {
	m := New(balance.TickRate)
	_, err := m.BuildTower(balance.PlayerA, "standard", 2, 2, 1)
	require.NoError(t, err)

	testutil.AssertCellState(t, m.grids[balance.PlayerB], 2, 2, grid.Empty)
}
