// Package testutil holds hand-rolled t.Helper()-based assertion
// functions shared across internal package tests.
package testutil

import (
	"testing"

	"roundhold/internal/balance"
	"roundhold/internal/grid"
)

// GoldReader is satisfied by economy.Economy and state.Manager; defined
// here (rather than imported) so testutil stays a leaf package with no
// dependency back on the packages it asserts against.
type GoldReader interface {
	GetGold(balance.PlayerId) int
}

// LivesReader is satisfied by economy.Economy and state.Manager.
type LivesReader interface {
	GetLives(balance.PlayerId) int
}

// AssertGold verifies a player's current gold balance.
func AssertGold(t *testing.T, r GoldReader, p balance.PlayerId, want int) {
	t.Helper()
	if got := r.GetGold(p); got != want {
		t.Errorf("expected gold %d for player %s, got %d", want, p, got)
	}
}

// AssertLives verifies a player's current lives count.
func AssertLives(t *testing.T, r LivesReader, p balance.PlayerId, want int) {
	t.Helper()
	if got := r.GetLives(p); got != want {
		t.Errorf("expected lives %d for player %s, got %d", want, p, got)
	}
}

// AssertCellState verifies the classification of one grid tile.
func AssertCellState(t *testing.T, g *grid.PlacementGrid, row, col int, want grid.CellState) {
	t.Helper()
	got, err := g.State(row, col)
	if err != nil {
		t.Fatalf("State(%d,%d): %v", row, col, err)
	}
	if got != want {
		t.Errorf("expected tile (%d,%d) to be %s, got %s", row, col, want, got)
	}
}

// AssertStrictlyIncreasing verifies a slice of ints is strictly increasing,
// used to check WaveQueue spawn-tick assignment within a group.
func AssertStrictlyIncreasing(t *testing.T, vals []int) {
	t.Helper()
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			t.Errorf("expected strictly increasing sequence, got %v at index %d", vals, i)
			return
		}
	}
}
