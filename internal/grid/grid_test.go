package grid

import (
	"testing"

	"roundhold/internal/balance"
)

func TestNewForPlayerMarksRoutesAsPath(t *testing.T) {
	g := NewForPlayer()
	for route := 0; route < balance.NumRoutes; route++ {
		for _, tile := range balance.PathTilesFor(route) {
			state, err := g.State(tile.Row, tile.Col)
			if err != nil {
				t.Fatalf("State(%d,%d): %v", tile.Row, tile.Col, err)
			}
			if state != Path {
				t.Errorf("expected route tile (%d,%d) to be PATH, got %s", tile.Row, tile.Col, state)
			}
		}
	}
}

func TestIsBuildableRejectsPathAndOutOfBounds(t *testing.T) {
	g := NewForPlayer()
	pathTile := balance.PathTilesFor(0)[0]
	if g.IsBuildable(pathTile.Row, pathTile.Col) {
		t.Errorf("expected a path tile not to be buildable")
	}
	if g.IsBuildable(-1, 0) || g.IsBuildable(balance.GridRows, 0) {
		t.Errorf("expected out-of-bounds tiles not to be buildable")
	}
}

func TestOccupyThenFree(t *testing.T) {
	g := New(5, 5, nil)
	if !g.IsBuildable(2, 2) {
		t.Fatalf("expected an empty tile to be buildable")
	}
	if err := g.Occupy(2, 2); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if g.IsBuildable(2, 2) {
		t.Errorf("expected an occupied tile to no longer be buildable")
	}
	if err := g.Occupy(2, 2); err == nil {
		t.Errorf("expected occupying an already-occupied tile to fail")
	}
	if err := g.Free(2, 2); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if !g.IsBuildable(2, 2) {
		t.Errorf("expected a freed tile to be buildable again")
	}
}

func TestOccupiedTiles(t *testing.T) {
	g := New(3, 3, nil)
	_ = g.Occupy(0, 0)
	_ = g.Occupy(1, 1)
	got := g.OccupiedTiles()
	if len(got) != 2 {
		t.Fatalf("expected 2 occupied tiles, got %d", len(got))
	}
}
