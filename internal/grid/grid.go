// Package grid implements the per-player placement grid: a rectangular
// array of cells classified as PATH, EMPTY, or OCCUPIED.
package grid

import (
	"fmt"

	"roundhold/internal/balance"
)

type CellState int

const (
	Path CellState = iota
	Empty
	Occupied
)

func (c CellState) String() string {
	switch c {
	case Path:
		return "PATH"
	case Empty:
		return "EMPTY"
	case Occupied:
		return "OCCUPIED"
	default:
		return "UNKNOWN"
	}
}

// PlacementGrid is not safe for concurrent use on its own; the caller
// (GameStateManager) is responsible for synchronization.
type PlacementGrid struct {
	rows, cols int
	cells      [][]CellState
}

// New builds a grid with every tile in pathTiles marked PATH and
// everything else EMPTY.
func New(rows, cols int, pathTiles []balance.TileCoord) *PlacementGrid {
	cells := make([][]CellState, rows)
	for r := range cells {
		cells[r] = make([]CellState, cols)
		for c := range cells[r] {
			cells[r][c] = Empty
		}
	}
	g := &PlacementGrid{rows: rows, cols: cols, cells: cells}
	for _, t := range pathTiles {
		if g.inBounds(t.Row, t.Col) {
			cells[t.Row][t.Col] = Path
		}
	}
	return g
}

// NewForPlayer builds the standard 10x10 Roundhold grid with the waypoint
// tiles of all 5 fixed routes marked PATH (see balance.PathTilesFor).
func NewForPlayer() *PlacementGrid {
	var pathTiles []balance.TileCoord
	for route := 0; route < balance.NumRoutes; route++ {
		pathTiles = append(pathTiles, balance.PathTilesFor(route)...)
	}
	return New(balance.GridRows, balance.GridCols, pathTiles)
}

func (g *PlacementGrid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// IsBuildable reports whether a tile is within bounds and EMPTY.
func (g *PlacementGrid) IsBuildable(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return g.cells[row][col] == Empty
}

// State returns the current classification of a tile.
func (g *PlacementGrid) State(row, col int) (CellState, error) {
	if !g.inBounds(row, col) {
		return 0, fmt.Errorf("grid: tile (%d,%d) out of bounds", row, col)
	}
	return g.cells[row][col], nil
}

// Occupy transitions an EMPTY tile to OCCUPIED. Returns an error if the
// tile cannot be occupied; callers must check IsBuildable first under
// the same lock to avoid races with that check.
func (g *PlacementGrid) Occupy(row, col int) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("grid: tile (%d,%d) out of bounds", row, col)
	}
	if g.cells[row][col] != Empty {
		return fmt.Errorf("grid: tile (%d,%d) not buildable (state=%s)", row, col, g.cells[row][col])
	}
	g.cells[row][col] = Occupied
	return nil
}

// Free transitions an OCCUPIED tile back to EMPTY.
func (g *PlacementGrid) Free(row, col int) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("grid: tile (%d,%d) out of bounds", row, col)
	}
	if g.cells[row][col] != Occupied {
		return fmt.Errorf("grid: tile (%d,%d) is not occupied", row, col)
	}
	g.cells[row][col] = Empty
	return nil
}

// OccupiedTiles returns every currently OCCUPIED tile, for invariant
// checks in tests.
func (g *PlacementGrid) OccupiedTiles() []balance.TileCoord {
	var out []balance.TileCoord
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == Occupied {
				out = append(out, balance.TileCoord{Row: r, Col: c})
			}
		}
	}
	return out
}
