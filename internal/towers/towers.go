// Package towers holds the set of accepted tower placements for a
// match and converts them into simulation-ready snapshot data.
package towers

import "roundhold/internal/balance"

// Placement is created once by GameStateManager.BuildTower and never
// mutated afterward. This package has no upgrade operation: Level keeps
// the value the tower was placed with.
type Placement struct {
	Player balance.PlayerId
	Type   string
	Row    int
	Col    int
	Level  int
}

// SimTowerData is the pixel-space projection of a Placement used in a
// SimulationData snapshot.
type SimTowerData struct {
	Player       balance.PlayerId
	Type         string
	PositionXPx  float64
	PositionYPx  float64
	Level        int
}

// Service stores accepted placements for one match. Not safe for
// concurrent use on its own; the caller (GameStateManager) serializes
// access.
type Service struct {
	placements []Placement
}

func New() *Service {
	return &Service{}
}

// Place records a new placement. The caller must have already validated
// buildability and gold.
func (s *Service) Place(player balance.PlayerId, towerType string, row, col, level int) Placement {
	p := Placement{Player: player, Type: towerType, Row: row, Col: col, Level: level}
	s.placements = append(s.placements, p)
	return p
}

// All returns every accepted placement in insertion order.
func (s *Service) All() []Placement {
	out := make([]Placement, len(s.placements))
	copy(out, s.placements)
	return out
}

// SnapshotTowers converts every placement to pixel-center simulation
// data, preserving insertion order (insertion order feeds the
// deterministic master-list indices the simulation kernel relies on).
func (s *Service) SnapshotTowers() []SimTowerData {
	out := make([]SimTowerData, 0, len(s.placements))
	for _, p := range s.placements {
		x, y := balance.TileCenterPx(p.Row, p.Col)
		out = append(out, SimTowerData{
			Player:      p.Player,
			Type:        p.Type,
			PositionXPx: x,
			PositionYPx: y,
			Level:       p.Level,
		})
	}
	return out
}
