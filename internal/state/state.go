// Package state implements GameStateManager, the single mutex-protected
// façade over Economy, the per-player PlacementGrids, the WaveQueue, and
// the TowerPlacementService. Every mutating operation validates and
// applies atomically under one lock; no blocking I/O ever happens while
// the lock is held.
package state

import (
	"sync"

	"roundhold/internal/balance"
	"roundhold/internal/economy"
	"roundhold/internal/grid"
	"roundhold/internal/roundholderr"
	"roundhold/internal/sim"
	"roundhold/internal/towers"
	"roundhold/internal/wave"
)

// Phase mirrors the round lifecycle closely enough for GameStateManager
// to gate mutation: only PhasePreparation accepts client actions.
// RoundManager (internal/round) owns the richer state machine and is the
// only writer of this value via SetPhase.
type Phase int

const (
	PhasePreparation Phase = iota
	PhaseRoundStart
	PhaseCombat
	PhaseAwaitAck
	PhaseEnded
)

// Manager is the authoritative state for one match.
type Manager struct {
	mu sync.Mutex

	phase    Phase
	economy  *economy.Economy
	grids    map[balance.PlayerId]*grid.PlacementGrid
	towerSvc *towers.Service
	waveQ    *wave.Queue
	tickRate int
}

func New(tickRate int) *Manager {
	if tickRate <= 0 {
		tickRate = balance.TickRate
	}
	return &Manager{
		phase:   PhasePreparation,
		economy: economy.New(),
		grids: map[balance.PlayerId]*grid.PlacementGrid{
			balance.PlayerA: grid.NewForPlayer(),
			balance.PlayerB: grid.NewForPlayer(),
		},
		towerSvc: towers.New(),
		waveQ:    wave.New(),
		tickRate: tickRate,
	}
}

// SetPhase is called by RoundManager on every phase transition. It must
// never be called while RoundManager's own phase lock is held (see the
// lock-order note in internal/round).
func (m *Manager) SetPhase(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = p
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// BuildTower validates phase, gold, and placement, then applies the
// spend-occupy-record sequence atomically. On any error, no state
// changes.
func (m *Manager) BuildTower(player balance.PlayerId, towerType string, row, col, level int) (towers.Placement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhasePreparation {
		return towers.Placement{}, roundholderr.ErrWrongPhase
	}
	stats, ok := balance.TowerStatsFor(towerType)
	if !ok {
		return towers.Placement{}, roundholderr.ErrUnknownType
	}
	if m.economy.GetGold(player) < stats.Cost {
		return towers.Placement{}, roundholderr.ErrInsufficientGold
	}
	g := m.grids[player]
	if !g.IsBuildable(row, col) {
		cellState, err := g.State(row, col)
		if err == nil && cellState == grid.Occupied {
			return towers.Placement{}, roundholderr.ErrCellOccupied
		}
		return towers.Placement{}, roundholderr.ErrNotBuildable
	}

	if level <= 0 {
		level = 1
	}

	if err := m.economy.SpendGold(player, stats.Cost); err != nil {
		return towers.Placement{}, err
	}
	if err := g.Occupy(row, col); err != nil {
		// Should be unreachable given the IsBuildable check above under
		// the same lock, but never leave gold spent with no placement.
		m.economy.AddGold(player, stats.Cost)
		return towers.Placement{}, roundholderr.ErrInternal
	}
	placement := m.towerSvc.Place(player, towerType, row, col, level)
	return placement, nil
}

// AddUnitsToWave validates phase and gold, then spends gold and enqueues
// the normalized units atomically.
func (m *Manager) AddUnitsToWave(player balance.PlayerId, reqs []wave.UnitRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhasePreparation {
		return roundholderr.ErrWrongPhase
	}

	normalized, totalCost, err := wave.PrepareUnits(player, reqs)
	if err != nil {
		return err
	}
	if m.economy.GetGold(player) < totalCost {
		return roundholderr.ErrInsufficientGold
	}
	if err := m.economy.SpendGold(player, totalCost); err != nil {
		return err
	}
	m.waveQ.Enqueue(normalized, m.tickRate)
	return nil
}

// GetCurrentStateSnapshot reads towers and queued units into an
// immutable simulation snapshot. Read-only; no mutation.
func (m *Manager) GetCurrentStateSnapshot() sim.SimulationData {
	m.mu.Lock()
	defer m.mu.Unlock()

	simTowers := m.towerSvc.SnapshotTowers()
	simUnits := m.waveQ.SnapshotUnits()

	towerInputs := make([]sim.TowerInput, len(simTowers))
	for i, t := range simTowers {
		towerInputs[i] = sim.TowerInput{
			Player:      t.Player,
			Type:        t.Type,
			PositionXPx: t.PositionXPx,
			PositionYPx: t.PositionYPx,
			Level:       t.Level,
		}
	}
	unitInputs := make([]sim.UnitInput, len(simUnits))
	for i, u := range simUnits {
		unitInputs[i] = sim.UnitInput{
			Player:    u.Player,
			Type:      u.Type,
			Route:     u.Route,
			SpawnTick: u.SpawnTick,
		}
	}

	return sim.SimulationData{
		Towers:   towerInputs,
		Units:    unitInputs,
		TickRate: m.tickRate,
	}
}

// ApplyRoundResult applies a round's gold/lives outcome to the economy.
func (m *Manager) ApplyRoundResult(r economy.RoundOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.economy.ApplyRoundResult(r)
}

// ClearWaveData empties the wave queue, called after a round's units
// have been folded into its snapshot.
func (m *Manager) ClearWaveData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveQ.Clear()
}

// IsMatchOver returns the winning player, if any player has hit 0
// lives. A simultaneous double-knockout is reported as no winner; the
// caller treats that as a draw.
func (m *Manager) IsMatchOver() (balance.PlayerId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.economy.Winner()
}

// IsDraw reports whether both players are simultaneously at 0 lives.
func (m *Manager) IsDraw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.economy.IsDraw()
}

// EconomySnapshot is a read-only view of both players' gold/lives, used
// to build MatchFound/RoundResult payloads.
type EconomySnapshot struct {
	GoldA, GoldB   int
	LivesA, LivesB int
}

func (m *Manager) Economy() EconomySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EconomySnapshot{
		GoldA:  m.economy.GetGold(balance.PlayerA),
		GoldB:  m.economy.GetGold(balance.PlayerB),
		LivesA: m.economy.GetLives(balance.PlayerA),
		LivesB: m.economy.GetLives(balance.PlayerB),
	}
}

// GetGold and GetLives expose single-value reads, used by tests.
func (m *Manager) GetGold(p balance.PlayerId) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.economy.GetGold(p)
}

func (m *Manager) GetLives(p balance.PlayerId) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.economy.GetLives(p)
}
