// Package sim is the deterministic tick-based simulation kernel. It is
// pure: no clocks, no I/O, no randomness. Given the same SimulationData,
// GameState must produce byte-identical RoundResult on any host — this
// is the one invariant the rest of Roundhold is built around.
package sim

import (
	"math"

	"roundhold/internal/balance"
)

// SimulationData is the immutable snapshot that fully determines one
// round of combat.
type SimulationData struct {
	Towers   []TowerInput
	Units    []UnitInput
	TickRate int
}

// TowerInput is the simulation's view of a placed tower.
type TowerInput struct {
	Player      balance.PlayerId
	Type        string
	PositionXPx float64
	PositionYPx float64
	Level       int
}

// UnitInput is the simulation's view of a queued unit.
type UnitInput struct {
	Player    balance.PlayerId
	Type      string
	Route     int
	SpawnTick int
}

// unit and tower are arena-owned by GameState: towers reference targets
// by index into the master unit slice, never by pointer, so indices stay
// stable and target selection is reproducible from the snapshot alone.
type unit struct {
	id          int
	player      balance.PlayerId
	path        [][2]float64
	waypointIdx int
	posX, posY  float64
	hp          int
	maxHP       int
	speed       float64
	active      bool
	reachedBase bool
	spawnTick   int
}

type tower struct {
	id              int
	player          balance.PlayerId
	posX, posY      float64
	damage          int
	rangePx         float64
	cooldownTicks   int
	currentCooldown int
	level           int
}

// GameState is the mutable per-round simulation arena.
type GameState struct {
	units       []unit
	towers      []tower
	activeUnits []int // indices into units, compacted each tick
	currentTick int
	tickRate    int
	simDt       float64

	lastNonQuietTick int // last tick with any active-or-pending unit
	hasSpawnedAny    bool
}

// New constructs a fresh GameState from an immutable snapshot.
func New(data SimulationData) *GameState {
	tickRate := data.TickRate
	if tickRate <= 0 {
		tickRate = balance.TickRate
	}
	gs := &GameState{
		currentTick:      0,
		tickRate:         tickRate,
		simDt:            1.0 / float64(tickRate),
		lastNonQuietTick: -1,
	}

	for i, u := range data.Units {
		stats, ok := balance.UnitStatsFor(u.Type)
		hp, speed := 0, 0.0
		if ok {
			hp, speed = stats.Health, stats.SpeedPxPerS
		}
		path := balance.RoutePixels(u.Route)
		gs.units = append(gs.units, unit{
			id:        i,
			player:    u.Player,
			path:      path,
			hp:        hp,
			maxHP:     hp,
			speed:     speed,
			spawnTick: u.SpawnTick,
			active:    false,
		})
	}

	for i, t := range data.Towers {
		stats, ok := balance.TowerStatsFor(t.Type)
		damage, rangePx, cooldown := 0, 0.0, 0
		if ok {
			damage, rangePx, cooldown = stats.Damage, stats.RangePx, stats.CooldownTicks
		}
		gs.towers = append(gs.towers, tower{
			id:            i,
			player:        t.Player,
			posX:          t.PositionXPx,
			posY:          t.PositionYPx,
			damage:        damage,
			rangePx:       rangePx,
			cooldownTicks: cooldown,
			level:         t.Level,
		})
	}

	return gs
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return math.Sqrt(dx*dx + dy*dy)
}

// UpdateTick advances the simulation by exactly one tick, following the
// fixed order: activate spawns, move units, fire towers, compact the
// active set, advance the clock.
func (gs *GameState) UpdateTick() {
	// 1. Activate units whose spawn_tick has arrived, in master-list order.
	for i := range gs.units {
		u := &gs.units[i]
		if !u.active && !u.reachedBase && u.hp > 0 && u.spawnTick == gs.currentTick {
			u.active = true
			if len(u.path) > 0 {
				u.posX, u.posY = u.path[0][0], u.path[0][1]
			}
			u.waypointIdx = 0
		}
	}

	// 2. Advance the active set, in master-list order.
	gs.rebuildActiveSet()
	for _, idx := range gs.activeUnits {
		gs.updateUnit(&gs.units[idx])
	}

	// 3. Tower targeting runs over the active set *after* unit movement,
	// so a unit that reached base this tick is no longer a valid target
	// and its HP is not re-read once reachedBase is set.
	gs.rebuildActiveSet()
	for i := range gs.towers {
		gs.updateTower(&gs.towers[i])
	}

	// 4. Compact inactive units out of the active set (indices in the
	// master list stay stable; only the active-set view shrinks).
	gs.rebuildActiveSet()

	// 5. Track whether any unit is still pending/active, for termination.
	if gs.hasPendingOrActive() {
		gs.lastNonQuietTick = gs.currentTick
		gs.hasSpawnedAny = gs.hasSpawnedAny || gs.anySpawned()
	}

	gs.currentTick++
}

func (gs *GameState) rebuildActiveSet() {
	gs.activeUnits = gs.activeUnits[:0]
	for i := range gs.units {
		if gs.units[i].active {
			gs.activeUnits = append(gs.activeUnits, i)
		}
	}
}

func (gs *GameState) hasPendingOrActive() bool {
	for i := range gs.units {
		u := &gs.units[i]
		if u.active {
			return true
		}
		if !u.reachedBase && u.hp > 0 && u.spawnTick >= gs.currentTick {
			return true
		}
	}
	return false
}

func (gs *GameState) anySpawned() bool {
	for i := range gs.units {
		if gs.units[i].active || gs.units[i].reachedBase {
			return true
		}
	}
	return false
}

// updateUnit advances one active unit toward its next waypoint by
// speed*sim_dt pixels, carrying overshoot into subsequent waypoints
// within the same tick.
func (gs *GameState) updateUnit(u *unit) {
	if u.hp <= 0 {
		u.active = false
		return
	}

	remaining := u.speed * gs.simDt
	for remaining > 0 {
		if u.waypointIdx >= len(u.path) {
			u.reachedBase = true
			u.active = false
			return
		}
		wx, wy := u.path[u.waypointIdx][0], u.path[u.waypointIdx][1]
		d := dist(u.posX, u.posY, wx, wy)
		if d <= remaining {
			u.posX, u.posY = wx, wy
			remaining -= d
			u.waypointIdx++
			if u.waypointIdx >= len(u.path) {
				u.reachedBase = true
				u.active = false
				return
			}
			continue
		}
		// Partial step toward the waypoint.
		t := remaining / d
		u.posX += (wx - u.posX) * t
		u.posY += (wy - u.posY) * t
		remaining = 0
	}
}

// updateTower decrements cooldown and, once ready, fires on the
// lowest-master-list-index eligible enemy unit in range.
func (gs *GameState) updateTower(t *tower) {
	if t.currentCooldown > 0 {
		t.currentCooldown--
	}
	if t.currentCooldown > 0 {
		return
	}

	var targetIdx = -1
	for _, idx := range gs.activeUnits {
		u := &gs.units[idx]
		if u.player == t.player {
			continue
		}
		if dist(u.posX, u.posY, t.posX, t.posY) > t.rangePx {
			continue
		}
		targetIdx = idx
		break // activeUnits is built in master-list order, so the first
		// eligible hit is already the lowest index.
	}

	if targetIdx == -1 {
		return
	}

	gs.units[targetIdx].hp -= t.damage
	if gs.units[targetIdx].hp <= 0 {
		gs.units[targetIdx].active = false
	}
	t.currentCooldown = t.cooldownTicks
}

// IsSimulationComplete reports whether the round has run for at least
// MinSimSeconds and then been quiet (no active-or-pending unit) for at
// least TailSeconds.
func (gs *GameState) IsSimulationComplete() bool {
	elapsed := float64(gs.currentTick) * gs.simDt
	if elapsed < balance.MinSimSeconds {
		return false
	}
	if gs.lastNonQuietTick < 0 {
		// No unit has ever existed yet; still need to wait out the
		// minimum window before declaring completion with nothing queued.
		return elapsed >= balance.MinSimSeconds+balance.TailSeconds
	}
	quietTicks := gs.currentTick - gs.lastNonQuietTick
	quietSeconds := float64(quietTicks) * gs.simDt
	return quietSeconds >= balance.TailSeconds
}

// GetUnitsReachedBase counts units with reached_base=true whose owner is
// NOT player — i.e. units that attacked player's base.
func (gs *GameState) GetUnitsReachedBase(player balance.PlayerId) int {
	count := 0
	for _, u := range gs.units {
		if u.reachedBase && u.player != player {
			count++
		}
	}
	return count
}

// KillsBy counts units of the opposing player that died (hp<=0) without
// reaching base — kills credited to player.
func (gs *GameState) KillsBy(player balance.PlayerId) int {
	count := 0
	for _, u := range gs.units {
		if u.player != player && u.hp <= 0 && !u.reachedBase {
			count++
		}
	}
	return count
}

// CurrentTick exposes the tick counter.
func (gs *GameState) CurrentTick() int {
	return gs.currentTick
}
