// Package wave holds the units queued for the next round and assigns
// each a deterministic spawn tick.
package wave

import (
	"math"

	"roundhold/internal/balance"
	"roundhold/internal/roundholderr"
)

// QueuedUnit is a single unit awaiting spawn in the next round.
type QueuedUnit struct {
	Player    balance.PlayerId
	Type      string
	Route     int
	SpawnTick int
}

// SimUnitData is the simulation-ready projection of a QueuedUnit.
type SimUnitData struct {
	Player    balance.PlayerId
	Type      string
	Route     int
	SpawnTick int
}

// UnitRequest is one line item from a SendUnits RPC: a unit type, a
// route, and a count to expand.
type UnitRequest struct {
	Type  string
	Route int
	Count int
}

// Queue holds queued units in insertion order, grouped implicitly by
// (player, route) for spawn-tick assignment. Not safe for concurrent
// use; the caller (GameStateManager) serializes access.
type Queue struct {
	units []QueuedUnit
}

func New() *Queue {
	return &Queue{}
}

// PrepareUnits expands a player's requested counts into individual
// normalized units (not yet assigned a spawn tick) and computes their
// total gold cost. Validates unit type and route.
func PrepareUnits(player balance.PlayerId, reqs []UnitRequest) ([]QueuedUnit, int, error) {
	var normalized []QueuedUnit
	total := 0
	for _, req := range reqs {
		if req.Route < 0 || req.Route >= balance.NumRoutes {
			return nil, 0, roundholderr.ErrInvalidRoute
		}
		stats, ok := balance.UnitStatsFor(req.Type)
		if !ok {
			return nil, 0, roundholderr.ErrUnknownType
		}
		for i := 0; i < req.Count; i++ {
			normalized = append(normalized, QueuedUnit{Player: player, Type: req.Type, Route: req.Route})
			total += stats.Cost
		}
	}
	return normalized, total, nil
}

// Enqueue appends normalized units (as produced by PrepareUnits) and
// assigns each a spawn_tick. Units are grouped by (player, route); the
// k-th unit ever queued in a group (0-based, counting units already in
// the queue from prior calls) gets spawn_tick = k*spawnDelayTicks, since
// every group is always filled contiguously starting at tick 0.
// spawnDelayTicks is recomputed from tickRate on every call so a round
// running at a non-default tick rate still spaces spawns half a second
// apart.
func (q *Queue) Enqueue(units []QueuedUnit, tickRate int) {
	spawnDelayTicks := int(math.Round(0.5 * float64(tickRate)))
	type key struct {
		player balance.PlayerId
		route  int
	}
	groupCount := map[key]int{}
	for _, u := range q.units {
		groupCount[key{u.Player, u.Route}]++
	}
	for i := range units {
		k := key{units[i].Player, units[i].Route}
		units[i].SpawnTick = groupCount[k] * spawnDelayTicks
		groupCount[k]++
	}
	q.units = append(q.units, units...)
}

// All returns queued units in insertion order.
func (q *Queue) All() []QueuedUnit {
	out := make([]QueuedUnit, len(q.units))
	copy(out, q.units)
	return out
}

// SnapshotUnits converts queued units into simulation-ready data,
// preserving insertion order.
func (q *Queue) SnapshotUnits() []SimUnitData {
	out := make([]SimUnitData, len(q.units))
	for i, u := range q.units {
		out[i] = SimUnitData{Player: u.Player, Type: u.Type, Route: u.Route, SpawnTick: u.SpawnTick}
	}
	return out
}

// Clear removes all queued units.
func (q *Queue) Clear() {
	q.units = nil
}
