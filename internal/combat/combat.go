// Package combat runs the simulation kernel to completion on a frozen
// snapshot and aggregates the round's gold/lives outcome. It is pure
// with respect to its input and safe to run on any worker goroutine.
package combat

import (
	"roundhold/internal/balance"
	"roundhold/internal/economy"
	"roundhold/internal/sim"
)

// Result is the aggregate outcome of one round of combat.
type Result struct {
	LivesLostA, LivesLostB   int
	GoldEarnedA, GoldEarnedB int
}

// ToEconomyOutcome adapts a combat Result to the shape Economy expects.
func (r Result) ToEconomyOutcome() economy.RoundOutcome {
	return economy.RoundOutcome{
		LivesLostA:   r.LivesLostA,
		LivesLostB:   r.LivesLostB,
		GoldEarnedA:  r.GoldEarnedA,
		GoldEarnedB:  r.GoldEarnedB,
	}
}

// maxTicks is a safety net against a malformed snapshot stalling a
// worker forever; termination is deterministic under normal balance
// constants and should never approach this.
const maxTicks = balance.TickRate * 600 // 10 minutes of sim time

// Run executes the kernel to completion on data and returns the
// resulting RoundResult.
func Run(data sim.SimulationData) Result {
	gs := sim.New(data)

	for i := 0; i < maxTicks && !gs.IsSimulationComplete(); i++ {
		gs.UpdateTick()
	}

	return Result{
		LivesLostA:  gs.GetUnitsReachedBase(balance.PlayerA),
		LivesLostB:  gs.GetUnitsReachedBase(balance.PlayerB),
		GoldEarnedA: gs.KillsBy(balance.PlayerA) * balance.GoldPerKill,
		GoldEarnedB: gs.KillsBy(balance.PlayerB) * balance.GoldPerKill,
	}
}
