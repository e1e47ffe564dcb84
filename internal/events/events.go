// Package events defines MatchEvent, the tagged union server-streamed
// to each client's QueueForMatch call. Exactly one of the typed fields
// is set, selected by Kind.
package events

import (
	"roundhold/internal/balance"
	"roundhold/internal/combat"
	"roundhold/internal/sim"
	"roundhold/internal/towers"
)

type Kind string

const (
	KindMatchFound           Kind = "MatchFound"
	KindRoundStart           Kind = "RoundStart"
	KindRoundResult          Kind = "RoundResult"
	KindTowerPlaced          Kind = "TowerPlaced"
	KindOpponentDisconnected Kind = "OpponentDisconnected"
)

// PlayerState is the economy snapshot carried in MatchFound/RoundResult.
type PlayerState struct {
	Gold  int
	Lives int
}

type MatchFound struct {
	PlayerID     balance.PlayerId
	Opponent     balance.PlayerId
	InitialState map[balance.PlayerId]PlayerState
}

type RoundStart struct {
	SimulationData sim.SimulationData
}

type RoundResult struct {
	Result   combat.Result
	NewState map[balance.PlayerId]PlayerState
}

type TowerPlaced struct {
	Placement towers.Placement
}

type OpponentDisconnected struct{}

// MatchEvent is the tagged union pushed through a client's outbox.
type MatchEvent struct {
	Kind Kind

	MatchFound           *MatchFound
	RoundStart           *RoundStart
	RoundResult          *RoundResult
	TowerPlaced          *TowerPlaced
	OpponentDisconnected *OpponentDisconnected
}

func NewMatchFound(v MatchFound) MatchEvent {
	return MatchEvent{Kind: KindMatchFound, MatchFound: &v}
}

func NewRoundStart(v RoundStart) MatchEvent {
	return MatchEvent{Kind: KindRoundStart, RoundStart: &v}
}

func NewRoundResult(v RoundResult) MatchEvent {
	return MatchEvent{Kind: KindRoundResult, RoundResult: &v}
}

func NewTowerPlaced(v TowerPlaced) MatchEvent {
	return MatchEvent{Kind: KindTowerPlaced, TowerPlaced: &v}
}

func NewOpponentDisconnected() MatchEvent {
	return MatchEvent{Kind: KindOpponentDisconnected, OpponentDisconnected: &OpponentDisconnected{}}
}
