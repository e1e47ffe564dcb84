package transport

import (
	"encoding/json"
	"fmt"

	"roundhold/internal/balance"
	"roundhold/internal/events"
)

// Wire shapes for each MatchEvent variant. Field names match the
// in-memory events the core produces; coordinates here stay in the
// core's local frame — mirroring for player B is a client-rendering
// concern (out of scope) applied only to inbound BuildTower requests
// (see mirror.go), never to outbound broadcasts, so both clients drive
// their deterministic simulation from byte-identical SimulationData.
type playerStateWire struct {
	Gold  int `json:"gold"`
	Lives int `json:"lives"`
}

func wirePlayerStates(m map[balance.PlayerId]events.PlayerState) map[string]playerStateWire {
	out := make(map[string]playerStateWire, len(m))
	for p, v := range m {
		out[string(p)] = playerStateWire{Gold: v.Gold, Lives: v.Lives}
	}
	return out
}

type matchFoundWire struct {
	PlayerID     string                     `json:"playerId"`
	Opponent     string                     `json:"opponent"`
	InitialState map[string]playerStateWire `json:"initialState"`
}

type simTowerWire struct {
	Player      string  `json:"player"`
	Type        string  `json:"type"`
	PositionX   float64 `json:"positionXPx"`
	PositionY   float64 `json:"positionYPx"`
	Level       int     `json:"level"`
}

type simUnitWire struct {
	Player    string `json:"player"`
	Type      string `json:"type"`
	Route     int    `json:"route"`
	SpawnTick int    `json:"spawnTick"`
}

type roundStartWire struct {
	Towers   []simTowerWire `json:"towers"`
	Units    []simUnitWire  `json:"units"`
	TickRate int            `json:"tickRate"`
}

type roundResultWire struct {
	LivesLostA   int                        `json:"livesLostA"`
	LivesLostB   int                        `json:"livesLostB"`
	GoldEarnedA  int                        `json:"goldEarnedA"`
	GoldEarnedB  int                        `json:"goldEarnedB"`
	NewState     map[string]playerStateWire `json:"newState"`
}

type towerPlacedWire struct {
	Player string `json:"player"`
	Type   string `json:"type"`
	Row    int    `json:"tileRow"`
	Col    int    `json:"tileCol"`
	Level  int    `json:"level"`
}

// encodeEvent renders a MatchEvent into its wire payload. selfPlayer is
// accepted for symmetry with a future per-recipient view but is unused
// today: nothing in the outbound contract needs mirroring (see the
// comment on the wire shapes above).
func encodeEvent(selfPlayer balance.PlayerId, evt events.MatchEvent) (json.RawMessage, string, error) {
	_ = selfPlayer
	switch evt.Kind {
	case events.KindMatchFound:
		v := evt.MatchFound
		b, err := json.Marshal(matchFoundWire{
			PlayerID:     string(v.PlayerID),
			Opponent:     string(v.Opponent),
			InitialState: wirePlayerStates(v.InitialState),
		})
		return b, string(events.KindMatchFound), err

	case events.KindRoundStart:
		v := evt.RoundStart
		towers := make([]simTowerWire, len(v.SimulationData.Towers))
		for i, t := range v.SimulationData.Towers {
			towers[i] = simTowerWire{Player: string(t.Player), Type: t.Type, PositionX: t.PositionXPx, PositionY: t.PositionYPx, Level: t.Level}
		}
		units := make([]simUnitWire, len(v.SimulationData.Units))
		for i, u := range v.SimulationData.Units {
			units[i] = simUnitWire{Player: string(u.Player), Type: u.Type, Route: u.Route, SpawnTick: u.SpawnTick}
		}
		b, err := json.Marshal(roundStartWire{Towers: towers, Units: units, TickRate: v.SimulationData.TickRate})
		return b, string(events.KindRoundStart), err

	case events.KindRoundResult:
		v := evt.RoundResult
		b, err := json.Marshal(roundResultWire{
			LivesLostA:  v.Result.LivesLostA,
			LivesLostB:  v.Result.LivesLostB,
			GoldEarnedA: v.Result.GoldEarnedA,
			GoldEarnedB: v.Result.GoldEarnedB,
			NewState:    wirePlayerStates(v.NewState),
		})
		return b, string(events.KindRoundResult), err

	case events.KindTowerPlaced:
		v := evt.TowerPlaced
		b, err := json.Marshal(towerPlacedWire{
			Player: string(v.Placement.Player),
			Type:   v.Placement.Type,
			Row:    v.Placement.Row,
			Col:    v.Placement.Col,
			Level:  v.Placement.Level,
		})
		return b, string(events.KindTowerPlaced), err

	case events.KindOpponentDisconnected:
		return json.RawMessage("{}"), string(events.KindOpponentDisconnected), nil

	default:
		return nil, "", fmt.Errorf("transport: unknown event kind %q", evt.Kind)
	}
}
