package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
	"roundhold/internal/events"
	"roundhold/internal/sim"
	"roundhold/internal/towers"
)

func TestEncodeRoundStartDoesNotMirrorCoordinates(t *testing.T) {
	data := sim.SimulationData{
		TickRate: balance.TickRate,
		Towers:   []sim.TowerInput{{Player: balance.PlayerB, Type: "standard", PositionXPx: 10, PositionYPx: 20, Level: 1}},
	}
	evt := events.NewRoundStart(events.RoundStart{SimulationData: data})

	// Both players must see identical bytes: mirroring outbound broadcasts
	// would break the determinism invariant (see the wire-shape comment
	// at the top of events_wire.go).
	payloadForA, kindA, err := encodeEvent(balance.PlayerA, evt)
	require.NoError(t, err)
	payloadForB, kindB, err := encodeEvent(balance.PlayerB, evt)
	require.NoError(t, err)

	require.Equal(t, kindA, kindB)
	require.JSONEq(t, string(payloadForA), string(payloadForB))

	var decoded roundStartWire
	require.NoError(t, json.Unmarshal(payloadForA, &decoded))
	require.Equal(t, float64(10), decoded.Towers[0].PositionX)
	require.Equal(t, float64(20), decoded.Towers[0].PositionY)
}

func TestEncodeTowerPlaced(t *testing.T) {
	evt := events.NewTowerPlaced(events.TowerPlaced{Placement: towers.Placement{
		Player: balance.PlayerA, Type: "sniper", Row: 1, Col: 2, Level: 1,
	}})

	data, kind, err := encodeEvent(balance.PlayerA, evt)
	require.NoError(t, err)
	require.Equal(t, string(events.KindTowerPlaced), kind)

	var decoded towerPlacedWire
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "A", decoded.Player)
	require.Equal(t, "sniper", decoded.Type)
	require.Equal(t, 1, decoded.Row)
	require.Equal(t, 2, decoded.Col)
}

func TestEncodeOpponentDisconnected(t *testing.T) {
	evt := events.NewOpponentDisconnected()
	data, kind, err := encodeEvent(balance.PlayerA, evt)
	require.NoError(t, err)
	require.Equal(t, string(events.KindOpponentDisconnected), kind)
	require.JSONEq(t, "{}", string(data))
}

func TestEncodeUnknownKindErrors(t *testing.T) {
	_, _, err := encodeEvent(balance.PlayerA, events.MatchEvent{Kind: "bogus"})
	require.Error(t, err)
}
