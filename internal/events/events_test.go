package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
)

func TestConstructorsSetExactlyOneField(t *testing.T) {
	cases := []MatchEvent{
		NewMatchFound(MatchFound{PlayerID: balance.PlayerA}),
		NewRoundStart(RoundStart{}),
		NewRoundResult(RoundResult{}),
		NewTowerPlaced(TowerPlaced{}),
		NewOpponentDisconnected(),
	}

	for _, evt := range cases {
		set := 0
		if evt.MatchFound != nil {
			set++
		}
		if evt.RoundStart != nil {
			set++
		}
		if evt.RoundResult != nil {
			set++
		}
		if evt.TowerPlaced != nil {
			set++
		}
		if evt.OpponentDisconnected != nil {
			set++
		}
		require.Equal(t, 1, set, "expected exactly one populated field for kind %s", evt.Kind)
	}
}
