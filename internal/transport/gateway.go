package transport

import (
	"roundhold/internal/match"
	"roundhold/internal/outbox"
)

// Gateway is the boundary interface the transport layer drives. It is
// satisfied by *match.Server; defining it here (rather than importing
// *match.Server directly everywhere) keeps the transport package the
// only one that needs to know an RPC framework exists at all.
type Gateway interface {
	QueueForMatch(identity string) (clientID string, box *outbox.Box, err error)
	BuildTower(clientID string, req match.BuildTowerRequest) error
	SendUnits(clientID string, req match.SendUnitsRequest) error
	RoundAck(clientID string) error
	Disconnect(clientID string)
}

var _ Gateway = (*match.Server)(nil)
