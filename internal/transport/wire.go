// Package transport implements the wire-format codec: a websocket
// connection carrying typed JSON frames, one per client, multiplexing
// the QueueForMatch event stream with the three unary RPCs. The core
// (internal/match, internal/round, ...) never imports gorilla/websocket
// directly; it only sees the Gateway interface.
package transport

import "encoding/json"

// FrameKind tags the wire envelope.
type FrameKind string

const (
	FrameQueueForMatch FrameKind = "queue_for_match"
	FrameBuildTower    FrameKind = "build_tower"
	FrameSendUnits     FrameKind = "send_units"
	FrameRoundAck      FrameKind = "round_ack"
	FrameResponse      FrameKind = "response"
	FrameEvent         FrameKind = "event"
)

// Frame is the envelope every message on the socket is wrapped in.
// RequestID correlates a unary request with its FrameResponse; it is
// empty on FrameEvent frames, which are unordered with respect to
// requests but ordered with respect to each other.
type Frame struct {
	Kind      FrameKind       `json:"kind"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// QueueForMatchPayload is the client_identity argument.
type QueueForMatchPayload struct {
	ClientIdentity string `json:"clientIdentity"`
}

// BuildTowerPayload is the wire shape of a BuildTower request. Player
// is accepted for wire compatibility but never trusted: the server
// resolves the caller's player seat from the authenticated connection,
// not from client-supplied data.
type BuildTowerPayload struct {
	Player    string `json:"player,omitempty"`
	TowerType string `json:"towerType"`
	TileRow   int    `json:"tileRow"`
	TileCol   int    `json:"tileCol"`
	Level     int    `json:"level"`
}

type UnitRequestPayload struct {
	Player    string `json:"player,omitempty"`
	UnitType  string `json:"unitType"`
	Route     int    `json:"route"`
	SpawnTick *int   `json:"spawnTick,omitempty"`
}

type SendUnitsPayload struct {
	Units []UnitRequestPayload `json:"units"`
}

type RoundAckPayload struct {
	Player string `json:"player,omitempty"`
}

// ResponsePayload answers a unary RPC.
type ResponsePayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// EventPayload carries one MatchEvent, tagged by Kind. Its data is the
// same for both players: outbound events are never coordinate-mirrored.
type EventPayload struct {
	Kind string          `json:"eventKind"`
	Data json.RawMessage `json:"data"`
}
