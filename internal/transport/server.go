package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"roundhold/internal/balance"
	"roundhold/internal/events"
	"roundhold/internal/match"
	"roundhold/internal/outbox"
	"roundhold/internal/roundholderr"
	"roundhold/internal/wave"
)

// Server upgrades incoming HTTP connections to websockets and dispatches
// frames through a bounded worker pool into the Gateway. One goroutine
// per connection drains that client's outbox and pushes MatchEvent
// frames; a separate bounded pool handles unary request frames so a
// slow handler can't starve the read loop.
type Server struct {
	gateway   Gateway
	log       *logrus.Entry
	upgrader  websocket.Upgrader
	workerSem chan struct{}
}

// Config controls transport-level knobs overridable from config.
type Config struct {
	WorkerPoolSize int
}

func NewServer(gateway Gateway, log *logrus.Entry, cfg Config) *Server {
	poolSize := cfg.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = balance.DefaultWorkerPool
	}
	return &Server{
		gateway: gateway,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		workerSem: make(chan struct{}, poolSize),
	}
}

// ServeHTTP upgrades the connection and runs the per-client session
// until the connection closes. When the match ends, event delivery
// stops, but the session stays open until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	sess := &session{
		conn:   conn,
		server: s,
		log:    s.log,
	}
	sess.run()
}

type session struct {
	conn     *websocket.Conn
	server   *Server
	log      *logrus.Entry
	clientID string

	writeMu sync.Mutex

	playerMu sync.RWMutex
	player   balance.PlayerId
}

func (sess *session) setPlayer(p balance.PlayerId) {
	sess.playerMu.Lock()
	sess.player = p
	sess.playerMu.Unlock()
}

func (sess *session) getPlayer() balance.PlayerId {
	sess.playerMu.RLock()
	defer sess.playerMu.RUnlock()
	return sess.player
}

func (sess *session) writeFrame(f Frame) error {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	return sess.conn.WriteJSON(f)
}

func (sess *session) run() {
	defer sess.conn.Close()

	first, err := sess.readFrame()
	if err != nil || first.Kind != FrameQueueForMatch {
		sess.log.Warn("session did not open with queue_for_match")
		return
	}
	var qfm QueueForMatchPayload
	_ = json.Unmarshal(first.Payload, &qfm)

	clientID, box, err := sess.server.gateway.QueueForMatch(qfm.ClientIdentity)
	if err != nil {
		sess.log.WithError(err).Warn("queue_for_match failed")
		return
	}
	sess.clientID = clientID

	done := make(chan struct{})
	go sess.drainLoop(box, done)

	sess.readLoop()

	close(done)
	sess.server.gateway.Disconnect(sess.clientID)
}

// drainLoop pushes MatchEvents from this client's outbox onto the
// websocket in enqueue order.
func (sess *session) drainLoop(box *outbox.Box, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		batch, closed := box.Drain(match.DrainTimeout)
		for _, evt := range batch {
			if evt.Kind == events.KindMatchFound && evt.MatchFound != nil {
				sess.setPlayer(evt.MatchFound.PlayerID)
			}
			data, kind, err := encodeEvent(sess.getPlayer(), evt)
			if err != nil {
				sess.log.WithError(err).Warn("failed to encode event")
				continue
			}
			frame := Frame{Kind: FrameEvent, Payload: mustMarshal(EventPayload{Kind: kind, Data: data})}
			if err := sess.writeFrame(frame); err != nil {
				return
			}
		}
		if closed {
			return
		}
	}
}

// readLoop processes unary RPC frames through the bounded worker pool
// until the connection closes.
func (sess *session) readLoop() {
	for {
		f, err := sess.readFrame()
		if err != nil {
			return
		}
		frame := f
		sess.server.workerSem <- struct{}{}
		go func() {
			defer func() { <-sess.server.workerSem }()
			sess.handleUnary(frame)
		}()
	}
}

func (sess *session) readFrame() (Frame, error) {
	var f Frame
	err := sess.conn.ReadJSON(&f)
	return f, err
}

func (sess *session) handleUnary(f Frame) {
	switch f.Kind {
	case FrameBuildTower:
		sess.handleBuildTower(f)
	case FrameSendUnits:
		sess.handleSendUnits(f)
	case FrameRoundAck:
		sess.handleRoundAck(f)
	default:
		sess.respond(f.RequestID, roundholderr.ErrInternal)
	}
}

func (sess *session) handleBuildTower(f Frame) {
	var p BuildTowerPayload
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		sess.respond(f.RequestID, roundholderr.ErrInternal)
		return
	}
	row, col := ToLocalTile(sess.getPlayer(), p.TileRow, p.TileCol)
	err := sess.server.gateway.BuildTower(sess.clientID, match.BuildTowerRequest{
		TowerType: p.TowerType,
		TileRow:   row,
		TileCol:   col,
		Level:     p.Level,
	})
	sess.respond(f.RequestID, err)
}

func (sess *session) handleSendUnits(f Frame) {
	var p SendUnitsPayload
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		sess.respond(f.RequestID, roundholderr.ErrInternal)
		return
	}

	type key struct {
		unitType string
		route    int
	}
	counts := map[key]int{}
	var order []key
	for _, u := range p.Units {
		k := key{u.UnitType, u.Route}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	req := match.SendUnitsRequest{Units: make([]wave.UnitRequest, 0, len(order))}
	for _, k := range order {
		req.Units = append(req.Units, wave.UnitRequest{Type: k.unitType, Route: k.route, Count: counts[k]})
	}

	err := sess.server.gateway.SendUnits(sess.clientID, req)
	sess.respond(f.RequestID, err)
}

func (sess *session) handleRoundAck(f Frame) {
	err := sess.server.gateway.RoundAck(sess.clientID)
	sess.respond(f.RequestID, err)
}

func (sess *session) respond(requestID string, err error) {
	resp := ResponsePayload{Success: err == nil}
	if err != nil {
		resp.Error = roundholderr.Code(err)
	}
	_ = sess.writeFrame(Frame{Kind: FrameResponse, RequestID: requestID, Payload: mustMarshal(resp)})
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
