// Package match implements MatchServer: the matchmaking waiting room,
// per-match event fan-out, and the RPC handlers that delegate mutation
// to each match's state.Manager.
package match

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roundhold/internal/balance"
	"roundhold/internal/events"
	"roundhold/internal/outbox"
	"roundhold/internal/round"
	"roundhold/internal/roundholderr"
	"roundhold/internal/state"
	"roundhold/internal/wave"
)

// BuildTowerRequest is the in-memory shape of a BuildTower RPC.
type BuildTowerRequest struct {
	TowerType string
	TileRow   int
	TileCol   int
	Level     int
}

// SendUnitsRequest is the in-memory shape of a SendUnits RPC.
type SendUnitsRequest struct {
	Units []wave.UnitRequest
}

// match is one active 1v1 game.
type match struct {
	id       string
	clientA  string
	clientB  string
	state    *state.Manager
	roundMgr *round.Manager
	boxA     *outbox.Box
	boxB     *outbox.Box
}

func (mt *match) boxFor(clientID string) *outbox.Box {
	if clientID == mt.clientA {
		return mt.boxA
	}
	return mt.boxB
}

func (mt *match) playerFor(clientID string) (balance.PlayerId, bool) {
	switch clientID {
	case mt.clientA:
		return balance.PlayerA, true
	case mt.clientB:
		return balance.PlayerB, true
	default:
		return "", false
	}
}

func (mt *match) opponentBox(clientID string) *outbox.Box {
	if clientID == mt.clientA {
		return mt.boxB
	}
	return mt.boxA
}

// Server is the matchmaking queue and the registry of active matches. It
// holds no process-wide mutable state beyond these two.
type Server struct {
	log      *logrus.Logger
	tickRate int

	matchLock sync.Mutex
	waiting   string                  // identity of the one queued-but-unmatched client, "" if none
	waitingCh map[string]chan string  // identity -> channel receiving assigned match id

	clientsLock sync.Mutex
	clientMatch map[string]string // clientID -> matchID
	matches     map[string]*match
}

func NewServer(log *logrus.Logger, tickRate int) *Server {
	if log == nil {
		log = logrus.New()
	}
	if tickRate <= 0 {
		tickRate = balance.TickRate
	}
	return &Server{
		log:         log,
		tickRate:    tickRate,
		waitingCh:   make(map[string]chan string),
		clientMatch: make(map[string]string),
		matches:     make(map[string]*match),
	}
}

// QueueForMatch registers a client identity in the waiting room. If
// another client is already waiting, the two are paired immediately and
// a new match starts; otherwise this call blocks until a partner
// arrives. It returns the
// client's assigned outbox so the transport layer can start draining it,
// along with the client's own ID to use for subsequent unary RPCs.
func (s *Server) QueueForMatch(identity string) (clientID string, box *outbox.Box, err error) {
	clientID = identity
	if clientID == "" {
		clientID = uuid.NewString()
	}

	s.matchLock.Lock()
	if s.waiting == "" {
		s.waiting = clientID
		ch := make(chan string, 1)
		s.waitingCh[clientID] = ch
		s.matchLock.Unlock()

		matchID := <-ch
		return clientID, s.boxForClient(matchID, clientID), nil
	}

	partner := s.waiting
	partnerCh := s.waitingCh[partner]
	delete(s.waitingCh, partner)
	s.waiting = ""
	s.matchLock.Unlock()

	mt := s.startMatch(partner, clientID)

	partnerCh <- mt.id
	return clientID, mt.boxFor(clientID), nil
}

func (s *Server) boxForClient(matchID, clientID string) *outbox.Box {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	mt := s.matches[matchID]
	if mt == nil {
		return nil
	}
	return mt.boxFor(clientID)
}

func (s *Server) startMatch(clientA, clientB string) *match {
	matchID := uuid.NewString()
	st := state.New(s.tickRate)
	boxA, boxB := outbox.New(), outbox.New()
	log := s.log.WithField("match_id", matchID)

	mt := &match{
		id:      matchID,
		clientA: clientA,
		clientB: clientB,
		state:   st,
		boxA:    boxA,
		boxB:    boxB,
	}
	mt.roundMgr = round.New(matchID, st, boxA, boxB, log)

	s.clientsLock.Lock()
	s.matches[matchID] = mt
	s.clientMatch[clientA] = matchID
	s.clientMatch[clientB] = matchID
	s.clientsLock.Unlock()

	initial := econSnapshot(st)
	s.pushOrTeardown(mt, boxA, events.NewMatchFound(events.MatchFound{
		PlayerID: balance.PlayerA, Opponent: balance.PlayerB, InitialState: initial,
	}))
	s.pushOrTeardown(mt, boxB, events.NewMatchFound(events.MatchFound{
		PlayerID: balance.PlayerB, Opponent: balance.PlayerA, InitialState: initial,
	}))

	go func() {
		mt.roundMgr.Run()
		outcome := <-mt.roundMgr.Done
		log.WithFields(logrus.Fields{"winner": outcome.Winner, "draw": outcome.Draw}).Info("match ended")
		s.teardown(matchID)
	}()

	log.Info("match started")
	return mt
}

func econSnapshot(st *state.Manager) map[balance.PlayerId]events.PlayerState {
	econ := st.Economy()
	return map[balance.PlayerId]events.PlayerState{
		balance.PlayerA: {Gold: econ.GoldA, Lives: econ.LivesA},
		balance.PlayerB: {Gold: econ.GoldB, Lives: econ.LivesB},
	}
}

func (s *Server) lookup(clientID string) (*match, balance.PlayerId, bool) {
	s.clientsLock.Lock()
	matchID, ok := s.clientMatch[clientID]
	if !ok {
		s.clientsLock.Unlock()
		return nil, "", false
	}
	mt := s.matches[matchID]
	s.clientsLock.Unlock()
	if mt == nil {
		return nil, "", false
	}
	player, ok := mt.playerFor(clientID)
	return mt, player, ok
}

// BuildTower delegates to the match's state.Manager and, on success,
// broadcasts TowerPlaced to both outboxes.
func (s *Server) BuildTower(clientID string, req BuildTowerRequest) error {
	mt, player, ok := s.lookup(clientID)
	if !ok {
		return roundholderr.ErrNotInMatch
	}
	level := req.Level
	if level <= 0 {
		level = 1
	}
	placement, err := mt.state.BuildTower(player, req.TowerType, req.TileRow, req.TileCol, level)
	if err != nil {
		return err
	}
	evt := events.NewTowerPlaced(events.TowerPlaced{Placement: placement})
	s.pushOrTeardown(mt, mt.boxA, evt)
	s.pushOrTeardown(mt, mt.boxB, evt)
	return nil
}

// SendUnits delegates to the match's state.Manager. No broadcast on
// success; only the end of round reveals wave composition.
func (s *Server) SendUnits(clientID string, req SendUnitsRequest) error {
	mt, player, ok := s.lookup(clientID)
	if !ok {
		return roundholderr.ErrNotInMatch
	}
	return mt.state.AddUnitsToWave(player, req.Units)
}

// RoundAck signals the caller's ack for the current round.
func (s *Server) RoundAck(clientID string) error {
	mt, player, ok := s.lookup(clientID)
	if !ok {
		return roundholderr.ErrNotInMatch
	}
	mt.roundMgr.AckRound(player)
	return nil
}

// Disconnect tears down the client's match (if any), notifying the
// partner. A client disconnecting from the waiting room is simply
// removed.
func (s *Server) Disconnect(clientID string) {
	s.matchLock.Lock()
	if s.waiting == clientID {
		s.waiting = ""
		delete(s.waitingCh, clientID)
		s.matchLock.Unlock()
		return
	}
	s.matchLock.Unlock()

	mt, _, ok := s.lookup(clientID)
	if !ok {
		return
	}
	_ = mt.opponentBox(clientID).Push(events.NewOpponentDisconnected())
	mt.roundMgr.Stop()
	s.teardown(mt.id)
}

// pushOrTeardown pushes evt onto box; if the box has overflowed its
// healthy bound, the match is torn down as unhealthy the same way a
// disconnect tears it down, rather than letting the match server keep
// broadcasting into a client that stopped draining its stream.
func (s *Server) pushOrTeardown(mt *match, box *outbox.Box, evt events.MatchEvent) {
	err := box.Push(evt)
	if err == nil {
		return
	}
	var overflow outbox.OverflowError
	if errors.As(err, &overflow) {
		s.log.WithField("match_id", mt.id).Warn("outbox overflow, tearing down match")
		mt.roundMgr.Stop()
		s.teardown(mt.id)
	}
}

func (s *Server) teardown(matchID string) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	mt := s.matches[matchID]
	if mt == nil {
		return
	}
	mt.boxA.Close()
	mt.boxB.Close()
	delete(s.matches, matchID)
	delete(s.clientMatch, mt.clientA)
	delete(s.clientMatch, mt.clientB)
}

// DrainTimeout is the bounded wait QueueForMatch consumers use between
// liveness checks while polling an outbox.
const DrainTimeout = 15 * time.Second
