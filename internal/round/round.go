// Package round implements RoundManager: the per-match phase state
// machine that drives Preparation -> RoundStart -> Combat -> AwaitAck and
// loops until a winner (or disconnect) ends the match.
package round

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"roundhold/internal/balance"
	"roundhold/internal/combat"
	"roundhold/internal/events"
	"roundhold/internal/outbox"
	"roundhold/internal/sim"
	"roundhold/internal/state"
)

// Outcome reports how a match ended, delivered on the Done channel.
type Outcome struct {
	Winner balance.PlayerId
	Draw   bool
}

// Manager drives one match's round loop. Its own phase lock guards only
// `phase`; it is never held across a sleep, an ack wait, or a call into
// the state.Manager, per the lock-order rule (match_lock -> outbox lock
// -> state.Manager mutex -> this phase lock, never reversed).
type Manager struct {
	matchID string
	st      *state.Manager
	boxA    *outbox.Box
	boxB    *outbox.Box
	log     *logrus.Entry

	phaseMu sync.Mutex
	phase   state.Phase

	ackA, ackB chan struct{}
	ackMu      sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}

	Done chan Outcome

	// overridable for tests; defaults set in New.
	prepDuration time.Duration
	ackTimeout   time.Duration
	sleepSlice   time.Duration
	roundNumber  int
}

func New(matchID string, st *state.Manager, boxA, boxB *outbox.Box, log *logrus.Entry) *Manager {
	return &Manager{
		matchID:      matchID,
		st:           st,
		boxA:         boxA,
		boxB:         boxB,
		log:          log,
		phase:        state.PhasePreparation,
		stopCh:       make(chan struct{}),
		Done:         make(chan Outcome, 1),
		prepDuration: balance.PrepSeconds * time.Second,
		ackTimeout:   balance.RoundAckTimeout * time.Second,
		sleepSlice:   250 * time.Millisecond,
	}
}

func (m *Manager) setPhase(p state.Phase) {
	m.phaseMu.Lock()
	m.phase = p
	m.phaseMu.Unlock()
	// GameStateManager's mutex is acquired here, never while phaseMu is
	// held, preserving the required lock order.
	m.st.SetPhase(p)
}

func (m *Manager) IsPreparation() bool {
	m.phaseMu.Lock()
	defer m.phaseMu.Unlock()
	return m.phase == state.PhasePreparation
}

// Stop requests the round loop exit at the next cooperative checkpoint
// (the prep sleep slices, or between rounds).
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Manager) stopped() bool {
	select {
	case <-m.stopCh:
		return true
	default:
		return false
	}
}

// AckRound signals the caller's ack for the current round. Idempotent:
// repeated acks from the same player in the same round collapse to one
// signal, matching a buffered-channel send-once-per-round semantic.
func (m *Manager) AckRound(player balance.PlayerId) {
	m.ackMu.Lock()
	defer m.ackMu.Unlock()
	var ch chan struct{}
	if player == balance.PlayerA {
		ch = m.ackA
	} else {
		ch = m.ackB
	}
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (m *Manager) resetAcks() {
	m.ackMu.Lock()
	defer m.ackMu.Unlock()
	m.ackA = make(chan struct{}, 1)
	m.ackB = make(chan struct{}, 1)
}

// Run drives the round loop until a winner is decided or Stop is
// called. It is intended to run on its own goroutine per match; it
// always sends exactly one Outcome on Done before returning, even when
// stopped early, so a caller waiting on Done never blocks forever.
func (m *Manager) Run() {
	for {
		if m.stopped() {
			m.Done <- Outcome{}
			return
		}

		if !m.sleepPreparation() {
			m.Done <- Outcome{}
			return
		}

		m.setPhase(state.PhaseRoundStart)
		data := m.st.GetCurrentStateSnapshot()
		if !m.broadcast(events.NewRoundStart(events.RoundStart{SimulationData: data})) {
			m.Done <- Outcome{}
			return
		}

		m.setPhase(state.PhaseCombat)
		result := m.runCombat(data)

		m.st.ApplyRoundResult(result.ToEconomyOutcome())
		m.st.ClearWaveData()
		m.roundNumber++

		if winner, ok := m.st.IsMatchOver(); ok {
			m.emitResultAndFinish(result, Outcome{Winner: winner})
			return
		}
		if m.st.IsDraw() {
			m.emitResultAndFinish(result, Outcome{Draw: true})
			return
		}

		m.setPhase(state.PhaseAwaitAck)
		m.resetAcks()
		if !m.broadcast(events.NewRoundResult(events.RoundResult{Result: result, NewState: m.newStateSnapshot()})) {
			m.Done <- Outcome{}
			return
		}
		m.awaitAcks()
	}
}

// sleepPreparation sleeps for PrepSeconds in small cancellable slices.
// Returns false if the match was stopped mid-sleep.
func (m *Manager) sleepPreparation() bool {
	m.setPhase(state.PhasePreparation)
	deadline := time.Now().Add(m.prepDuration)
	ticker := time.NewTicker(m.sleepSlice)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-m.stopCh:
			return false
		case <-ticker.C:
		}
	}
	return true
}

func (m *Manager) runCombat(data sim.SimulationData) combat.Result {
	return combat.Run(data)
}

func (m *Manager) awaitAcks() {
	m.ackMu.Lock()
	a, b := m.ackA, m.ackB
	m.ackMu.Unlock()

	timeout := time.NewTimer(m.ackTimeout)
	defer timeout.Stop()

	gotA, gotB := false, false
	for !(gotA && gotB) {
		select {
		case <-a:
			gotA = true
		case <-b:
			gotB = true
		case <-timeout.C:
			if m.log != nil {
				m.log.WithFields(logrus.Fields{
					"match_id": m.matchID,
					"round":    m.roundNumber,
					"ack_a":    gotA,
					"ack_b":    gotB,
				}).Warn("round ack timeout, advancing anyway")
			}
			return
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) emitResultAndFinish(result combat.Result, outcome Outcome) {
	m.setPhase(state.PhaseEnded)
	m.broadcast(events.NewRoundResult(events.RoundResult{Result: result, NewState: m.newStateSnapshot()}))
	m.Done <- outcome
}

func (m *Manager) newStateSnapshot() map[balance.PlayerId]events.PlayerState {
	econ := m.st.Economy()
	return map[balance.PlayerId]events.PlayerState{
		balance.PlayerA: {Gold: econ.GoldA, Lives: econ.LivesA},
		balance.PlayerB: {Gold: econ.GoldB, Lives: econ.LivesB},
	}
}

// broadcast pushes evt to both outboxes and reports whether it was
// delivered to both without overflowing. An overflowing box means a
// client stopped draining its stream; the caller treats the match as
// unhealthy and ends the round loop rather than continuing to broadcast
// into it.
func (m *Manager) broadcast(evt events.MatchEvent) bool {
	okA := m.pushOrWarnOverflow(m.boxA, evt)
	okB := m.pushOrWarnOverflow(m.boxB, evt)
	return okA && okB
}

func (m *Manager) pushOrWarnOverflow(box *outbox.Box, evt events.MatchEvent) bool {
	err := box.Push(evt)
	if err == nil {
		return true
	}
	var overflow outbox.OverflowError
	if errors.As(err, &overflow) && m.log != nil {
		m.log.WithField("match_id", m.matchID).Warn("outbox overflow, ending round loop")
	}
	return false
}
