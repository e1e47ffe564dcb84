// Package economy tracks gold and lives for both players. Every method
// here is expected to run under the caller's lock (GameStateManager);
// this package does no locking of its own.
package economy

import (
	"roundhold/internal/balance"
	"roundhold/internal/roundholderr"
)

type playerAccount struct {
	gold  int
	lives int
}

// Economy holds per-player gold and lives, initialized to the balance
// starting values.
type Economy struct {
	accounts map[balance.PlayerId]*playerAccount
}

func New() *Economy {
	return &Economy{
		accounts: map[balance.PlayerId]*playerAccount{
			balance.PlayerA: {gold: balance.StartGold, lives: balance.StartLives},
			balance.PlayerB: {gold: balance.StartGold, lives: balance.StartLives},
		},
	}
}

func (e *Economy) GetGold(p balance.PlayerId) int {
	return e.accounts[p].gold
}

func (e *Economy) GetLives(p balance.PlayerId) int {
	return e.accounts[p].lives
}

// SpendGold deducts n gold, failing with InsufficientGold if the balance
// is too low. On failure, no state changes.
func (e *Economy) SpendGold(p balance.PlayerId, n int) error {
	acct := e.accounts[p]
	if acct.gold < n {
		return roundholderr.ErrInsufficientGold
	}
	acct.gold -= n
	return nil
}

// AddGold credits n gold; a non-positive n leaves the balance unchanged.
func (e *Economy) AddGold(p balance.PlayerId, n int) {
	if n <= 0 {
		return
	}
	e.accounts[p].gold += n
}

// LoseLives deducts n lives, saturating at 0.
func (e *Economy) LoseLives(p balance.PlayerId, n int) {
	acct := e.accounts[p]
	acct.lives -= n
	if acct.lives < 0 {
		acct.lives = 0
	}
}

// RoundOutcome is the economy-relevant half of a combat RoundResult.
type RoundOutcome struct {
	LivesLostA, LivesLostB int
	GoldEarnedA, GoldEarnedB int
}

// ApplyRoundResult is the single entry point combining lose-lives and
// add-gold for both players from one round's outcome.
func (e *Economy) ApplyRoundResult(r RoundOutcome) {
	e.LoseLives(balance.PlayerA, r.LivesLostA)
	e.LoseLives(balance.PlayerB, r.LivesLostB)
	e.AddGold(balance.PlayerA, r.GoldEarnedA)
	e.AddGold(balance.PlayerB, r.GoldEarnedB)
}

// Winner returns the player whose opponent has hit 0 lives, if any.
func (e *Economy) Winner() (balance.PlayerId, bool) {
	aDead := e.accounts[balance.PlayerA].lives == 0
	bDead := e.accounts[balance.PlayerB].lives == 0
	switch {
	case aDead && bDead:
		// Simultaneous knockout: no winner declared by economy alone;
		// RoundManager treats this as a draw.
		return "", false
	case aDead:
		return balance.PlayerB, true
	case bDead:
		return balance.PlayerA, true
	default:
		return "", false
	}
}

// IsDraw reports whether both players reached 0 lives on the same round.
func (e *Economy) IsDraw() bool {
	return e.accounts[balance.PlayerA].lives == 0 && e.accounts[balance.PlayerB].lives == 0
}
