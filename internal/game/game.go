package game

import (
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

var (
	ErrPhaseAlreadyLocked = errors.New("phase already locked for this session")
	ErrUnknownPhase       = errors.New("unknown phase type")
)

// Rules is the hook set of one phase variant. The set of variants is
// closed: only this package can implement it.
type Rules interface {
	Type() domain.PhaseType
	DisplayName() string
	Description() string

	IsCardPlayable(card domain.CardType) bool

	// PreDuelModify returns the cards actually used for resolution and
	// whether they were swapped.
	PreDuelModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool)

	ResolveDuel(attacker, defender domain.CardType) domain.Outcome
	ResolveDestinyMatch(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch
	CalculateMultipliers(match domain.DestinyMatch) (reward, penalty float64)
	ChargeSpeedMultiplier() float64

	// PostDuelEffect may fill phase fields on a result before it is published.
	PostDuelEffect(result *domain.DuelResult)

	sealed()
}

// env is what every variant needs from its surroundings.
type env struct {
	balance config.Balance
	rand    Rand
	clock   clockwork.Clock
	pub     events.Publisher
}

func (e env) ruleTriggered(phase domain.PhaseType, format string, args ...any) {
	e.pub.Publish(events.Event{
		Kind:    events.KindPhaseRuleTriggered,
		At:      e.clock.Now(),
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
	})
}

// Shared default hooks.

func allPlayable(card domain.CardType) bool {
	return card.Valid()
}

func noModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool) {
	return attacker, defender, false
}

func baseMultipliers(b config.Balance, match domain.DestinyMatch) (reward, penalty float64) {
	reward, penalty = 1.0, 1.0
	switch match {
	case domain.DestinyWinnerMatched:
		reward = b.CritMultiplier
	case domain.DestinyDefenderMatched:
		penalty = b.CounterMultiplier
	}
	return reward, penalty
}
