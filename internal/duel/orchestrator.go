package duel

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
	"subspace_duel/internal/game"
	"subspace_duel/internal/inventory"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/skill"
)

// Combatant is the per-player state a duel reads and consumes.
// Protection is nil unless the locked phase hands out trackers.
type Combatant struct {
	ID         int64
	Ledger     *inventory.Ledger
	Charge     *skill.ChargeTracker
	Protection *skill.ProtectionTracker
}

// Request is one duel attempt with both chosen cards.
type Request struct {
	Attacker     *Combatant
	Defender     *Combatant
	AttackerCard domain.CardType
	DefenderCard domain.CardType
}

// Orchestrator runs the duel pipeline. It is not re-entrant; the caller
// guarantees only one duel executes at a time.
type Orchestrator struct {
	registry *game.Registry
	rand     game.Rand
	clock    clockwork.Clock
	pub      events.Publisher
	log      *slog.Logger
}

func NewOrchestrator(registry *game.Registry, r game.Rand, clock clockwork.Clock, pub events.Publisher, log *slog.Logger) *Orchestrator {
	if pub == nil {
		pub = events.Discard
	}
	return &Orchestrator{
		registry: registry,
		rand:     r,
		clock:    clock,
		pub:      pub,
		log:      logger.OrDefault(log).With("component", "duel"),
	}
}

// ValidateAttacker checks the attacker can start a duel right now.
// Nothing is consumed.
func (o *Orchestrator) ValidateAttacker(attacker *Combatant) domain.FailReason {
	switch {
	case !attacker.Charge.IsFull():
		return domain.FailSkillNotReady
	case attacker.Charge.IsOverheated():
		return domain.FailWeaponOverheat
	case !attacker.Ledger.HasTicket():
		return domain.FailNeedTicket
	case !o.registry.IsLocked():
		return domain.FailPhaseNotLocked
	}
	return domain.FailNone
}

// ValidateCard checks a chosen card against the enum and the locked phase.
func (o *Orchestrator) ValidateCard(card domain.CardType) domain.FailReason {
	if !card.Valid() {
		return domain.FailInvalidCard
	}
	if phase, ok := o.registry.Active(); ok && !phase.IsCardPlayable(card) {
		return domain.FailCardNotPlayable
	}
	return domain.FailNone
}

// Validate runs every check that precedes resource consumption.
func (o *Orchestrator) Validate(req Request) domain.FailReason {
	if req.Attacker == nil || req.Defender == nil || req.Attacker.ID == req.Defender.ID {
		return domain.FailInvalidTarget
	}
	if !req.AttackerCard.Valid() || !req.DefenderCard.Valid() {
		return domain.FailInvalidCard
	}
	if reason := o.ValidateAttacker(req.Attacker); reason != domain.FailNone {
		return reason
	}
	for _, card := range []domain.CardType{req.AttackerCard, req.DefenderCard} {
		if reason := o.ValidateCard(card); reason != domain.FailNone {
			return reason
		}
	}
	if req.Defender.Protection != nil && req.Defender.Protection.IsProtected() {
		return domain.FailTargetProtected
	}
	return domain.FailNone
}

// Execute validates and, if that passes, resolves the duel. Skill slots and
// the ticket are spent even when the duel ends in a draw.
func (o *Orchestrator) Execute(req Request) (domain.DuelResult, domain.FailReason) {
	log := o.log
	if req.Attacker != nil && req.Defender != nil {
		log = log.With("attacker", req.Attacker.ID, "defender", req.Defender.ID)
	}
	logger.Stage(log, logger.StageTrigger, "duel requested",
		"attacker_card", req.AttackerCard, "defender_card", req.DefenderCard)

	if reason := o.Validate(req); reason != domain.FailNone {
		log.Info("duel rejected", "stage", logger.StageValidate, "reason", reason)
		return domain.DuelResult{}, reason
	}
	logger.Stage(log, logger.StageValidate, "duel validated")

	phase, _ := o.registry.Active()
	log = log.With("phase", phase.Type())

	req.Attacker.Charge.TryActivate()
	ticket, _ := req.Attacker.Ledger.ConsumeTicket()
	logger.Stage(log, logger.StageConsumeTicket, "ticket consumed", "ticket", ticket.ID)

	destiny := game.DrawDestiny(o.rand)
	logger.Stage(log, logger.StageLock, "destiny drawn", "destiny", destiny)

	result := domain.DuelResult{
		AttackerID:           req.Attacker.ID,
		DefenderID:           req.Defender.ID,
		Phase:                phase.Type(),
		OriginalAttackerCard: req.AttackerCard,
		OriginalDefenderCard: req.DefenderCard,
		DestinyCard:          destiny,
	}

	result.AttackerCard, result.DefenderCard, result.CardsSwapped =
		phase.PreDuelModify(req.AttackerCard, req.DefenderCard)
	result.ScissorsConverted = phase.Type() == domain.PhaseCeasefire &&
		(req.AttackerCard == domain.CardScissors || req.DefenderCard == domain.CardScissors)
	logger.Stage(log, logger.StagePhaseEvent, "phase applied",
		"attacker_card", result.AttackerCard, "defender_card", result.DefenderCard,
		"swapped", result.CardsSwapped, "converted", result.ScissorsConverted)

	result.Outcome = phase.ResolveDuel(result.AttackerCard, result.DefenderCard)
	result.DestinyMatch = phase.ResolveDestinyMatch(result.Outcome, result.AttackerCard, result.DefenderCard, destiny)
	result.RewardMultiplier, result.PenaltyMultiplier = phase.CalculateMultipliers(result.DestinyMatch)
	result.IsShengTianBanZi = result.DestinyMatch == domain.DestinyBothMatchedDraw

	phase.PostDuelEffect(&result)

	if req.Defender.Protection != nil {
		result.GhostProtectionGranted = req.Defender.Protection.RecordPull()
	}

	logger.Stage(log, logger.StageResultApply, "duel resolved",
		"outcome", result.Outcome, "destiny_match", result.DestinyMatch,
		"reward", result.RewardMultiplier, "penalty", result.PenaltyMultiplier)

	final := result
	o.pub.Publish(events.Event{
		Kind:     events.KindDuelResolved,
		At:       o.clock.Now(),
		PlayerID: result.AttackerID,
		TargetID: result.DefenderID,
		Phase:    result.Phase,
		Result:   &final,
	})
	return result, domain.FailNone
}
