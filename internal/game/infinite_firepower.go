package game

import "subspace_duel/internal/domain"

// InfiniteFirepower charges faster, overheats the attacker after each duel
// and softens the defender's penalty. Sessions under this phase also give
// every player a protection tracker.
type InfiniteFirepower struct {
	env
}

var _ Rules = (*InfiniteFirepower)(nil)

func (p *InfiniteFirepower) Type() domain.PhaseType { return domain.PhaseInfiniteFirepower }

func (p *InfiniteFirepower) DisplayName() string { return "Infinite Firepower" }

func (p *InfiniteFirepower) Description() string {
	return "Full power. Charge builds faster but attackers overheat, and players pulled in too often turn ghost."
}

func (p *InfiniteFirepower) IsCardPlayable(card domain.CardType) bool { return allPlayable(card) }

func (p *InfiniteFirepower) PreDuelModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool) {
	return noModify(attacker, defender)
}

func (p *InfiniteFirepower) ResolveDuel(attacker, defender domain.CardType) domain.Outcome {
	return Resolve(attacker, defender)
}

func (p *InfiniteFirepower) ResolveDestinyMatch(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch {
	return matchDestiny(outcome, attacker, defender, destiny)
}

func (p *InfiniteFirepower) CalculateMultipliers(match domain.DestinyMatch) (reward, penalty float64) {
	reward, penalty = baseMultipliers(p.balance, match)
	return reward, penalty * p.balance.GhostPenaltyReduction
}

func (p *InfiniteFirepower) ChargeSpeedMultiplier() float64 {
	return p.balance.OverloadChargeMultiplier
}

func (p *InfiniteFirepower) PostDuelEffect(result *domain.DuelResult) {
	result.OverheatDuration = p.balance.AttackerOverheatTime
	result.PhaseEffect = "infinite firepower: attacker overheats for " +
		p.balance.AttackerOverheatTime.String() + ", defender penalty reduced"
	p.ruleTriggered(p.Type(), "%s", result.PhaseEffect)
}

func (p *InfiniteFirepower) sealed() {}
