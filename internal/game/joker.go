package game

import "subspace_duel/internal/domain"

// Joker may swap both played cards before resolution.
type Joker struct {
	env
}

var _ Rules = (*Joker)(nil)

func (p *Joker) Type() domain.PhaseType { return domain.PhaseJoker }

func (p *Joker) DisplayName() string { return "Joker" }

func (p *Joker) Description() string {
	return "Chaos reigns. Before each duel the two played cards may be swapped."
}

func (p *Joker) IsCardPlayable(card domain.CardType) bool { return allPlayable(card) }

func (p *Joker) PreDuelModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool) {
	roll := p.rand.Float64()
	if roll >= p.balance.JesterTriggerChance {
		return attacker, defender, false
	}
	p.ruleTriggered(p.Type(), "joker: cards swapped (roll %.2f)", roll)
	return defender, attacker, true
}

func (p *Joker) ResolveDuel(attacker, defender domain.CardType) domain.Outcome {
	return Resolve(attacker, defender)
}

func (p *Joker) ResolveDestinyMatch(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch {
	return matchDestiny(outcome, attacker, defender, destiny)
}

func (p *Joker) CalculateMultipliers(match domain.DestinyMatch) (reward, penalty float64) {
	return baseMultipliers(p.balance, match)
}

func (p *Joker) ChargeSpeedMultiplier() float64 { return 1.0 }

func (p *Joker) PostDuelEffect(*domain.DuelResult) {}

func (p *Joker) sealed() {}
