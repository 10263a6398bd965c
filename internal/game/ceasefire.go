package game

import "subspace_duel/internal/domain"

// Ceasefire turns scissors into rock and lets rock stun paper.
// Scissors stay selectable; they are converted, not blocked.
type Ceasefire struct {
	env
}

var _ Rules = (*Ceasefire)(nil)

func (p *Ceasefire) Type() domain.PhaseType { return domain.PhaseCeasefire }

func (p *Ceasefire) DisplayName() string { return "Ceasefire" }

func (p *Ceasefire) Description() string {
	return "Peace falls. Scissors are treated as rock, and rock stuns paper."
}

func (p *Ceasefire) IsCardPlayable(card domain.CardType) bool { return allPlayable(card) }

func (p *Ceasefire) PreDuelModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool) {
	converted := false
	if attacker == domain.CardScissors {
		attacker = domain.CardRock
		converted = true
	}
	if defender == domain.CardScissors {
		defender = domain.CardRock
		converted = true
	}
	if converted {
		p.ruleTriggered(p.Type(), "ceasefire: scissors converted to rock")
	}
	return attacker, defender, false
}

func (p *Ceasefire) ResolveDuel(attacker, defender domain.CardType) domain.Outcome {
	switch {
	case attacker == defender:
		return domain.OutcomeDraw
	case attacker == domain.CardRock && defender == domain.CardPaper:
		p.ruleTriggered(p.Type(), "ceasefire: rock stuns paper")
		return domain.OutcomeWin
	case attacker == domain.CardPaper && defender == domain.CardRock:
		p.ruleTriggered(p.Type(), "ceasefire: rock stuns paper")
		return domain.OutcomeLose
	}
	// scissors never reach here after PreDuelModify
	return Resolve(attacker, defender)
}

func (p *Ceasefire) ResolveDestinyMatch(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch {
	return matchDestiny(outcome, attacker, defender, destiny)
}

func (p *Ceasefire) CalculateMultipliers(match domain.DestinyMatch) (reward, penalty float64) {
	return baseMultipliers(p.balance, match)
}

func (p *Ceasefire) ChargeSpeedMultiplier() float64 { return 1.0 }

func (p *Ceasefire) PostDuelEffect(*domain.DuelResult) {}

func (p *Ceasefire) sealed() {}
