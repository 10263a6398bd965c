package game

import "subspace_duel/internal/domain"

// DestinyGambit amplifies destiny hits and adds the "conquer heaven" draw:
// both final cards equal the destiny card.
type DestinyGambit struct {
	env
}

var _ Rules = (*DestinyGambit)(nil)

func (p *DestinyGambit) Type() domain.PhaseType { return domain.PhaseDestinyGambit }

func (p *DestinyGambit) DisplayName() string { return "Destiny Gambit" }

func (p *DestinyGambit) Description() string {
	return "Destiny is amplified. A winner on destiny crits, a defender on destiny counters, and a draw where both sides hit destiny conquers heaven."
}

func (p *DestinyGambit) IsCardPlayable(card domain.CardType) bool { return allPlayable(card) }

func (p *DestinyGambit) PreDuelModify(attacker, defender domain.CardType) (domain.CardType, domain.CardType, bool) {
	return noModify(attacker, defender)
}

func (p *DestinyGambit) ResolveDuel(attacker, defender domain.CardType) domain.Outcome {
	return Resolve(attacker, defender)
}

func (p *DestinyGambit) ResolveDestinyMatch(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch {
	if outcome == domain.OutcomeDraw {
		if attacker == destiny && defender == destiny {
			return domain.DestinyBothMatchedDraw
		}
		return domain.DestinyNone
	}
	return matchDestiny(outcome, attacker, defender, destiny)
}

func (p *DestinyGambit) CalculateMultipliers(match domain.DestinyMatch) (reward, penalty float64) {
	switch match {
	case domain.DestinyWinnerMatched:
		reward, penalty = baseMultipliers(p.balance, match)
		p.ruleTriggered(p.Type(), "destiny gambit: crit! winner hit destiny, reward x%.2f", reward)
		return reward, penalty
	case domain.DestinyDefenderMatched:
		reward, penalty = baseMultipliers(p.balance, match)
		p.ruleTriggered(p.Type(), "destiny gambit: counter! defender hit destiny, penalty x%.2f", penalty)
		return reward, penalty
	case domain.DestinyLoserMatched:
		p.ruleTriggered(p.Type(), "destiny gambit: bad luck, loser hit destiny")
		return 1.0, 1.0
	case domain.DestinyBothMatchedDraw:
		reward = p.balance.ConquerHeavenMultiplier
		p.ruleTriggered(p.Type(), "destiny gambit: conquer heaven! both hit destiny on a draw, x%.2f for both", reward)
		return reward, 1.0
	}
	return baseMultipliers(p.balance, match)
}

func (p *DestinyGambit) ChargeSpeedMultiplier() float64 { return 1.0 }

func (p *DestinyGambit) PostDuelEffect(*domain.DuelResult) {}

func (p *DestinyGambit) sealed() {}
