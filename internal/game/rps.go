package game

import "subspace_duel/internal/domain"

// Resolve applies the canonical relation, from the attacker's side.
func Resolve(attacker, defender domain.CardType) domain.Outcome {
	if attacker == defender {
		return domain.OutcomeDraw
	}
	if attacker.Beats(defender) {
		return domain.OutcomeWin
	}
	return domain.OutcomeLose
}

// DrawDestiny picks one of the three card faces uniformly.
func DrawDestiny(r Rand) domain.CardType {
	return domain.AllCardTypes[r.IntN(len(domain.AllCardTypes))]
}

// matchDestiny checks the winner's card first, then the defender's (who may
// have lost), then the loser's. Draws never match.
func matchDestiny(outcome domain.Outcome, attacker, defender, destiny domain.CardType) domain.DestinyMatch {
	var winner, loser domain.CardType
	switch outcome {
	case domain.OutcomeWin:
		winner, loser = attacker, defender
	case domain.OutcomeLose:
		winner, loser = defender, attacker
	default:
		return domain.DestinyNone
	}

	switch destiny {
	case winner:
		return domain.DestinyWinnerMatched
	case defender:
		return domain.DestinyDefenderMatched
	case loser:
		return domain.DestinyLoserMatched
	}
	return domain.DestinyNone
}
