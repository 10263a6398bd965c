package duel

import "subspace_duel/internal/domain"

// Banner is the single headline shown for a resolved duel.
type Banner string

const (
	BannerConquerHeaven  Banner = "conquer_heaven"
	BannerJesterSwap     Banner = "jester_swap"
	BannerDestinyCrit    Banner = "destiny_crit"
	BannerDestinyCounter Banner = "destiny_counter"
	BannerBadLuck        Banner = "bad_luck"
	BannerNormalWin      Banner = "normal_win"
	BannerDraw           Banner = "draw"
)

// ResultContext flattens a DuelResult into the facts the banner picker and
// clients care about.
type ResultContext struct {
	Phase      domain.PhaseType `json:"phase"`
	AttackerID int64            `json:"attacker_id"`
	DefenderID int64            `json:"defender_id"`
	WinnerID   *int64           `json:"winner_id,omitempty"`
	LoserID    *int64           `json:"loser_id,omitempty"`
	IsDraw     bool             `json:"is_draw"`

	AttackerHitDestiny bool `json:"attacker_hit_destiny"`
	DefenderHitDestiny bool `json:"defender_hit_destiny"`
	LoserHitDestiny    bool `json:"loser_hit_destiny"`
	ConquerHeaven      bool `json:"conquer_heaven"`

	CardsSwapped      bool `json:"cards_swapped"`
	ScissorsConverted bool `json:"scissors_converted"`
	OverheatApplied   bool `json:"overheat_applied"`
	GhostTriggered    bool `json:"ghost_triggered"`
	ImmunityApplied   bool `json:"immunity_applied"`

	WinnerMultiplier float64 `json:"winner_multiplier"`
	LoserMultiplier  float64 `json:"loser_multiplier"`
}

func NewResultContext(r domain.DuelResult) ResultContext {
	ctx := ResultContext{
		Phase:              r.Phase,
		AttackerID:         r.AttackerID,
		DefenderID:         r.DefenderID,
		IsDraw:             r.Outcome == domain.OutcomeDraw,
		AttackerHitDestiny: r.AttackerCard == r.DestinyCard,
		DefenderHitDestiny: r.DefenderCard == r.DestinyCard,
		ConquerHeaven:      r.IsShengTianBanZi,
		CardsSwapped:       r.CardsSwapped,
		ScissorsConverted:  r.ScissorsConverted,
		OverheatApplied:    r.OverheatDuration > 0,
		GhostTriggered:     r.GhostProtectionGranted,
		ImmunityApplied:    r.ImmunityGranted,
		WinnerMultiplier:   r.RewardMultiplier,
		LoserMultiplier:    r.PenaltyMultiplier,
	}
	if id, ok := r.WinnerID(); ok {
		ctx.WinnerID = &id
	}
	if id, ok := r.LoserID(); ok {
		ctx.LoserID = &id
		ctx.LoserHitDestiny = r.CardOf(id) == r.DestinyCard
	}
	return ctx
}

// PickBanner returns exactly one banner, by fixed precedence. Destiny
// banners belong to DestinyGambit and the swap banner to Joker. A defender
// who wins on destiny gets the counter banner.
func PickBanner(ctx ResultContext) Banner {
	casino := ctx.Phase == domain.PhaseDestinyGambit

	if casino && ctx.ConquerHeaven {
		return BannerConquerHeaven
	}
	if ctx.Phase == domain.PhaseJoker && ctx.CardsSwapped {
		return BannerJesterSwap
	}
	if casino && ctx.WinnerID != nil {
		attackerWon := *ctx.WinnerID == ctx.AttackerID
		if attackerWon && ctx.AttackerHitDestiny {
			return BannerDestinyCrit
		}
		if !attackerWon && ctx.DefenderHitDestiny {
			return BannerDestinyCounter
		}
	}
	if casino && ctx.LoserID != nil && ctx.LoserHitDestiny {
		return BannerBadLuck
	}
	if ctx.WinnerID != nil {
		return BannerNormalWin
	}
	return BannerDraw
}

// PickBannerFor is PickBanner over a raw result.
func PickBannerFor(r domain.DuelResult) Banner {
	return PickBanner(NewResultContext(r))
}
