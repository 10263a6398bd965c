package duel

import (
	"testing"

	"subspace_duel/internal/domain"
)

func TestPickBannerPrecedence(t *testing.T) {
	r, s, p := domain.CardRock, domain.CardScissors, domain.CardPaper
	casino, joker, peace := domain.PhaseDestinyGambit, domain.PhaseJoker, domain.PhaseCeasefire

	result := func(phase domain.PhaseType, a, d, destiny domain.CardType, outcome domain.Outcome) domain.DuelResult {
		return domain.DuelResult{
			AttackerID: 1, DefenderID: 2, Phase: phase,
			AttackerCard: a, DefenderCard: d, DestinyCard: destiny, Outcome: outcome,
		}
	}

	cases := []struct {
		name string
		res  domain.DuelResult
		want Banner
	}{
		{"conquer heaven", func() domain.DuelResult {
			x := result(casino, r, r, r, domain.OutcomeDraw)
			x.IsShengTianBanZi = true
			return x
		}(), BannerConquerHeaven},
		{"jester swap beats win", func() domain.DuelResult {
			x := result(joker, r, s, r, domain.OutcomeWin)
			x.CardsSwapped = true
			return x
		}(), BannerJesterSwap},
		{"swap flag ignored outside joker", func() domain.DuelResult {
			x := result(casino, p, r, s, domain.OutcomeWin)
			x.CardsSwapped = true
			return x
		}(), BannerNormalWin},
		{"attacker crit", result(casino, r, s, r, domain.OutcomeWin), BannerDestinyCrit},
		{"defender counter", result(casino, s, r, r, domain.OutcomeLose), BannerDestinyCounter},
		{"loser bad luck", result(casino, r, s, s, domain.OutcomeWin), BannerBadLuck},
		{"attacker bad luck", result(casino, s, r, s, domain.OutcomeLose), BannerBadLuck},
		{"plain casino win", result(casino, r, s, p, domain.OutcomeWin), BannerNormalWin},
		{"destiny ignored outside casino", result(peace, r, p, r, domain.OutcomeWin), BannerNormalWin},
		{"defender plain win", result(joker, s, r, p, domain.OutcomeLose), BannerNormalWin},
		{"draw", result(casino, p, p, r, domain.OutcomeDraw), BannerDraw},
	}
	for _, tc := range cases {
		if got := PickBannerFor(tc.res); got != tc.want {
			t.Errorf("%s: got %s; want %s", tc.name, got, tc.want)
		}
	}
}

func TestResultContext(t *testing.T) {
	res := domain.DuelResult{
		AttackerID: 10, DefenderID: 20, Phase: domain.PhaseDestinyGambit,
		AttackerCard: domain.CardScissors, DefenderCard: domain.CardRock, DestinyCard: domain.CardScissors,
		Outcome: domain.OutcomeLose, RewardMultiplier: 1, PenaltyMultiplier: 1.5,
	}
	ctx := NewResultContext(res)
	if ctx.WinnerID == nil || *ctx.WinnerID != 20 || ctx.LoserID == nil || *ctx.LoserID != 10 {
		t.Fatalf("winner/loser = %v/%v", ctx.WinnerID, ctx.LoserID)
	}
	if !ctx.AttackerHitDestiny || ctx.DefenderHitDestiny || !ctx.LoserHitDestiny {
		t.Fatalf("destiny flags = %+v", ctx)
	}
	if ctx.LoserMultiplier != 1.5 {
		t.Fatalf("loser multiplier = %v", ctx.LoserMultiplier)
	}

	if ctx.ImmunityApplied {
		t.Fatal("immunity_applied set without a grant")
	}
	res.ImmunityGranted = true
	if !NewResultContext(res).ImmunityApplied {
		t.Fatal("immunity_applied not carried from the result")
	}

	res.Outcome = domain.OutcomeDraw
	ctx = NewResultContext(res)
	if ctx.WinnerID != nil || ctx.LoserID != nil || ctx.LoserHitDestiny || !ctx.IsDraw {
		t.Fatalf("draw context = %+v", ctx)
	}
}
