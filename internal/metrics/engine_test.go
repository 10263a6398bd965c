package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

// value finds one series in the gathered families by name and label values.
func value(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue series
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngine(reg)

	res := domain.DuelResult{
		AttackerID: 1, DefenderID: 2, Phase: domain.PhaseDestinyGambit,
		AttackerCard: domain.CardRock, DefenderCard: domain.CardScissors, DestinyCard: domain.CardRock,
		Outcome: domain.OutcomeWin, DestinyMatch: domain.DestinyWinnerMatched,
		RewardMultiplier: 1.5, PenaltyMultiplier: 1,
	}
	for _, e := range []events.Event{
		{Kind: events.KindPhaseLocked, Phase: domain.PhaseDestinyGambit},
		{Kind: events.KindSessionStarted},
		{Kind: events.KindDuelValidationFailed, Reason: domain.FailNeedTicket},
		{Kind: events.KindDuelValidationFailed, Reason: domain.FailNeedTicket},
		{Kind: events.KindDuelResolved, Result: &res},
	} {
		m.Notify(e)
	}

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"duel_engine_events_total", map[string]string{"kind": "duel_validation_failed"}, 2},
		{"duel_refusals_total", map[string]string{"reason": "need-ticket"}, 2},
		{"duels_resolved_total", map[string]string{"phase": "destiny_gambit", "outcome": "win", "destiny": "winner_matched"}, 1},
		{"duel_banners_total", map[string]string{"banner": "destiny_crit"}, 1},
		{"duel_phase_locked", map[string]string{"phase": "destiny_gambit"}, 1},
		{"duel_sessions_active", nil, 1},
	}
	for _, c := range checks {
		if got := value(t, reg, c.name, c.labels); got != c.want {
			t.Errorf("%s%v = %v; want %v", c.name, c.labels, got, c.want)
		}
	}

	m.Notify(events.Event{Kind: events.KindSessionEnded})
	if got := value(t, reg, "duel_sessions_active", nil); got != 0 {
		t.Errorf("sessions after end = %v", got)
	}
	if got := value(t, reg, "duel_phase_locked", map[string]string{"phase": "destiny_gambit"}); got != 0 {
		t.Errorf("phase gauge after end = %v", got)
	}
}
