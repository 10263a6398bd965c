package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/duel"
	"subspace_duel/internal/events"
)

// Engine turns engine events into Prometheus series. It is an events.Observer.
type Engine struct {
	events    *prometheus.CounterVec
	refusals  *prometheus.CounterVec
	resolved  *prometheus.CounterVec
	banners   *prometheus.CounterVec
	phase     *prometheus.GaugeVec
	sessions  prometheus.Gauge
	multiples *prometheus.HistogramVec
}

func NewEngine(reg prometheus.Registerer) *Engine {
	m := &Engine{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duel_engine_events_total",
			Help: "Engine events by kind",
		}, []string{"kind"}),
		refusals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duel_refusals_total",
			Help: "Refused duel attempts by reason",
		}, []string{"reason"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duels_resolved_total",
			Help: "Resolved duels by phase, outcome and destiny match",
		}, []string{"phase", "outcome", "destiny"}),
		banners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duel_banners_total",
			Help: "Result banners shown",
		}, []string{"banner"}),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "duel_phase_locked",
			Help: "1 for the phase locked by the active session",
		}, []string{"phase"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "duel_sessions_active",
			Help: "Whether a session is running",
		}),
		multiples: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duel_multiplier",
			Help:    "Reward and penalty multipliers of resolved duels",
			Buckets: []float64{0.5, 0.75, 1, 1.25, 1.3, 1.5, 2},
		}, []string{"side"}),
	}
	reg.MustRegister(m.events, m.refusals, m.resolved, m.banners, m.phase, m.sessions, m.multiples)
	return m
}

func (m *Engine) Notify(e events.Event) {
	m.events.WithLabelValues(string(e.Kind)).Inc()

	switch e.Kind {
	case events.KindSessionStarted:
		m.sessions.Set(1)
	case events.KindSessionEnded:
		m.sessions.Set(0)
		m.phase.Reset()
	case events.KindPhaseLocked:
		m.phase.Reset()
		m.phase.WithLabelValues(string(e.Phase)).Set(1)
	case events.KindDuelValidationFailed:
		m.refusals.WithLabelValues(string(e.Reason)).Inc()
	case events.KindDuelResolved:
		if e.Result == nil {
			return
		}
		r := *e.Result
		m.resolved.WithLabelValues(string(r.Phase), string(r.Outcome), string(r.DestinyMatch)).Inc()
		m.banners.WithLabelValues(string(duel.PickBannerFor(r))).Inc()
		if r.Outcome != domain.OutcomeDraw || r.IsShengTianBanZi {
			m.multiples.WithLabelValues("reward").Observe(r.RewardMultiplier)
			m.multiples.WithLabelValues("penalty").Observe(r.PenaltyMultiplier)
		}
	}
}
