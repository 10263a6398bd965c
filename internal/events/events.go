package events

import (
	"time"

	"subspace_duel/internal/domain"
)

// Kind identifies a notification emitted by the duel engine.
type Kind string

const (
	KindSessionStarted       Kind = "session_started"
	KindSessionEnded         Kind = "session_ended"
	KindPhaseLocked          Kind = "phase_locked"
	KindPhaseRuleTriggered   Kind = "phase_rule_triggered"
	KindDuelInitiated        Kind = "duel_initiated"
	KindDuelValidationFailed Kind = "duel_validation_failed"
	KindDuelResolved         Kind = "duel_resolved"
	KindTicketConsumed       Kind = "ticket_consumed"
	KindCardAdded            Kind = "card_added"
	KindOverflowExpired      Kind = "overflow_expired"
	KindDriftCharge          Kind = "drift_charge"
	KindSkillSlotsChanged    Kind = "skill_slots_changed"
	KindSkillActivated       Kind = "skill_activated"
	KindOverheatStarted      Kind = "overheat_started"
	KindOverheatEnded        Kind = "overheat_ended"
	KindProtectionActivated  Kind = "protection_activated"
	KindProtectionExpired    Kind = "protection_expired"
	KindImmunityGranted      Kind = "immunity_granted"
	KindImmunityExpired      Kind = "immunity_expired"
)

// Event is advisory: publishers never wait for a response.
// Only the fields relevant to Kind are populated.
type Event struct {
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
	PlayerID int64     `json:"player_id,omitempty"`
	TargetID int64     `json:"target_id,omitempty"`

	Phase    domain.PhaseType   `json:"phase,omitempty"`
	Reason   domain.FailReason  `json:"reason,omitempty"`
	Card     *domain.Card       `json:"card,omitempty"`
	Result   *domain.DuelResult `json:"result,omitempty"`
	Amount   float64            `json:"amount,omitempty"`
	Slots    int                `json:"slots"`
	Duration time.Duration      `json:"duration,omitempty"`
	Message  string             `json:"message,omitempty"`

	// session_started only
	Players []int64 `json:"players,omitempty"`
	Version int     `json:"balance_version,omitempty"`
}

// Publisher is the narrow interface engine components depend on.
type Publisher interface {
	Publish(e Event)
}

// Observer receives every published event.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
