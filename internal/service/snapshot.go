package service

import (
	"time"

	"subspace_duel/internal/domain"
)

// Snapshot is a read-only diagnostic view of the session.
type Snapshot struct {
	SessionID      string           `json:"session_id,omitempty"`
	Active         bool             `json:"active"`
	Phase          domain.PhaseType `json:"phase,omitempty"`
	PhaseName      string           `json:"phase_name,omitempty"`
	BalanceVersion int              `json:"balance_version"`
	StartedAt      time.Time        `json:"started_at,omitzero"`
	DuelBusy       bool             `json:"duel_busy"`
	DuelCount      int              `json:"duel_count"`
	Players        []PlayerSnapshot `json:"players,omitempty"`
}

type PlayerSnapshot struct {
	ID int64 `json:"id"`

	Hand              []domain.Card `json:"hand"`
	Overflow          *domain.Card  `json:"overflow,omitempty"`
	OverflowRemaining time.Duration `json:"overflow_remaining"`
	Tickets           int           `json:"tickets"`

	FilledSlots       int           `json:"filled_slots"`
	MaxSlots          int           `json:"max_slots"`
	Charge            float64       `json:"charge"`
	Progress          float64       `json:"progress"`
	ChargeMultiplier  float64       `json:"charge_multiplier"`
	Overheated        bool          `json:"overheated"`
	OverheatRemaining time.Duration `json:"overheat_remaining"`

	Immune            bool          `json:"immune"`
	ImmunityRemaining time.Duration `json:"immunity_remaining"`

	HasProtection       bool          `json:"has_protection"`
	Protected           bool          `json:"protected"`
	ProtectionRemaining time.Duration `json:"protection_remaining"`
	RecentPulls         int           `json:"recent_pulls"`
}

// Snapshot reads every player's state. Reading runs the lazy expiry
// checks, so expiry events may fire.
func (s *SessionService) Snapshot() Snapshot {
	snap := Snapshot{
		Active:         s.active,
		BalanceVersion: s.balance.Version,
	}
	if !s.active {
		return snap
	}

	snap.SessionID = s.id
	snap.StartedAt = s.startedAt
	snap.DuelBusy = s.duelBusy
	snap.DuelCount = s.duelCount
	if rules, ok := s.registry.Active(); ok {
		snap.Phase = rules.Type()
		snap.PhaseName = rules.DisplayName()
	}

	for _, id := range s.order {
		snap.Players = append(snap.Players, s.playerSnapshot(s.players[id]))
	}
	return snap
}

// PlayerSnapshot reads one player's state; false if there is no such player.
func (s *SessionService) PlayerSnapshot(playerID int64) (PlayerSnapshot, bool) {
	p, ok := s.Player(playerID)
	if !ok {
		return PlayerSnapshot{}, false
	}
	return s.playerSnapshot(p), true
}

func (s *SessionService) playerSnapshot(p *PlayerSession) PlayerSnapshot {
	ps := PlayerSnapshot{
		ID:                p.ID,
		Hand:              p.Ledger.Hand(),
		OverflowRemaining: p.Ledger.OverflowRemaining(),
		Tickets:           p.Ledger.TicketCount(),
		FilledSlots:       p.Charge.FilledSlots(),
		MaxSlots:          p.Charge.MaxSlots(),
		Charge:            p.Charge.CurrentCharge(),
		Progress:          p.Charge.Progress(),
		ChargeMultiplier:  p.Charge.ChargeSpeedMultiplier(),
		Overheated:        p.Charge.IsOverheated(),
		OverheatRemaining: p.Charge.OverheatRemaining(),
		Immune:            s.isImmune(p),
		ImmunityRemaining: s.immunityRemaining(p),
	}
	if card, ok := p.Ledger.Overflow(); ok {
		ps.Overflow = &card
	}
	if p.Protection != nil {
		ps.HasProtection = true
		ps.Protected = p.Protection.IsProtected()
		ps.ProtectionRemaining = p.Protection.Remaining()
		ps.RecentPulls = p.Protection.RecentPullCount()
	}
	return ps
}
