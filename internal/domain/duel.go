package domain

import "time"

// PhaseType - session-wide rule variant, locked once per session
type PhaseType string

const (
	PhaseDestinyGambit     PhaseType = "destiny_gambit"
	PhaseJoker             PhaseType = "joker"
	PhaseCeasefire         PhaseType = "ceasefire"
	PhaseInfiniteFirepower PhaseType = "infinite_firepower"
)

// AllPhaseTypes is the registration order used by the weighted phase draw.
var AllPhaseTypes = []PhaseType{
	PhaseDestinyGambit,
	PhaseJoker,
	PhaseCeasefire,
	PhaseInfiniteFirepower,
}

// Valid reports whether p names one of the four variants.
func (p PhaseType) Valid() bool {
	switch p {
	case PhaseDestinyGambit, PhaseJoker, PhaseCeasefire, PhaseInfiniteFirepower:
		return true
	}
	return false
}

// Outcome - duel result relative to the attacker
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

// DestinyMatch - which side's final card hit the destiny card
type DestinyMatch string

const (
	DestinyNone            DestinyMatch = "none"
	DestinyWinnerMatched   DestinyMatch = "winner_matched"
	DestinyDefenderMatched DestinyMatch = "defender_matched"
	DestinyLoserMatched    DestinyMatch = "loser_matched"
	DestinyBothMatchedDraw DestinyMatch = "both_matched_draw"
)

// FailReason - expected, recoverable reason a duel attempt was refused
type FailReason string

const (
	FailNone            FailReason = ""
	FailNeedTicket      FailReason = "need-ticket"
	FailSkillNotReady   FailReason = "skill-not-ready"
	FailWeaponOverheat  FailReason = "weapon-overheat"
	FailTargetImmune    FailReason = "target-immune"
	FailTargetProtected FailReason = "target-protected"
	FailDuelBusy        FailReason = "duel-busy"
	FailInvalidTarget   FailReason = "invalid-target"
	FailEmptyTicket     FailReason = "empty-ticket-queue"
	FailPhaseNotLocked  FailReason = "phase-not-locked"
	FailInvalidCard     FailReason = "invalid-card"
	FailCardNotPlayable FailReason = "card-not-playable"
)

// DuelResult - immutable record of one resolved duel
type DuelResult struct {
	AttackerID int64     `json:"attacker_id"`
	DefenderID int64     `json:"defender_id"`
	Phase      PhaseType `json:"phase"`

	// Cards as chosen, before any phase transformation
	OriginalAttackerCard CardType `json:"original_attacker_card"`
	OriginalDefenderCard CardType `json:"original_defender_card"`
	// Cards used for resolution
	AttackerCard CardType `json:"attacker_card"`
	DefenderCard CardType `json:"defender_card"`
	DestinyCard  CardType `json:"destiny_card"`

	Outcome      Outcome      `json:"outcome"`
	DestinyMatch DestinyMatch `json:"destiny_match"`

	RewardMultiplier  float64 `json:"reward_multiplier"`
	PenaltyMultiplier float64 `json:"penalty_multiplier"`

	CardsSwapped           bool          `json:"cards_swapped"`
	ScissorsConverted      bool          `json:"scissors_converted"`
	GhostProtectionGranted bool          `json:"ghost_protection_granted"`
	OverheatDuration       time.Duration `json:"overheat_duration"`
	ImmunityGranted        bool          `json:"immunity_granted"`
	IsShengTianBanZi       bool          `json:"is_sheng_tian_ban_zi"`

	PhaseEffect string `json:"phase_effect,omitempty"`
}

// WinnerID returns the winning player, or false on a draw.
func (r DuelResult) WinnerID() (int64, bool) {
	switch r.Outcome {
	case OutcomeWin:
		return r.AttackerID, true
	case OutcomeLose:
		return r.DefenderID, true
	}
	return 0, false
}

// LoserID returns the losing player, or false on a draw.
func (r DuelResult) LoserID() (int64, bool) {
	switch r.Outcome {
	case OutcomeWin:
		return r.DefenderID, true
	case OutcomeLose:
		return r.AttackerID, true
	}
	return 0, false
}

// CardOf returns the final card played by playerID.
func (r DuelResult) CardOf(playerID int64) CardType {
	if playerID == r.AttackerID {
		return r.AttackerCard
	}
	return r.DefenderCard
}
