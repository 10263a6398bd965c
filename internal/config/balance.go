package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"subspace_duel/internal/domain"
)

// Balance holds every tunable rule knob. A session captures one Balance value at
// construction; reloading means building a new session from a new value.
type Balance struct {
	// Version is bumped on every reload so diagnostics can confirm new values are live.
	Version int `json:"version"`

	// Core
	MaxSkillSlots    int           `json:"max_skill_slots"`
	ChargePerSlot    float64       `json:"charge_per_slot"`
	MaxHandSlots     int           `json:"max_hand_slots"`
	OverflowLifetime time.Duration `json:"overflow_lifetime"`
	ImmunityDuration time.Duration `json:"immunity_duration"`
	InitialDarkCards int           `json:"initial_dark_cards"`

	// Phase weights, need not sum to 100
	CasinoWeight   int `json:"casino_weight"`
	JesterWeight   int `json:"jester_weight"`
	PeaceWeight    int `json:"peace_weight"`
	OverloadWeight int `json:"overload_weight"`

	// DestinyGambit (casino)
	CritMultiplier          float64 `json:"crit_multiplier"`
	CounterMultiplier       float64 `json:"counter_multiplier"`
	ConquerHeavenMultiplier float64 `json:"conquer_heaven_multiplier"`

	// Joker (jester)
	JesterTriggerChance float64 `json:"jester_trigger_chance"`

	// InfiniteFirepower (overload)
	OverloadChargeMultiplier float64       `json:"overload_charge_multiplier"`
	AttackerOverheatTime     time.Duration `json:"attacker_overheat_time"`
	GhostTriggerCount        int           `json:"ghost_trigger_count"`
	GhostCheckWindow         time.Duration `json:"ghost_check_window"`
	GhostDuration            time.Duration `json:"ghost_duration"`
	GhostPenaltyReduction    float64       `json:"ghost_penalty_reduction"`
}

// DefaultBalance returns the shipped tuning, version 1.
func DefaultBalance() Balance {
	return Balance{
		Version:          1,
		MaxSkillSlots:    3,
		ChargePerSlot:    100,
		MaxHandSlots:     2,
		OverflowLifetime: 4 * time.Second,
		ImmunityDuration: 7 * time.Second,
		InitialDarkCards: 2,

		CasinoWeight:   50,
		JesterWeight:   15,
		PeaceWeight:    20,
		OverloadWeight: 15,

		CritMultiplier:          1.5,
		CounterMultiplier:       1.5,
		ConquerHeavenMultiplier: 1.3,

		JesterTriggerChance: 0.20,

		OverloadChargeMultiplier: 2.5,
		AttackerOverheatTime:     5 * time.Second,
		GhostTriggerCount:        3,
		GhostCheckWindow:         45 * time.Second,
		GhostDuration:            20 * time.Second,
		GhostPenaltyReduction:    0.5,
	}
}

// LoadBalance overlays environment overrides on DefaultBalance.
func LoadBalance() Balance {
	b := DefaultBalance()

	b.MaxSkillSlots = envInt("MAX_SKILL_SLOTS", b.MaxSkillSlots)
	b.ChargePerSlot = envFloat("CHARGE_PER_SLOT", b.ChargePerSlot)
	b.MaxHandSlots = envInt("MAX_HAND_SLOTS", b.MaxHandSlots)
	b.OverflowLifetime = envSeconds("OVERFLOW_LIFETIME", b.OverflowLifetime.Seconds())
	b.ImmunityDuration = envSeconds("IMMUNITY_DURATION", b.ImmunityDuration.Seconds())
	b.InitialDarkCards = envInt("INITIAL_DARK_CARDS", b.InitialDarkCards)

	b.CasinoWeight = envInt("CASINO_WEIGHT", b.CasinoWeight)
	b.JesterWeight = envInt("JESTER_WEIGHT", b.JesterWeight)
	b.PeaceWeight = envInt("PEACE_WEIGHT", b.PeaceWeight)
	b.OverloadWeight = envInt("OVERLOAD_WEIGHT", b.OverloadWeight)

	b.CritMultiplier = envFloat("CRIT_MULTIPLIER", b.CritMultiplier)
	b.CounterMultiplier = envFloat("COUNTER_MULTIPLIER", b.CounterMultiplier)
	b.ConquerHeavenMultiplier = envFloat("CONQUER_HEAVEN_MULTIPLIER", b.ConquerHeavenMultiplier)

	b.JesterTriggerChance = envFloat("JESTER_TRIGGER_CHANCE", b.JesterTriggerChance)

	b.OverloadChargeMultiplier = envFloat("OVERLOAD_CHARGE_MULTIPLIER", b.OverloadChargeMultiplier)
	b.AttackerOverheatTime = envSeconds("ATTACKER_OVERHEAT_TIME", b.AttackerOverheatTime.Seconds())
	b.GhostTriggerCount = envInt("GHOST_TRIGGER_COUNT", b.GhostTriggerCount)
	b.GhostCheckWindow = envSeconds("GHOST_CHECK_WINDOW", b.GhostCheckWindow.Seconds())
	b.GhostDuration = envSeconds("GHOST_DURATION", b.GhostDuration.Seconds())
	b.GhostPenaltyReduction = envFloat("GHOST_PENALTY_REDUCTION", b.GhostPenaltyReduction)

	return b
}

// Reloaded re-reads .env, letting it override the process environment,
// then the environment, and returns the result with Version+1.
func (b Balance) Reloaded() Balance {
	_ = godotenv.Overload()
	next := LoadBalance()
	next.Version = b.Version + 1
	return next
}

// PhaseWeight returns the configured draw weight for phase.
func (b Balance) PhaseWeight(phase domain.PhaseType) int {
	switch phase {
	case domain.PhaseDestinyGambit:
		return b.CasinoWeight
	case domain.PhaseJoker:
		return b.JesterWeight
	case domain.PhaseCeasefire:
		return b.PeaceWeight
	case domain.PhaseInfiniteFirepower:
		return b.OverloadWeight
	}
	return 0
}

var ErrInvalidBalance = errors.New("invalid balance config")

// Validate rejects values the engine cannot run with.
func (b Balance) Validate() error {
	switch {
	case b.MaxSkillSlots < 1:
		return fmt.Errorf("%w: max skill slots %d", ErrInvalidBalance, b.MaxSkillSlots)
	case b.ChargePerSlot <= 0:
		return fmt.Errorf("%w: charge per slot %v", ErrInvalidBalance, b.ChargePerSlot)
	case b.MaxHandSlots < 1:
		return fmt.Errorf("%w: max hand slots %d", ErrInvalidBalance, b.MaxHandSlots)
	case b.InitialDarkCards < 0:
		return fmt.Errorf("%w: initial dark cards %d", ErrInvalidBalance, b.InitialDarkCards)
	case b.JesterTriggerChance < 0 || b.JesterTriggerChance > 1:
		return fmt.Errorf("%w: jester trigger chance %v", ErrInvalidBalance, b.JesterTriggerChance)
	case b.CritMultiplier <= 0, b.CounterMultiplier <= 0, b.ConquerHeavenMultiplier <= 0:
		return fmt.Errorf("%w: destiny multipliers must be positive", ErrInvalidBalance)
	case b.OverloadChargeMultiplier <= 1:
		return fmt.Errorf("%w: overload charge multiplier %v", ErrInvalidBalance, b.OverloadChargeMultiplier)
	case b.GhostPenaltyReduction <= 0 || b.GhostPenaltyReduction > 1:
		return fmt.Errorf("%w: ghost penalty reduction %v", ErrInvalidBalance, b.GhostPenaltyReduction)
	case b.GhostTriggerCount < 1:
		return fmt.Errorf("%w: ghost trigger count %d", ErrInvalidBalance, b.GhostTriggerCount)
	case b.OverflowLifetime < 0, b.ImmunityDuration < 0, b.AttackerOverheatTime < 0,
		b.GhostCheckWindow < 0, b.GhostDuration < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidBalance)
	}
	return nil
}
