package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/duel"
	"subspace_duel/internal/events"
	"subspace_duel/internal/game"
	"subspace_duel/internal/inventory"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/skill"
)

var (
	ErrSessionActive   = errors.New("session already active")
	ErrNoActiveSession = errors.New("no active session")
	ErrUnknownPlayer   = errors.New("player not in session")
	ErrInvalidPlayers  = errors.New("invalid player list")
)

// PlayerSession is everything one player owns during a session.
type PlayerSession struct {
	ID         int64
	Ledger     *inventory.Ledger
	Charge     *skill.ChargeTracker
	Protection *skill.ProtectionTracker

	immuneUntil time.Time
	immune      bool
}

func (p *PlayerSession) combatant() *duel.Combatant {
	return &duel.Combatant{ID: p.ID, Ledger: p.Ledger, Charge: p.Charge, Protection: p.Protection}
}

// SessionOptions wires a SessionService. Clock, Rand and Bus default to the
// real clock, a time-seeded source and a fresh bus.
type SessionOptions struct {
	Balance config.Balance
	Clock   clockwork.Clock
	Rand    game.Rand
	Bus     *events.Bus
	Logger  *slog.Logger
}

// SessionService coordinates one session at a time: it owns every player's
// state, locks the phase and guards duel execution.
type SessionService struct {
	balance config.Balance
	clock   clockwork.Clock
	rand    game.Rand
	bus     *events.Bus
	base    *slog.Logger
	log     *slog.Logger

	registry *game.Registry
	duels    *duel.Orchestrator

	id        string
	active    bool
	startedAt time.Time
	minter    *inventory.Minter
	players   map[int64]*PlayerSession
	order     []int64
	duelBusy  bool
	duelCount int
}

func NewSessionService(opts SessionOptions) *SessionService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = game.NewRand(uint64(time.Now().UnixNano()))
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	base := logger.OrDefault(opts.Logger)

	s := &SessionService{
		clock: opts.Clock,
		rand:  opts.Rand,
		bus:   opts.Bus,
		base:  base,
		log:   base.With("component", "session"),
	}
	s.applyBalance(opts.Balance)
	return s
}

func (s *SessionService) applyBalance(b config.Balance) {
	factory := game.NewFactory(b, s.rand, s.clock, s.bus)
	s.balance = b
	s.registry = game.NewRegistry(factory)
	s.duels = duel.NewOrchestrator(s.registry, s.rand, s.clock, s.bus, s.base)
}

// ReloadBalance swaps the tuning used by the next session. A running
// session keeps the values it started with, so this fails while one is active.
func (s *SessionService) ReloadBalance(b config.Balance) error {
	if s.active {
		return ErrSessionActive
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("reload balance: %w", err)
	}
	s.applyBalance(b)
	s.log.Info("balance reloaded", "balance_version", b.Version)
	return nil
}

// Subscribe adds an observer to the session's event bus.
func (s *SessionService) Subscribe(o events.Observer) (unsubscribe func()) {
	return s.bus.Subscribe(o)
}

// InitializeSession starts a session under a randomly drawn phase.
func (s *SessionService) InitializeSession(playerIDs []int64) (string, error) {
	return s.InitializeSessionWithPhase(playerIDs, "")
}

// InitializeSessionWithPhase starts a session. An empty phase draws one by weight.
func (s *SessionService) InitializeSessionWithPhase(playerIDs []int64, phase domain.PhaseType) (string, error) {
	if s.active {
		return "", ErrSessionActive
	}
	if phase != "" && !phase.Valid() {
		return "", fmt.Errorf("initialize session: %w: %s", game.ErrUnknownPhase, phase)
	}
	if err := validatePlayerIDs(playerIDs); err != nil {
		return "", fmt.Errorf("initialize session: %w", err)
	}

	s.registry.Reset()
	s.minter = inventory.NewMinter(s.clock)
	s.players = make(map[int64]*PlayerSession, len(playerIDs))
	s.order = append([]int64(nil), playerIDs...)
	s.duelBusy = false
	s.duelCount = 0

	for _, id := range playerIDs {
		s.players[id] = &PlayerSession{
			ID:     id,
			Ledger: inventory.NewLedger(id, s.balance.MaxHandSlots, s.balance.OverflowLifetime, s.clock, s.minter, s.bus),
			Charge: skill.NewChargeTracker(id, s.balance.MaxSkillSlots, s.balance.ChargePerSlot, s.clock, s.bus),
		}
	}

	var rules game.Rules
	if phase == "" {
		rules = s.registry.LockRandomPhase()
	} else {
		rules = s.registry.LockPhase(phase)
	}

	multiplier := rules.ChargeSpeedMultiplier()
	for _, id := range s.order {
		p := s.players[id]
		p.Charge.SetChargeSpeedMultiplier(multiplier)
		if rules.Type() == domain.PhaseInfiniteFirepower {
			p.Protection = skill.NewProtectionTracker(id, s.balance.GhostTriggerCount,
				s.balance.GhostCheckWindow, s.balance.GhostDuration, s.clock, s.bus)
		}
		s.dealInitialCards(p)
	}

	s.id = uuid.NewString()
	s.active = true
	s.startedAt = s.clock.Now()

	s.log.Info("session started", "session_id", s.id, "phase", rules.Type(),
		"players", len(s.order), "balance_version", s.balance.Version)
	s.publish(events.Event{
		Kind:    events.KindSessionStarted,
		Phase:   rules.Type(),
		Message: s.id,
		Players: append([]int64(nil), s.order...),
		Version: s.balance.Version,
	})
	return s.id, nil
}

// dealInitialCards gives one visible card of each face, as far as the hand
// holds them, plus the configured number of random dark cards.
func (s *SessionService) dealInitialCards(p *PlayerSession) {
	for i, t := range domain.AllCardTypes {
		if i >= p.Ledger.Capacity() {
			break
		}
		p.Ledger.AddCard(t, false)
	}
	for i := 0; i < s.balance.InitialDarkCards; i++ {
		p.Ledger.AddCard(game.DrawDestiny(s.rand), true)
	}
}

func validatePlayerIDs(ids []int64) error {
	if len(ids) < 2 {
		return fmt.Errorf("%w: need at least two players, got %d", ErrInvalidPlayers, len(ids))
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: player id %d must be positive", ErrInvalidPlayers, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate player %d", ErrInvalidPlayers, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// TryInitiateDuel checks session-level preconditions and runs the duel.
// On success the defender becomes immune and, if the phase asks for it,
// the attacker overheats.
func (s *SessionService) TryInitiateDuel(attackerID, defenderID int64, attackerCard, defenderCard domain.CardType) (domain.DuelResult, domain.FailReason) {
	s.requireActive()

	if s.duelBusy {
		return s.reject(attackerID, defenderID, domain.FailDuelBusy)
	}
	if attackerID == defenderID {
		return s.reject(attackerID, defenderID, domain.FailInvalidTarget)
	}
	attacker := s.mustPlayer(attackerID)
	defender := s.mustPlayer(defenderID)

	if reason := s.duels.ValidateAttacker(attacker.combatant()); reason != domain.FailNone {
		return s.reject(attackerID, defenderID, reason)
	}
	for _, card := range []domain.CardType{attackerCard, defenderCard} {
		if reason := s.duels.ValidateCard(card); reason != domain.FailNone {
			return s.reject(attackerID, defenderID, reason)
		}
	}
	if s.isImmune(defender) {
		return s.reject(attackerID, defenderID, domain.FailTargetImmune)
	}
	if defender.Protection != nil && defender.Protection.IsProtected() {
		return s.reject(attackerID, defenderID, domain.FailTargetProtected)
	}

	s.duelBusy = true
	defer func() { s.duelBusy = false }()

	s.publish(events.Event{Kind: events.KindDuelInitiated, PlayerID: attackerID, TargetID: defenderID})

	attacker.Ledger.ClearOverflow()
	defender.Ledger.ClearOverflow()

	result, reason := s.duels.Execute(duel.Request{
		Attacker:     attacker.combatant(),
		Defender:     defender.combatant(),
		AttackerCard: attackerCard,
		DefenderCard: defenderCard,
	})
	if reason != domain.FailNone {
		return s.reject(attackerID, defenderID, reason)
	}
	s.duelCount++

	s.grantImmunity(defender)
	result.ImmunityGranted = true
	if result.OverheatDuration > 0 {
		attacker.Charge.StartOverheat(result.OverheatDuration)
	}
	return result, domain.FailNone
}

func (s *SessionService) reject(attackerID, defenderID int64, reason domain.FailReason) (domain.DuelResult, domain.FailReason) {
	s.log.Info("duel attempt refused", "attacker", attackerID, "defender", defenderID, "reason", reason)
	s.publish(events.Event{
		Kind:     events.KindDuelValidationFailed,
		PlayerID: attackerID,
		TargetID: defenderID,
		Reason:   reason,
	})
	return domain.DuelResult{}, reason
}

func (s *SessionService) grantImmunity(p *PlayerSession) {
	p.immune = true
	p.immuneUntil = s.clock.Now().Add(s.balance.ImmunityDuration)
	s.publish(events.Event{Kind: events.KindImmunityGranted, PlayerID: p.ID, Duration: s.balance.ImmunityDuration})
}

// IsImmune reports whether the player is still inside a post-duel immunity window.
func (s *SessionService) IsImmune(playerID int64) bool {
	s.requireActive()
	return s.isImmune(s.mustPlayer(playerID))
}

func (s *SessionService) isImmune(p *PlayerSession) bool {
	if !p.immune {
		return false
	}
	if s.clock.Now().Before(p.immuneUntil) {
		return true
	}
	p.immune = false
	p.immuneUntil = time.Time{}
	s.publish(events.Event{Kind: events.KindImmunityExpired, PlayerID: p.ID})
	return false
}

func (s *SessionService) immunityRemaining(p *PlayerSession) time.Duration {
	if !s.isImmune(p) {
		return 0
	}
	return p.immuneUntil.Sub(s.clock.Now())
}

// HandleDrift feeds drift charge into the player's skill bar.
func (s *SessionService) HandleDrift(playerID int64, amount float64) (full bool) {
	s.requireActive()
	p := s.mustPlayer(playerID)
	p.Charge.AddCharge(amount)
	s.publish(events.Event{Kind: events.KindDriftCharge, PlayerID: playerID, Amount: amount, Slots: p.Charge.FilledSlots()})
	return p.Charge.IsFull()
}

func (s *SessionService) AddCard(playerID int64, t domain.CardType, dark bool) (domain.Card, inventory.Placement) {
	s.requireActive()
	return s.mustPlayer(playerID).Ledger.AddCard(t, dark)
}

func (s *SessionService) ReplaceSlot(playerID int64, index int) (domain.Card, bool) {
	s.requireActive()
	return s.mustPlayer(playerID).Ledger.ReplaceSlotWithOverflow(index)
}

// PollExpirations reads every lazy timer so that expiry events fire without
// waiting for gameplay to touch them. It is a no-op between sessions.
func (s *SessionService) PollExpirations() {
	if !s.active {
		return
	}
	for _, id := range s.order {
		p := s.players[id]
		s.isImmune(p)
		p.Charge.IsOverheated()
		p.Ledger.HasOverflow()
		if p.Protection != nil {
			p.Protection.IsProtected()
		}
	}
}

// EndSession tears down all player state and unlocks the phase.
func (s *SessionService) EndSession() {
	s.requireActive()
	phase, _ := s.registry.Active()

	s.log.Info("session ended", "session_id", s.id, "duels", s.duelCount)
	s.publish(events.Event{Kind: events.KindSessionEnded, Phase: phase.Type(), Message: s.id})

	s.active = false
	s.players = nil
	s.order = nil
	s.minter = nil
	s.registry.Reset()
}

func (s *SessionService) Active() bool { return s.active }

func (s *SessionService) SessionID() string { return s.id }

func (s *SessionService) Balance() config.Balance { return s.balance }

// Phase returns the locked phase of the active session.
func (s *SessionService) Phase() (domain.PhaseType, bool) {
	if !s.active {
		return "", false
	}
	rules, ok := s.registry.Active()
	if !ok {
		return "", false
	}
	return rules.Type(), true
}

// HasPlayer lets callers check an id before calling methods that panic on it.
func (s *SessionService) HasPlayer(playerID int64) bool {
	if !s.active {
		return false
	}
	_, ok := s.players[playerID]
	return ok
}

func (s *SessionService) Player(playerID int64) (*PlayerSession, bool) {
	if !s.active {
		return nil, false
	}
	p, ok := s.players[playerID]
	return p, ok
}

func (s *SessionService) requireActive() {
	if !s.active {
		panic(ErrNoActiveSession)
	}
}

func (s *SessionService) mustPlayer(id int64) *PlayerSession {
	p, ok := s.players[id]
	if !ok {
		panic(fmt.Errorf("player %d: %w", id, ErrUnknownPlayer))
	}
	return p
}

func (s *SessionService) publish(e events.Event) {
	e.At = s.clock.Now()
	s.bus.Publish(e)
}
