package game

import (
	"fmt"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

// Registry owns one instance of every phase and locks exactly one of them
// per session. Locking again requires Reset.
type Registry struct {
	factory *Factory
	order   []domain.PhaseType
	phases  map[domain.PhaseType]Rules

	active Rules
}

// NewRegistry registers the four phases in draw order.
func NewRegistry(factory *Factory) *Registry {
	r := &Registry{
		factory: factory,
		phases:  make(map[domain.PhaseType]Rules, len(domain.AllPhaseTypes)),
	}
	for _, t := range domain.AllPhaseTypes {
		rules, err := factory.CreatePhase(t)
		if err != nil {
			panic(err)
		}
		r.order = append(r.order, t)
		r.phases[t] = rules
	}
	return r
}

// LockRandomPhase draws a phase by configured weight. Negative weights count
// as zero; when every weight is zero the draw is uniform.
func (r *Registry) LockRandomPhase() Rules {
	if r.active != nil {
		panic(fmt.Errorf("lock random phase: %w", ErrPhaseAlreadyLocked))
	}

	balance := r.factory.env.balance
	rnd := r.factory.env.rand

	total := 0
	for _, t := range r.order {
		total += max(balance.PhaseWeight(t), 0)
	}
	if total <= 0 {
		return r.LockPhase(r.order[rnd.IntN(len(r.order))])
	}

	roll := rnd.IntN(total)
	acc := 0
	for _, t := range r.order {
		acc += max(balance.PhaseWeight(t), 0)
		if roll < acc {
			return r.LockPhase(t)
		}
	}
	return r.LockPhase(r.order[len(r.order)-1])
}

// LockPhase locks a specific phase, for replays and tests.
func (r *Registry) LockPhase(t domain.PhaseType) Rules {
	if r.active != nil {
		panic(fmt.Errorf("lock %s: %w", t, ErrPhaseAlreadyLocked))
	}
	rules, ok := r.phases[t]
	if !ok {
		panic(fmt.Errorf("lock %q: %w", t, ErrUnknownPhase))
	}
	r.active = rules

	e := r.factory.env
	e.pub.Publish(events.Event{
		Kind:    events.KindPhaseLocked,
		At:      e.clock.Now(),
		Phase:   t,
		Message: rules.DisplayName(),
	})
	return rules
}

// Active returns the locked phase, if any.
func (r *Registry) Active() (Rules, bool) {
	return r.active, r.active != nil
}

func (r *Registry) IsLocked() bool {
	return r.active != nil
}

// Phase returns a registered phase without locking it.
func (r *Registry) Phase(t domain.PhaseType) (Rules, bool) {
	rules, ok := r.phases[t]
	return rules, ok
}

// Types lists registered phases in draw order.
func (r *Registry) Types() []domain.PhaseType {
	out := make([]domain.PhaseType, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Reset() {
	r.active = nil
}
