package game

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

type Factory struct {
	env env
}

func NewFactory(balance config.Balance, r Rand, clock clockwork.Clock, pub events.Publisher) *Factory {
	if pub == nil {
		pub = events.Discard
	}
	return &Factory{env: env{balance: balance, rand: r, clock: clock, pub: pub}}
}

func (f *Factory) CreatePhase(phase domain.PhaseType) (Rules, error) {
	switch phase {
	case domain.PhaseDestinyGambit:
		return &DestinyGambit{env: f.env}, nil
	case domain.PhaseJoker:
		return &Joker{env: f.env}, nil
	case domain.PhaseCeasefire:
		return &Ceasefire{env: f.env}, nil
	case domain.PhaseInfiniteFirepower:
		return &InfiniteFirepower{env: f.env}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
}

// Balance is the configuration every created phase reads.
func (f *Factory) Balance() config.Balance {
	return f.env.balance
}
