package inventory

import (
	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/domain"
)

// Minter hands out card ids for one session. Ids are monotonic so that two
// cards created within the same clock tick still order deterministically.
type Minter struct {
	clock clockwork.Clock
	next  int64
}

func NewMinter(clock clockwork.Clock) *Minter {
	return &Minter{clock: clock}
}

func (m *Minter) Mint(t domain.CardType, dark bool) domain.Card {
	m.next++
	return domain.Card{
		ID:        m.next,
		Type:      t,
		Dark:      dark,
		CreatedAt: m.clock.Now(),
	}
}

// Minted returns how many cards have been issued.
func (m *Minter) Minted() int64 {
	return m.next
}
