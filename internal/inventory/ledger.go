package inventory

import (
	"time"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

// Placement tells where AddCard put a card.
type Placement string

const (
	PlacedHand      Placement = "hand"
	PlacedOverflow  Placement = "overflow"
	PlacedDarkQueue Placement = "dark_queue"
)

// Ledger holds one player's cards: a bounded hand, a single overflow slot
// with a lifetime, and a FIFO queue of dark cards used as duel tickets.
// A card lives in exactly one of the three places.
type Ledger struct {
	playerID int64
	capacity int
	lifetime time.Duration

	clock  clockwork.Clock
	minter *Minter
	pub    events.Publisher

	hand       []domain.Card
	overflow   *domain.Card
	overflowAt time.Time
	dark       []domain.Card
}

func NewLedger(playerID int64, capacity int, lifetime time.Duration, clock clockwork.Clock, minter *Minter, pub events.Publisher) *Ledger {
	if pub == nil {
		pub = events.Discard
	}
	return &Ledger{
		playerID: playerID,
		capacity: capacity,
		lifetime: lifetime,
		clock:    clock,
		minter:   minter,
		pub:      pub,
		hand:     make([]domain.Card, 0, capacity),
	}
}

// AddCard mints a card and stores it. Dark cards always go to the queue.
// Visible cards fill the hand first; once it is full they overwrite the
// overflow slot and restart its lifetime.
func (l *Ledger) AddCard(t domain.CardType, dark bool) (domain.Card, Placement) {
	card := l.minter.Mint(t, dark)

	var placed Placement
	switch {
	case dark:
		l.dark = append(l.dark, card)
		placed = PlacedDarkQueue
	case len(l.hand) < l.capacity:
		l.hand = append(l.hand, card)
		placed = PlacedHand
	default:
		l.overflow = &card
		l.overflowAt = l.clock.Now()
		placed = PlacedOverflow
	}

	l.publish(events.Event{Kind: events.KindCardAdded, Card: &card, Message: string(placed)})
	return card, placed
}

// ConsumeTicket dequeues the oldest dark card. The card is discarded.
func (l *Ledger) ConsumeTicket() (domain.Card, domain.FailReason) {
	if len(l.dark) == 0 {
		return domain.Card{}, domain.FailEmptyTicket
	}
	card := l.dark[0]
	l.dark[0] = domain.Card{}
	l.dark = l.dark[1:]

	l.publish(events.Event{Kind: events.KindTicketConsumed, Card: &card, Slots: len(l.dark)})
	return card, domain.FailNone
}

// ReplaceSlotWithOverflow moves the pending overflow card into hand slot
// index and returns the card it displaced. It does nothing and returns
// false when there is no overflow or the index is out of range.
func (l *Ledger) ReplaceSlotWithOverflow(index int) (domain.Card, bool) {
	if !l.HasOverflow() || index < 0 || index >= len(l.hand) {
		return domain.Card{}, false
	}
	displaced := l.hand[index]
	l.hand[index] = *l.overflow
	l.overflow = nil
	l.overflowAt = time.Time{}
	return displaced, true
}

// ClearOverflow drops any pending overflow card without an expiry event.
func (l *Ledger) ClearOverflow() {
	l.overflow = nil
	l.overflowAt = time.Time{}
}

func (l *Ledger) HasOverflow() bool {
	l.expireOverflow()
	return l.overflow != nil
}

func (l *Ledger) Overflow() (domain.Card, bool) {
	l.expireOverflow()
	if l.overflow == nil {
		return domain.Card{}, false
	}
	return *l.overflow, true
}

// OverflowRemaining is the time left before the overflow card expires.
func (l *Ledger) OverflowRemaining() time.Duration {
	l.expireOverflow()
	if l.overflow == nil {
		return 0
	}
	return l.lifetime - l.clock.Since(l.overflowAt)
}

func (l *Ledger) expireOverflow() {
	if l.overflow == nil {
		return
	}
	if l.clock.Since(l.overflowAt) < l.lifetime {
		return
	}
	expired := *l.overflow
	l.overflow = nil
	l.overflowAt = time.Time{}
	l.publish(events.Event{Kind: events.KindOverflowExpired, Card: &expired})
}

// Hand returns a copy of the visible hand in slot order.
func (l *Ledger) Hand() []domain.Card {
	out := make([]domain.Card, len(l.hand))
	copy(out, l.hand)
	return out
}

func (l *Ledger) Capacity() int { return l.capacity }

func (l *Ledger) TicketCount() int { return len(l.dark) }

func (l *Ledger) HasTicket() bool { return len(l.dark) > 0 }

// PeekTicket returns the card ConsumeTicket would dequeue next.
func (l *Ledger) PeekTicket() (domain.Card, bool) {
	if len(l.dark) == 0 {
		return domain.Card{}, false
	}
	return l.dark[0], true
}

// Tickets returns a copy of the dark queue, oldest first.
func (l *Ledger) Tickets() []domain.Card {
	out := make([]domain.Card, len(l.dark))
	copy(out, l.dark)
	return out
}

func (l *Ledger) publish(e events.Event) {
	e.At = l.clock.Now()
	e.PlayerID = l.playerID
	l.pub.Publish(e)
}
