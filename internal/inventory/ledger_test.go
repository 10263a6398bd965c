package inventory

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *clockwork.FakeClock, *events.Recorder) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)
	return NewLedger(7, 2, 4*time.Second, clock, NewMinter(clock), bus), clock, rec
}

func TestAddCardPlacement(t *testing.T) {
	l, _, rec := newTestLedger(t)

	cases := []struct {
		card domain.CardType
		dark bool
		want Placement
	}{
		{domain.CardRock, false, PlacedHand},
		{domain.CardPaper, true, PlacedDarkQueue},
		{domain.CardPaper, false, PlacedHand},
		{domain.CardScissors, false, PlacedOverflow},
		{domain.CardRock, false, PlacedOverflow},
	}
	for i, tc := range cases {
		if _, got := l.AddCard(tc.card, tc.dark); got != tc.want {
			t.Fatalf("case %d: placement = %s; want %s", i, got, tc.want)
		}
	}

	if len(l.Hand()) != 2 {
		t.Fatalf("hand size = %d; want 2", len(l.Hand()))
	}
	if l.TicketCount() != 1 {
		t.Fatalf("tickets = %d; want 1", l.TicketCount())
	}
	over, ok := l.Overflow()
	if !ok || over.Type != domain.CardRock {
		t.Fatalf("overflow = %v, %v; want the latest rock", over, ok)
	}
	for _, c := range l.Hand() {
		if c.Dark {
			t.Fatalf("dark card %v landed in hand", c)
		}
	}
	if n := len(rec.OfKind(events.KindCardAdded)); n != 5 {
		t.Fatalf("card_added events = %d; want 5", n)
	}
}

func TestConsumeTicketFIFO(t *testing.T) {
	l, clock, rec := newTestLedger(t)

	var ids []int64
	for _, ct := range []domain.CardType{domain.CardPaper, domain.CardRock, domain.CardRock, domain.CardScissors} {
		c, _ := l.AddCard(ct, true)
		ids = append(ids, c.ID)
		clock.Advance(time.Millisecond)
	}

	for i, want := range ids {
		before := l.TicketCount()
		got, reason := l.ConsumeTicket()
		if reason != domain.FailNone {
			t.Fatalf("consume %d: reason %q", i, reason)
		}
		if got.ID != want {
			t.Fatalf("consume %d: id = %d; want %d", i, got.ID, want)
		}
		if l.TicketCount() != before-1 {
			t.Fatalf("consume %d: count %d -> %d", i, before, l.TicketCount())
		}
	}

	if _, reason := l.ConsumeTicket(); reason != domain.FailEmptyTicket {
		t.Fatalf("empty queue reason = %q; want %q", reason, domain.FailEmptyTicket)
	}
	if n := len(rec.OfKind(events.KindTicketConsumed)); n != len(ids) {
		t.Fatalf("ticket_consumed events = %d; want %d", n, len(ids))
	}
}

func TestOverflowExpiresLazily(t *testing.T) {
	l, clock, rec := newTestLedger(t)
	l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardPaper, false)
	l.AddCard(domain.CardScissors, false)

	clock.Advance(4*time.Second - time.Millisecond)
	if !l.HasOverflow() {
		t.Fatal("overflow expired early")
	}
	if rem := l.OverflowRemaining(); rem != time.Millisecond {
		t.Fatalf("remaining = %v; want 1ms", rem)
	}

	clock.Advance(2 * time.Millisecond)
	if l.HasOverflow() {
		t.Fatal("overflow still present after lifetime")
	}
	if n := len(rec.OfKind(events.KindOverflowExpired)); n != 1 {
		t.Fatalf("overflow_expired events = %d; want 1", n)
	}
	l.HasOverflow()
	if n := len(rec.OfKind(events.KindOverflowExpired)); n != 1 {
		t.Fatalf("expiry published twice")
	}
}

func TestOverflowOverwriteRestartsLifetime(t *testing.T) {
	l, clock, _ := newTestLedger(t)
	l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardPaper, false)

	clock.Advance(3 * time.Second)
	l.AddCard(domain.CardScissors, false)
	clock.Advance(3 * time.Second)

	over, ok := l.Overflow()
	if !ok || over.Type != domain.CardScissors {
		t.Fatalf("overflow = %v, %v; want scissors still pending", over, ok)
	}
}

func TestReplaceSlotWithOverflow(t *testing.T) {
	l, _, _ := newTestLedger(t)
	first, _ := l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardPaper, false)

	if _, ok := l.ReplaceSlotWithOverflow(0); ok {
		t.Fatal("replace without overflow should be a no-op")
	}

	pending, _ := l.AddCard(domain.CardScissors, false)

	for _, bad := range []int{-1, 2} {
		if _, ok := l.ReplaceSlotWithOverflow(bad); ok {
			t.Fatalf("replace at %d should be a no-op", bad)
		}
	}
	if !l.HasOverflow() {
		t.Fatal("invalid replace consumed the overflow")
	}

	displaced, ok := l.ReplaceSlotWithOverflow(0)
	if !ok || displaced.ID != first.ID {
		t.Fatalf("displaced = %v, %v; want %v", displaced, ok, first)
	}
	if got := l.Hand()[0]; got.ID != pending.ID {
		t.Fatalf("slot 0 = %v; want %v", got, pending)
	}
	if l.HasOverflow() {
		t.Fatal("overflow should be empty after replace")
	}
}

func TestClearOverflow(t *testing.T) {
	l, _, rec := newTestLedger(t)
	l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardRock, false)
	l.AddCard(domain.CardRock, false)

	l.ClearOverflow()
	if l.HasOverflow() {
		t.Fatal("overflow survived ClearOverflow")
	}
	if n := len(rec.OfKind(events.KindOverflowExpired)); n != 0 {
		t.Fatalf("clear should not publish expiry, got %d", n)
	}
}

func TestMinterIsMonotonic(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	m := NewMinter(clock)
	a := m.Mint(domain.CardRock, false)
	b := m.Mint(domain.CardRock, false)
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}
	if !a.CreatedAt.Equal(epoch) {
		t.Fatalf("created at %v; want %v", a.CreatedAt, epoch)
	}
	if m.Minted() != 2 {
		t.Fatalf("minted = %d; want 2", m.Minted())
	}
}
