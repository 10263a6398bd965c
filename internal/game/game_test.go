package game

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/events"
)

// scriptedRand replays fixed values; an exhausted script yields zero.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func newFactory(r Rand) (*Factory, *events.Recorder) {
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewFactory(config.DefaultBalance(), r, clock, bus), rec
}

func mustPhase(t *testing.T, f *Factory, p domain.PhaseType) Rules {
	t.Helper()
	rules, err := f.CreatePhase(p)
	if err != nil {
		t.Fatalf("CreatePhase(%s): %v", p, err)
	}
	return rules
}

func TestResolveCanonical(t *testing.T) {
	r, s, p := domain.CardRock, domain.CardScissors, domain.CardPaper
	cases := []struct {
		a, b domain.CardType
		want domain.Outcome
	}{
		{r, s, domain.OutcomeWin},
		{s, p, domain.OutcomeWin},
		{p, r, domain.OutcomeWin},
		{s, r, domain.OutcomeLose},
		{p, s, domain.OutcomeLose},
		{r, p, domain.OutcomeLose},
		{r, r, domain.OutcomeDraw},
		{s, s, domain.OutcomeDraw},
		{p, p, domain.OutcomeDraw},
	}
	for _, tc := range cases {
		if got := Resolve(tc.a, tc.b); got != tc.want {
			t.Errorf("Resolve(%s, %s) = %s; want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMatchDestinyPriority(t *testing.T) {
	r, s, p := domain.CardRock, domain.CardScissors, domain.CardPaper
	cases := []struct {
		name    string
		outcome domain.Outcome
		a, b, d domain.CardType
		want    domain.DestinyMatch
	}{
		{"attacker wins on destiny", domain.OutcomeWin, r, s, r, domain.DestinyWinnerMatched},
		{"defender loses on destiny", domain.OutcomeWin, r, s, s, domain.DestinyDefenderMatched},
		{"defender wins on destiny", domain.OutcomeLose, s, r, r, domain.DestinyWinnerMatched},
		{"attacker loses on destiny", domain.OutcomeLose, s, r, s, domain.DestinyLoserMatched},
		{"nobody on destiny", domain.OutcomeWin, r, s, p, domain.DestinyNone},
		{"draw never matches", domain.OutcomeDraw, r, r, r, domain.DestinyNone},
	}
	for _, tc := range cases {
		if got := matchDestiny(tc.outcome, tc.a, tc.b, tc.d); got != tc.want {
			t.Errorf("%s: got %s; want %s", tc.name, got, tc.want)
		}
	}
}

func TestDestinyGambitCrit(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	g := mustPhase(t, f, domain.PhaseDestinyGambit)

	outcome := g.ResolveDuel(domain.CardRock, domain.CardScissors)
	match := g.ResolveDestinyMatch(outcome, domain.CardRock, domain.CardScissors, domain.CardRock)
	reward, penalty := g.CalculateMultipliers(match)

	if outcome != domain.OutcomeWin || match != domain.DestinyWinnerMatched {
		t.Fatalf("outcome=%s match=%s", outcome, match)
	}
	if reward != config.DefaultBalance().CritMultiplier || penalty != 1.0 {
		t.Fatalf("reward=%v penalty=%v", reward, penalty)
	}
}

func TestBothMatchedDrawOnlyOnTripleMatch(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	g := mustPhase(t, f, domain.PhaseDestinyGambit)

	for _, a := range domain.AllCardTypes {
		for _, b := range domain.AllCardTypes {
			for _, d := range domain.AllCardTypes {
				outcome := g.ResolveDuel(a, b)
				match := g.ResolveDestinyMatch(outcome, a, b, d)
				want := outcome == domain.OutcomeDraw && a == d && b == d
				if (match == domain.DestinyBothMatchedDraw) != want {
					t.Errorf("%s vs %s destiny %s: match %s", a, b, d, match)
				}
			}
		}
	}

	// fixed, not rolled
	for i := 0; i < 3; i++ {
		reward, penalty := g.CalculateMultipliers(domain.DestinyBothMatchedDraw)
		if reward != 1.3 || penalty != 1.0 {
			t.Fatalf("conquer heaven multipliers = %v/%v", reward, penalty)
		}
	}
}

func TestOtherPhasesNeverConquerHeaven(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	for _, p := range []domain.PhaseType{domain.PhaseJoker, domain.PhaseCeasefire, domain.PhaseInfiniteFirepower} {
		rules := mustPhase(t, f, p)
		if m := rules.ResolveDestinyMatch(domain.OutcomeDraw, domain.CardRock, domain.CardRock, domain.CardRock); m != domain.DestinyNone {
			t.Errorf("%s: draw classified as %s", p, m)
		}
	}
}

func TestJokerSwap(t *testing.T) {
	cases := []struct {
		roll     float64
		swapped  bool
		attacker domain.CardType
	}{
		{0.05, true, domain.CardPaper},
		{0.1999, true, domain.CardPaper},
		{0.2, false, domain.CardRock},
		{0.9, false, domain.CardRock},
	}
	for _, tc := range cases {
		f, rec := newFactory(&scriptedRand{floats: []float64{tc.roll}})
		j := mustPhase(t, f, domain.PhaseJoker)
		a, _, swapped := j.PreDuelModify(domain.CardRock, domain.CardPaper)
		if swapped != tc.swapped || a != tc.attacker {
			t.Errorf("roll %v: swapped=%v attacker=%s", tc.roll, swapped, a)
		}
		if n := len(rec.OfKind(events.KindPhaseRuleTriggered)); (n == 1) != tc.swapped {
			t.Errorf("roll %v: rule events = %d", tc.roll, n)
		}
	}
}

func TestCeasefire(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	c := mustPhase(t, f, domain.PhaseCeasefire)

	if !c.IsCardPlayable(domain.CardScissors) {
		t.Fatal("scissors must stay selectable")
	}

	a, d, swapped := c.PreDuelModify(domain.CardScissors, domain.CardPaper)
	if a != domain.CardRock || d != domain.CardPaper || swapped {
		t.Fatalf("modify = %s, %s, %v", a, d, swapped)
	}
	if got := c.ResolveDuel(a, d); got != domain.OutcomeWin {
		t.Fatalf("rock vs paper = %s; want win", got)
	}

	a, d, _ = c.PreDuelModify(domain.CardScissors, domain.CardScissors)
	if a != domain.CardRock || d != domain.CardRock {
		t.Fatalf("double conversion = %s, %s", a, d)
	}

	cases := []struct {
		a, b domain.CardType
		want domain.Outcome
	}{
		{domain.CardPaper, domain.CardRock, domain.OutcomeLose},
		{domain.CardRock, domain.CardRock, domain.OutcomeDraw},
		{domain.CardScissors, domain.CardPaper, domain.OutcomeWin},
		{domain.CardRock, domain.CardScissors, domain.OutcomeWin},
	}
	for _, tc := range cases {
		if got := c.ResolveDuel(tc.a, tc.b); got != tc.want {
			t.Errorf("ceasefire %s vs %s = %s; want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestInfiniteFirepower(t *testing.T) {
	f, rec := newFactory(&scriptedRand{})
	p := mustPhase(t, f, domain.PhaseInfiniteFirepower)

	if p.ChargeSpeedMultiplier() != 2.5 {
		t.Fatalf("charge multiplier = %v", p.ChargeSpeedMultiplier())
	}
	_, penalty := p.CalculateMultipliers(domain.DestinyDefenderMatched)
	if math.Abs(penalty-0.75) > 1e-9 {
		t.Fatalf("penalty = %v; want 0.75", penalty)
	}
	_, penalty = p.CalculateMultipliers(domain.DestinyNone)
	if penalty != 0.5 {
		t.Fatalf("base penalty = %v; want 0.5", penalty)
	}

	var res domain.DuelResult
	p.PostDuelEffect(&res)
	if res.OverheatDuration != 5*time.Second {
		t.Fatalf("overheat = %v", res.OverheatDuration)
	}
	if res.PhaseEffect == "" || len(rec.OfKind(events.KindPhaseRuleTriggered)) != 1 {
		t.Fatal("post duel effect not described")
	}
}

func TestFactoryUnknownPhase(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	if _, err := f.CreatePhase("sudden_death"); !errors.Is(err, ErrUnknownPhase) {
		t.Fatalf("err = %v; want ErrUnknownPhase", err)
	}
}

func TestRegistryLockTwicePanics(t *testing.T) {
	f, _ := newFactory(&scriptedRand{})
	reg := NewRegistry(f)
	reg.LockPhase(domain.PhaseJoker)

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrPhaseAlreadyLocked) {
			t.Fatalf("recovered %v; want ErrPhaseAlreadyLocked", rec)
		}
		reg.Reset()
		if got := reg.LockRandomPhase(); got == nil || !reg.IsLocked() {
			t.Fatal("lock after reset failed")
		}
	}()
	reg.LockRandomPhase()
}

func TestRegistryWeightedBuckets(t *testing.T) {
	// weights in draw order: 50, 15, 20, 15
	cases := []struct {
		roll int
		want domain.PhaseType
	}{
		{0, domain.PhaseDestinyGambit},
		{49, domain.PhaseDestinyGambit},
		{50, domain.PhaseJoker},
		{64, domain.PhaseJoker},
		{65, domain.PhaseCeasefire},
		{84, domain.PhaseCeasefire},
		{85, domain.PhaseInfiniteFirepower},
		{99, domain.PhaseInfiniteFirepower},
	}
	for _, tc := range cases {
		f, rec := newFactory(&scriptedRand{ints: []int{tc.roll}})
		reg := NewRegistry(f)
		if got := reg.LockRandomPhase().Type(); got != tc.want {
			t.Errorf("roll %d: got %s; want %s", tc.roll, got, tc.want)
		}
		locked := rec.OfKind(events.KindPhaseLocked)
		if len(locked) != 1 || locked[0].Phase != tc.want {
			t.Errorf("roll %d: phase_locked events %v", tc.roll, locked)
		}
	}
}

func TestRegistryUniformWhenNoWeight(t *testing.T) {
	b := config.DefaultBalance()
	b.CasinoWeight, b.JesterWeight, b.PeaceWeight, b.OverloadWeight = 0, 0, 0, 0
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(NewFactory(b, &scriptedRand{ints: []int{2}}, clock, nil))
	if got := reg.LockRandomPhase().Type(); got != domain.PhaseCeasefire {
		t.Fatalf("got %s; want ceasefire", got)
	}
}

func TestRegistryDistributionConverges(t *testing.T) {
	f, _ := newFactory(NewRand(42))
	reg := NewRegistry(f)

	const trials = 100000
	counts := map[domain.PhaseType]int{}
	for i := 0; i < trials; i++ {
		counts[reg.LockRandomPhase().Type()]++
		reg.Reset()
	}

	b := config.DefaultBalance()
	for _, p := range domain.AllPhaseTypes {
		want := float64(b.PhaseWeight(p)) / 100
		got := float64(counts[p]) / trials
		if math.Abs(got-want) > 0.01 {
			t.Errorf("%s: frequency %.4f; want ~%.2f", p, got, want)
		}
	}
}
