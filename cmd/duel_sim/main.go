package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/duel"
	"subspace_duel/internal/events"
	"subspace_duel/internal/game"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/service"
)

// duel_sim plays many simulated sessions on a fake clock and summarizes the
// phase draw, duel outcomes, banners and refusals. Balance comes from env.
func main() {
	_ = godotenv.Load()

	opts := simOptions{}
	flag.IntVar(&opts.Sessions, "sessions", 1000, "sessions to simulate")
	flag.IntVar(&opts.Steps, "steps", 60, "ticks per session")
	flag.IntVar(&opts.Players, "players", 4, "players per session")
	flag.Uint64Var(&opts.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	phase := flag.String("phase", "", "force one phase instead of the weighted draw")
	asJSON := flag.Bool("json", false, "print the summary as JSON")
	flag.Parse()

	opts.Phase = domain.PhaseType(*phase)
	if opts.Phase != "" && !opts.Phase.Valid() {
		log.Fatalf("unknown phase %q", *phase)
	}
	if opts.Players < 2 {
		log.Fatal("-players must be at least 2")
	}
	opts.Balance = config.LoadBalance()
	if err := opts.Balance.Validate(); err != nil {
		log.Fatal(err)
	}

	sum := simulate(opts)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			log.Fatal(err)
		}
		return
	}
	sum.print(os.Stdout, opts.Balance)
}

type simOptions struct {
	Sessions int
	Steps    int
	Players  int
	Seed     uint64
	Phase    domain.PhaseType
	Balance  config.Balance
}

type summary struct {
	Sessions int                         `json:"sessions"`
	Phases   map[domain.PhaseType]int    `json:"phases"`
	Duels    int                         `json:"duels"`
	Outcomes map[domain.Outcome]int      `json:"outcomes"`
	Destiny  map[domain.DestinyMatch]int `json:"destiny"`
	Banners  map[duel.Banner]int         `json:"banners"`
	Refusals map[domain.FailReason]int   `json:"refusals"`
	Events   map[events.Kind]int         `json:"events"`
}

func (s *summary) Notify(e events.Event) {
	s.Events[e.Kind]++
	switch e.Kind {
	case events.KindPhaseLocked:
		s.Phases[e.Phase]++
	case events.KindDuelValidationFailed:
		s.Refusals[e.Reason]++
	case events.KindDuelResolved:
		r := *e.Result
		s.Duels++
		s.Outcomes[r.Outcome]++
		s.Destiny[r.DestinyMatch]++
		s.Banners[duel.PickBannerFor(r)]++
	}
}

func simulate(opts simOptions) *summary {
	sum := &summary{
		Phases:   map[domain.PhaseType]int{},
		Outcomes: map[domain.Outcome]int{},
		Destiny:  map[domain.DestinyMatch]int{},
		Banners:  map[duel.Banner]int{},
		Refusals: map[domain.FailReason]int{},
		Events:   map[events.Kind]int{},
	}

	rng := game.NewRand(opts.Seed)
	clock := clockwork.NewFakeClock()
	svc := service.NewSessionService(service.SessionOptions{
		Balance: opts.Balance,
		Clock:   clock,
		Rand:    rng,
		Logger:  logger.Nop(),
	})
	svc.Subscribe(sum)

	ids := make([]int64, opts.Players)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	for n := 0; n < opts.Sessions; n++ {
		if _, err := svc.InitializeSessionWithPhase(ids, opts.Phase); err != nil {
			log.Fatalf("session %d: %v", n, err)
		}
		sum.Sessions++

		for step := 0; step < opts.Steps; step++ {
			clock.Advance(time.Duration(500+rng.IntN(2500)) * time.Millisecond)

			for _, id := range ids {
				svc.HandleDrift(id, float64(20+rng.IntN(60)))
				if rng.Float64() < 0.25 {
					svc.AddCard(id, game.DrawDestiny(rng), true)
				}
			}

			attacker := ids[rng.IntN(len(ids))]
			defender := ids[rng.IntN(len(ids))]
			if attacker == defender {
				continue
			}
			svc.TryInitiateDuel(attacker, defender, game.DrawDestiny(rng), game.DrawDestiny(rng))
		}
		svc.EndSession()
	}
	return sum
}

func (s *summary) print(w io.Writer, b config.Balance) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	total := 0
	for _, p := range domain.AllPhaseTypes {
		total += max(0, b.PhaseWeight(p))
	}
	fmt.Fprintf(tw, "PHASE\tSESSIONS\tSHARE\tEXPECTED\n")
	for _, p := range domain.AllPhaseTypes {
		expected := 0.0
		if total > 0 {
			expected = float64(max(0, b.PhaseWeight(p))) / float64(total)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\n", p, s.Phases[p], share(s.Phases[p], s.Sessions), expected)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "DUELS\t%d\n", s.Duels)
	printCounts(tw, "OUTCOME", s.Outcomes, s.Duels)
	printCounts(tw, "DESTINY", s.Destiny, s.Duels)
	printCounts(tw, "BANNER", s.Banners, s.Duels)

	refused := 0
	for _, n := range s.Refusals {
		refused += n
	}
	printCounts(tw, "REFUSAL", s.Refusals, refused)
	_ = tw.Flush()
}

func printCounts[K ~string](w io.Writer, title string, counts map[K]int, total int) {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })

	fmt.Fprintf(w, "%s\tCOUNT\tSHARE\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%d\t%.3f\n", k, counts[k], share(counts[k], total))
	}
	fmt.Fprintln(w)
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
