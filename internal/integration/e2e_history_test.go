package integration

import (
	"context"
	"testing"
	"time"

	"subspace_duel/internal/config"
	"subspace_duel/internal/domain"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/repository"
	"subspace_duel/internal/service"
	"subspace_duel/internal/workers"
)

// A full session through the engine ends up in Postgres via the history worker.
func TestE2ESessionHistory(t *testing.T) {
	pool := openDB(t)
	store := repository.NewHistoryStore(pool)

	svc := service.NewSessionService(service.SessionOptions{
		Balance: config.DefaultBalance(),
		Logger:  logger.Nop(),
	})
	writer := workers.NewHistoryWriter(store, 64, logger.Nop())
	svc.Subscribe(writer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		writer.Run(ctx)
		close(done)
	}()

	base := time.Now().UnixNano()
	a, d := base, base+1
	sessionID, err := svc.InitializeSessionWithPhase([]int64{a, d}, domain.PhaseCeasefire)
	if err != nil {
		t.Fatal(err)
	}
	svc.HandleDrift(a, 1000)
	if _, reason := svc.TryInitiateDuel(a, d, domain.CardRock, domain.CardPaper); reason != domain.FailNone {
		t.Fatalf("duel refused: %s", reason)
	}
	svc.EndSession()

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("history writer did not drain")
	}

	duels, err := store.Duels.GetBySession(context.Background(), sessionID)
	if err != nil || len(duels) != 1 {
		t.Fatalf("duels = %v, %v", duels, err)
	}
	if duels[0].Result.Outcome != domain.OutcomeWin || duels[0].Banner != "normal_win" {
		t.Fatalf("duel = %+v", duels[0])
	}
	s, err := store.Sessions.GetByID(context.Background(), sessionID)
	if err != nil || s.EndedAt == nil || s.DuelCount != 1 || s.PlayerCount != 2 {
		t.Fatalf("session = %+v, %v", s, err)
	}
}
