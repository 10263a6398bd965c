package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/duel"
	"subspace_duel/internal/events"
	"subspace_duel/internal/logger"
)

// HistorySink persists sessions and duels.
type HistorySink interface {
	SaveSession(ctx context.Context, s *domain.SessionRecord) error
	EndSession(ctx context.Context, id string, at time.Time) error
	SaveDuel(ctx context.Context, d *domain.DuelRecord) error
}

// HistoryWriter observes the engine and writes history off the engine's
// goroutine. Events that do not fit in the buffer are dropped.
type HistoryWriter struct {
	sink    HistorySink
	queue   chan events.Event
	timeout time.Duration
	log     *slog.Logger

	dropped atomic.Int64
	failed  atomic.Int64
	written atomic.Int64

	session string
}

func NewHistoryWriter(sink HistorySink, buffer int, log *slog.Logger) *HistoryWriter {
	if buffer <= 0 {
		buffer = 256
	}
	return &HistoryWriter{
		sink:    sink,
		queue:   make(chan events.Event, buffer),
		timeout: 5 * time.Second,
		log:     logger.OrDefault(log).With("component", "history"),
	}
}

func (w *HistoryWriter) Notify(e events.Event) {
	switch e.Kind {
	case events.KindSessionStarted, events.KindSessionEnded, events.KindDuelResolved:
	default:
		return
	}
	select {
	case w.queue <- e:
	default:
		w.dropped.Add(1)
		w.log.Warn("history queue full, dropping event", "kind", e.Kind)
	}
}

// Run writes queued events until ctx is cancelled, then drains what is left.
func (w *HistoryWriter) Run(ctx context.Context) {
	for {
		select {
		case e := <-w.queue:
			w.write(context.Background(), e)
		case <-ctx.Done():
			for {
				select {
				case e := <-w.queue:
					w.write(context.Background(), e)
				default:
					return
				}
			}
		}
	}
}

func (w *HistoryWriter) write(parent context.Context, e events.Event) {
	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	var err error
	switch e.Kind {
	case events.KindSessionStarted:
		w.session = e.Message
		err = w.sink.SaveSession(ctx, &domain.SessionRecord{
			ID:             e.Message,
			Phase:          e.Phase,
			BalanceVersion: e.Version,
			PlayerCount:    len(e.Players),
			StartedAt:      e.At,
		})
	case events.KindSessionEnded:
		err = w.sink.EndSession(ctx, e.Message, e.At)
		w.session = ""
	case events.KindDuelResolved:
		if e.Result == nil || w.session == "" {
			return
		}
		err = w.sink.SaveDuel(ctx, &domain.DuelRecord{
			SessionID: w.session,
			Result:    *e.Result,
			Banner:    string(duel.PickBannerFor(*e.Result)),
		})
	}

	if err != nil {
		w.failed.Add(1)
		w.log.Error("history write failed", "kind", e.Kind, "session_id", w.session, "error", err)
		return
	}
	w.written.Add(1)
}

// Stats reports written, failed and dropped counts.
func (w *HistoryWriter) Stats() (written, failed, dropped int64) {
	return w.written.Load(), w.failed.Load(), w.dropped.Load()
}
