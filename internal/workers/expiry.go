package workers

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/logger"
)

// Poller is anything whose lazy timers need reading on a schedule.
type Poller interface {
	PollExpirations()
}

// ExpiryPoller reads the engine's timers on a fixed interval so expiry
// events reach observers even when nobody is playing.
type ExpiryPoller struct {
	sched gocron.Scheduler
	runs  atomic.Int64
	log   *slog.Logger
}

func NewExpiryPoller(p Poller, interval time.Duration, clock clockwork.Clock, log *slog.Logger) (*ExpiryPoller, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sched, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	ep := &ExpiryPoller{sched: sched, log: logger.OrDefault(log).With("component", "expiry_poller")}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			p.PollExpirations()
			ep.runs.Add(1)
		}),
		gocron.WithName("poll-expirations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	return ep, nil
}

func (p *ExpiryPoller) Start() {
	p.log.Info("expiry poller started")
	p.sched.Start()
}

func (p *ExpiryPoller) Stop() error {
	return p.sched.Shutdown()
}

// Runs counts completed polls.
func (p *ExpiryPoller) Runs() int64 { return p.runs.Load() }
