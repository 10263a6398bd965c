package skill

import (
	"time"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/events"
)

// ProtectionTracker counts how often a player is pulled into duels. Enough
// pulls inside the trailing window grant a timed immunity ("ghost").
type ProtectionTracker struct {
	playerID  int64
	threshold int
	window    time.Duration
	duration  time.Duration

	clock clockwork.Clock
	pub   events.Publisher

	pulls     []time.Time
	end       time.Time
	protected bool
}

func NewProtectionTracker(playerID int64, threshold int, window, duration time.Duration, clock clockwork.Clock, pub events.Publisher) *ProtectionTracker {
	if pub == nil {
		pub = events.Discard
	}
	return &ProtectionTracker{
		playerID:  playerID,
		threshold: threshold,
		window:    window,
		duration:  duration,
		clock:     clock,
		pub:       pub,
	}
}

// RecordPull registers one pull and reports whether it activated protection.
// Pulls while protected are ignored.
func (p *ProtectionTracker) RecordPull() bool {
	if p.IsProtected() {
		return false
	}

	now := p.clock.Now()
	p.pulls = append(p.pulls, now)
	p.prune(now)
	if len(p.pulls) < p.threshold {
		return false
	}

	p.protected = true
	p.end = now.Add(p.duration)
	p.pulls = p.pulls[:0]
	p.publish(events.Event{Kind: events.KindProtectionActivated, Duration: p.duration})
	return true
}

// IsProtected is true while now < end. The first read after expiry clears
// the state and publishes protection_expired.
func (p *ProtectionTracker) IsProtected() bool {
	if !p.protected {
		return false
	}
	if p.clock.Now().Before(p.end) {
		return true
	}
	p.protected = false
	p.end = time.Time{}
	p.publish(events.Event{Kind: events.KindProtectionExpired})
	return false
}

// RecentPullCount counts pulls still inside the window.
func (p *ProtectionTracker) RecentPullCount() int {
	p.prune(p.clock.Now())
	return len(p.pulls)
}

func (p *ProtectionTracker) Remaining() time.Duration {
	if !p.IsProtected() {
		return 0
	}
	return p.end.Sub(p.clock.Now())
}

func (p *ProtectionTracker) Threshold() int { return p.threshold }

func (p *ProtectionTracker) Reset() {
	p.pulls = p.pulls[:0]
	p.protected = false
	p.end = time.Time{}
}

// prune drops pulls at or before now-window; a pull exactly on the edge
// no longer counts.
func (p *ProtectionTracker) prune(now time.Time) {
	cutoff := now.Add(-p.window)
	keep := p.pulls[:0]
	for _, t := range p.pulls {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}
	p.pulls = keep
}

func (p *ProtectionTracker) publish(e events.Event) {
	e.At = p.clock.Now()
	e.PlayerID = p.playerID
	p.pub.Publish(e)
}
