package skill

import (
	"time"

	"github.com/jonboulle/clockwork"

	"subspace_duel/internal/events"
)

// ChargeTracker turns drift charge into skill slots. A full bar can be
// spent on a duel unless the weapon is overheated.
type ChargeTracker struct {
	playerID      int64
	maxSlots      int
	chargePerSlot float64

	clock clockwork.Clock
	pub   events.Publisher

	filledSlots int
	charge      float64
	multiplier  float64

	overheatEnd time.Time
	overheated  bool
}

func NewChargeTracker(playerID int64, maxSlots int, chargePerSlot float64, clock clockwork.Clock, pub events.Publisher) *ChargeTracker {
	if pub == nil {
		pub = events.Discard
	}
	return &ChargeTracker{
		playerID:      playerID,
		maxSlots:      maxSlots,
		chargePerSlot: chargePerSlot,
		clock:         clock,
		pub:           pub,
		multiplier:    1.0,
	}
}

// AddCharge scales raw by the charge speed multiplier and converts it into
// slots. Nothing happens when the bar is already full or raw <= 0.
func (c *ChargeTracker) AddCharge(raw float64) {
	if c.IsFull() || raw <= 0 {
		return
	}

	c.charge += raw * c.multiplier
	for c.charge >= c.chargePerSlot && c.filledSlots < c.maxSlots {
		c.charge -= c.chargePerSlot
		c.filledSlots++
		c.publish(events.Event{Kind: events.KindSkillSlotsChanged, Slots: c.filledSlots})
	}
	if c.IsFull() {
		c.charge = 0
	}
}

// TryActivate spends a full bar. It fails without side effects when the bar
// is not full or the weapon is overheated.
func (c *ChargeTracker) TryActivate() bool {
	if !c.IsFull() || c.IsOverheated() {
		return false
	}
	c.filledSlots = 0
	c.charge = 0
	c.publish(events.Event{Kind: events.KindSkillSlotsChanged, Slots: 0})
	c.publish(events.Event{Kind: events.KindSkillActivated})
	return true
}

func (c *ChargeTracker) StartOverheat(d time.Duration) {
	if d <= 0 {
		return
	}
	c.overheatEnd = c.clock.Now().Add(d)
	c.overheated = true
	c.publish(events.Event{Kind: events.KindOverheatStarted, Duration: d})
}

// IsOverheated is true while now < overheat end. The first read after the
// end clears the state and publishes overheat_ended.
func (c *ChargeTracker) IsOverheated() bool {
	if !c.overheated {
		return false
	}
	if c.clock.Now().Before(c.overheatEnd) {
		return true
	}
	c.overheated = false
	c.overheatEnd = time.Time{}
	c.publish(events.Event{Kind: events.KindOverheatEnded})
	return false
}

func (c *ChargeTracker) OverheatRemaining() time.Duration {
	if !c.IsOverheated() {
		return 0
	}
	return c.overheatEnd.Sub(c.clock.Now())
}

// SetChargeSpeedMultiplier is applied once, when the session locks its phase.
func (c *ChargeTracker) SetChargeSpeedMultiplier(m float64) {
	c.multiplier = m
}

func (c *ChargeTracker) ChargeSpeedMultiplier() float64 { return c.multiplier }

func (c *ChargeTracker) IsFull() bool { return c.filledSlots >= c.maxSlots }

func (c *ChargeTracker) FilledSlots() int { return c.filledSlots }

func (c *ChargeTracker) MaxSlots() int { return c.maxSlots }

func (c *ChargeTracker) CurrentCharge() float64 { return c.charge }

// Progress is the fill level of the whole bar in [0,1].
func (c *ChargeTracker) Progress() float64 {
	if c.IsFull() {
		return 1
	}
	total := float64(c.maxSlots) * c.chargePerSlot
	if total <= 0 {
		return 0
	}
	return (float64(c.filledSlots)*c.chargePerSlot + c.charge) / total
}

// Reset empties the bar and clears overheat without publishing.
func (c *ChargeTracker) Reset() {
	c.filledSlots = 0
	c.charge = 0
	c.overheated = false
	c.overheatEnd = time.Time{}
}

func (c *ChargeTracker) publish(e events.Event) {
	e.At = c.clock.Now()
	e.PlayerID = c.playerID
	c.pub.Publish(e)
}
