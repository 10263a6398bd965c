package events

import "sync"

// Bus fans events out to an explicit, ordered list of observers.
// Delivery is synchronous and in subscription order, so the publishing
// call returns only after every observer has seen the event.
type Bus struct {
	mu        sync.RWMutex
	seq       int
	observers []subscription
}

type subscription struct {
	id int
	o  Observer
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers o and returns a func that removes it again.
func (b *Bus) Subscribe(o Observer) (unsubscribe func()) {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.observers = append(b.observers, subscription{id: id, o: o})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.observers {
			if s.id == id {
				b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	observers := make([]Observer, len(b.observers))
	for i, s := range b.observers {
		observers[i] = s.o
	}
	b.mu.RUnlock()

	for _, o := range observers {
		o.Notify(e)
	}
}

// Len returns the number of current observers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Recorder keeps every event it sees, in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the recorded kinds in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// OfKind returns the recorded events of the given kind.
func (r *Recorder) OfKind(k Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
