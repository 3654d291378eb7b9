// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "log/slog"

type EventKind string

const (
	EventCast   EventKind = "cast"
	EventRigged EventKind = "rigged"
)

// Event describes one ledger mutation. For EventRigged, From is the
// candidate the vote was taken from and Vote carries the new label.
type Event struct {
	Kind    EventKind   `json:"kind"`
	Vote    Vote        `json:"vote"`
	From    CandidateID `json:"from"`
	Version uint64      `json:"version"`
}

const subscriberBuffer = 64

// Subscribe registers for ledger events. The returned function
// unsubscribes and closes the channel. Events are dropped for subscribers
// whose buffer is full; callers that need exact state should take a
// Snapshot after receiving an event.
func (l *Ledger) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.subMu.Unlock()

	cancel := func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Observe registers fn to run synchronously for every mutation, while the
// ledger lock is held. Unlike Subscribe, no event is ever skipped. fn must
// not call back into the ledger.
func (l *Ledger) Observe(fn func(Event)) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.observers = append(l.observers, fn)
}

func (l *Ledger) publish(ev Event) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for _, fn := range l.observers {
		fn(ev)
	}
	for id, ch := range l.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping ledger event for slow subscriber",
				"subscriber", id,
				"kind", ev.Kind,
				"version", ev.Version,
			)
		}
	}
}
