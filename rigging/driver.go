// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rigging

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/magic-vote/ledger"
)

const (
	// DefaultSettleDelay is how long the driver waits after the last cast
	// vote before it starts rigging.
	DefaultSettleDelay = 2500 * time.Millisecond

	// DefaultStepInterval separates two rigging steps, long enough for one
	// token to fly to the other bucket.
	DefaultStepInterval = 600 * time.Millisecond
)

type Opt func(*Driver)

func WithClock(clock clockwork.Clock) Opt {
	return func(d *Driver) {
		d.clock = clock
	}
}

func WithSettleDelay(delay time.Duration) Opt {
	return func(d *Driver) {
		d.settleDelay = delay
	}
}

func WithStepInterval(interval time.Duration) Opt {
	return func(d *Driver) {
		d.stepInterval = interval
	}
}

// Driver applies rigging steps to a ledger one at a time. Every cast vote
// restarts the settle delay, so rigging only happens once voting pauses.
type Driver struct {
	ledger       *ledger.Ledger
	clock        clockwork.Clock
	settleDelay  time.Duration
	stepInterval time.Duration
}

func NewDriver(l *ledger.Ledger, opts ...Opt) *Driver {
	d := &Driver{
		ledger:       l,
		clock:        clockwork.NewRealClock(),
		settleDelay:  DefaultSettleDelay,
		stepInterval: DefaultStepInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives the ledger until ctx is cancelled. The ledger is left exactly
// as the last completed step left it.
func (d *Driver) Run(ctx context.Context) error {
	events, unsubscribe := d.ledger.Subscribe()
	defer unsubscribe()

	timer := d.clock.NewTimer(d.settleDelay)
	defer timer.Stop()

	steps := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == ledger.EventCast {
				resetTimer(timer, d.settleDelay)
			}
		case <-timer.Chan():
			changed, err := d.ledger.ApplyRiggingStep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("rigging step failed", "error", err)
				timer.Reset(d.settleDelay)
				continue
			}
			if changed {
				steps++
				timer.Reset(d.stepInterval)
				continue
			}
			if steps > 0 {
				slog.Info("rigging settled", "steps", steps)
				steps = 0
			}
		}
	}
}

// resetTimer rearms t, discarding a tick that fired but was not received.
func resetTimer(t clockwork.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
	t.Reset(d)
}
