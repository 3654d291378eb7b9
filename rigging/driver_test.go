// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rigging

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/magic-vote/ledger"
)

func newLedger(t *testing.T, seedA, seedB int) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(context.Background(), ledger.NewMemoryStore(), ledger.Config{
		Seed:              map[ledger.CandidateID]int{ledger.Candidate1: seedA, ledger.Candidate2: seedB},
		TargetCandidateID: ledger.Candidate1,
		TargetShare:       0.51,
	})
	require.NoError(t, err)
	return l
}

func startDriver(t *testing.T, l *ledger.Ledger, clock clockwork.Clock) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewDriver(l, WithClock(clock)).Run(ctx)
	}()
	return func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("driver did not stop")
		}
	}
}

func count(t *testing.T, l *ledger.Ledger, id ledger.CandidateID) int {
	t.Helper()
	s, err := l.CurrentShare(context.Background(), id)
	require.NoError(t, err)
	return s.Count
}

func pending(l *ledger.Ledger) bool {
	p, err := l.HasPendingRigging(context.Background())
	return err == nil && p
}

func TestDriverWaitsForSettleDelay(t *testing.T) {
	l := newLedger(t, 5, 5)
	clock := clockwork.NewFakeClock()
	stop := startDriver(t, l, clock)
	defer stop()

	clock.BlockUntil(1)
	clock.Advance(DefaultSettleDelay - time.Millisecond)
	require.Equal(t, 5, count(t, l, ledger.Candidate1))

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return !pending(l) }, time.Second, 5*time.Millisecond)
	require.Equal(t, 6, count(t, l, ledger.Candidate1))
}

func TestDriverAppliesOneStepPerInterval(t *testing.T) {
	l := newLedger(t, 1, 3)
	clock := clockwork.NewFakeClock()
	stop := startDriver(t, l, clock)
	defer stop()

	clock.BlockUntil(1)
	clock.Advance(DefaultSettleDelay)

	// The step rearms the timer for the next interval.
	clock.BlockUntil(1)
	require.Equal(t, 2, count(t, l, ledger.Candidate1))
	require.True(t, pending(l))

	clock.Advance(DefaultStepInterval)
	clock.BlockUntil(1)
	require.Equal(t, 3, count(t, l, ledger.Candidate1))
	require.False(t, pending(l))

	clock.Advance(DefaultStepInterval)
	require.Never(t, func() bool { return count(t, l, ledger.Candidate1) != 3 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDriverRestartsSettleDelayOnCast(t *testing.T) {
	l := newLedger(t, 1, 0)
	clock := clockwork.NewFakeClock()
	stop := startDriver(t, l, clock)
	defer stop()

	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	for i := 0; i < 2; i++ {
		_, err := l.CastVote(context.Background(), ledger.Candidate2)
		require.NoError(t, err)
	}
	require.True(t, pending(l))

	// Let the driver see the casts before moving the clock again.
	time.Sleep(50 * time.Millisecond)

	// Past the original deadline but inside the restarted delay.
	clock.Advance(time.Second)
	require.Never(t, func() bool { return !pending(l) }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(DefaultSettleDelay)
	require.Eventually(t, func() bool { return !pending(l) }, time.Second, 5*time.Millisecond)
	require.Equal(t, 2, count(t, l, ledger.Candidate1))
}

func TestDriverStopsOnCancel(t *testing.T) {
	l := newLedger(t, 0, 4)
	clock := clockwork.NewFakeClock()
	stop := startDriver(t, l, clock)

	clock.BlockUntil(1)
	stop()

	clock.Advance(time.Minute)
	require.Equal(t, 0, count(t, l, ledger.Candidate1))
}
