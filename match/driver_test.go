package match

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Zereker/boggle"
)

func TestDriver_Tick(t *testing.T) {
	d := NewDriver(clockwork.NewFakeClock(), TickInterval, boggle.DiscardLogger())

	short := newSessionFixture(t, 1)
	long := newSessionFixture(t, 3)
	d.Add(short.session)
	d.Add(long.session)

	d.Tick()

	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1 after the short match expired", d.Len())
	}
	if short.session.State() != Expired {
		t.Errorf("short state = %v, want expired", short.session.State())
	}
	if got := long.alice.last(); got != "TIME 2\n" {
		t.Errorf("long alice last = %q, want TIME 2", got)
	}
}

func TestDriver_Tick_DropsTerminated(t *testing.T) {
	d := NewDriver(clockwork.NewFakeClock(), TickInterval, boggle.DiscardLogger())

	f := newSessionFixture(t, 60)
	d.Add(f.session)
	f.bob.fail(t, context.Canceled)

	d.Tick()

	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
	if f.alice.count("TIME") != 0 {
		t.Error("terminated session received TIME")
	}
}

func TestDriver_Run(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDriver(clock, TickInterval, boggle.DiscardLogger())

	f := newSessionFixture(t, 2)
	d.Add(f.session)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("ticker not created: %v", err)
	}

	clock.Advance(TickInterval)
	waitFor(t, func() bool { return f.alice.count("TIME") == 1 })

	clock.Advance(TickInterval)
	waitFor(t, func() bool { return d.Len() == 0 })

	if f.alice.count("STOP") != 1 {
		t.Error("expected STOP after the clock ran out")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
}

func TestNewDriver_Defaults(t *testing.T) {
	d := NewDriver(nil, 0, nil)

	if d.clock == nil || d.logger == nil {
		t.Error("defaults not applied")
	}
	if d.interval != TickInterval {
		t.Errorf("interval = %v, want %v", d.interval, TickInterval)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(time.Millisecond):
		}
	}
}
