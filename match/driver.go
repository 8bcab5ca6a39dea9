package match

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Zereker/boggle"
)

// TickInterval is how often the game clock advances.
const TickInterval = time.Second

// Driver advances every active session once per interval.
type Driver struct {
	clock    clockwork.Clock
	interval time.Duration
	logger   boggle.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewDriver creates a driver ticking on clock. A nil clock means the real
// clock, a non-positive interval means TickInterval and a nil logger means
// the default slog logger.
func NewDriver(clock clockwork.Clock, interval time.Duration, logger boggle.Logger) *Driver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = TickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		clock:    clock,
		interval: interval,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Add registers s for ticking.
func (d *Driver) Add(s *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[s.ID()] = s
}

// Len returns the number of sessions still registered.
func (d *Driver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// Tick advances every registered session once and drops the finished ones.
func (d *Driver) Tick() {
	d.mu.Lock()
	sessions := make([]*Session, 0, len(d.sessions))
	for _, s := range d.sessions {
		sessions = append(sessions, s)
	}
	d.mu.Unlock()

	var done []uuid.UUID
	for _, s := range sessions {
		if s.Tick() {
			done = append(done, s.ID())
		}
	}
	if len(done) == 0 {
		return
	}

	d.mu.Lock()
	for _, id := range done {
		delete(d.sessions, id)
	}
	active := len(d.sessions)
	d.mu.Unlock()

	d.logger.Debug("sessions removed", "removed", len(done), "active", active)
}

// Run ticks until ctx is canceled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("match driver started", "interval", d.interval)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("match driver stopped")
			return ctx.Err()
		case <-ticker.Chan():
			d.Tick()
		}
	}
}
