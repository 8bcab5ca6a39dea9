package match

import (
	"context"
	"sync"

	"github.com/Zereker/boggle"
)

// Matchmaker pairs players as their PLAY announcements arrive.
// It implements boggle.Handler.
type Matchmaker struct {
	dict     Dictionary
	gameTime int
	driver   *Driver
	opt      []Option
	opts     options

	mu      sync.Mutex
	waiting *Player
}

// NewMatchmaker creates a matchmaker whose sessions last gameTime seconds
// and are ticked by driver. opts are also applied to every session.
func NewMatchmaker(dict Dictionary, gameTime int, driver *Driver, opts ...Option) *Matchmaker {
	return &Matchmaker{
		dict:     dict,
		gameTime: gameTime,
		driver:   driver,
		opt:      opts,
		opts:     newOptions(opts),
	}
}

// Handle waits for conn to announce itself.
func (m *Matchmaker) Handle(_ context.Context, conn *boggle.Conn) {
	m.Join(conn)
}

// Join waits for t to announce itself.
func (m *Matchmaker) Join(t Transport) {
	t.Receive(m.onAnnounce, t)
}

// Waiting reports whether a player is waiting for an opponent.
func (m *Matchmaker) Waiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waiting != nil
}

func (m *Matchmaker) onAnnounce(line string, err error, payload any) {
	t := payload.(Transport)
	if err != nil {
		m.opts.logger.Debug("left before announcing", "error", err)
		_ = t.Close()
		return
	}

	name, ok := parsePlay(line)
	if !ok {
		t.Send(ignoringLine(line), nil, nil)
		t.Receive(m.onAnnounce, t)
		return
	}

	p := NewPlayer(name, t)

	m.mu.Lock()
	if m.waiting == nil {
		m.waiting = p
		p.hold(m.onWaiting)
		m.mu.Unlock()
		m.opts.logger.Info("player waiting", "player", name)
		p.arm()
		return
	}
	first := m.waiting
	m.waiting = nil
	m.mu.Unlock()

	s := NewSession(first, p, m.opts.boards(), m.dict, m.gameTime, m.opt...)
	s.Start()
	m.driver.Add(s)
}

// onWaiting handles a line or error that arrived for the waiting player before
// an opponent claimed the receive.
func (m *Matchmaker) onWaiting(line string, err error, payload any) {
	p := payload.(*Player)

	m.mu.Lock()
	waiting := m.waiting == p
	switch {
	case waiting && err != nil:
		m.waiting = nil
	case waiting:
		p.hold(m.onWaiting)
	}
	m.mu.Unlock()

	if err != nil {
		// Once paired, the session sees the same error on its own receive.
		if waiting {
			m.opts.logger.Info("player left while waiting", "player", p.name, "error", err)
			_ = p.transport.Close()
		}
		return
	}

	p.send(ignoringLine(line))
	if waiting {
		p.arm()
	}
}
