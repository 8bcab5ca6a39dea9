package match

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// State is a session's lifecycle state.
type State int32

const (
	// Active sessions accept words and count down.
	Active State = iota
	// Terminated sessions lost a player before the clock ran out.
	Terminated
	// Expired sessions ran to the end of the clock and sent their summary.
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Terminated:
		return "terminated"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Session is one two-player match.
//
// Each player has one standing receive. Word handling, ticks and disconnects
// may run concurrently; player state and the shared set are guarded by mu,
// and leaving Active is a single compare-and-swap whose winner alone runs the
// ending.
type Session struct {
	id        uuid.UUID
	board     Board
	dict      Dictionary
	timeLimit int
	startedAt time.Time
	opts      options

	state atomic.Int32

	mu        sync.Mutex
	players   [2]*Player
	remaining int
	shared    map[string]struct{}
}

// NewSession pairs first and second on b for the given number of seconds.
// Call Start to notify the players.
func NewSession(first, second *Player, b Board, dict Dictionary, seconds int, opt ...Option) *Session {
	opts := newOptions(opt)
	return &Session{
		id:        uuid.New(),
		board:     b,
		dict:      dict,
		timeLimit: seconds,
		startedAt: opts.clock.Now(),
		opts:      opts,
		players:   [2]*Player{first, second},
		remaining: seconds,
		shared:    make(map[string]struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Remaining returns the seconds left on the clock.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Start sends START to both players, each naming the other, and arms a
// receive on each transport.
func (s *Session) Start() {
	letters := s.board.Render()

	s.mu.Lock()
	for i, p := range s.players {
		p.send(startLine(letters, s.timeLimit, s.players[1-i].name))
	}
	s.mu.Unlock()

	s.opts.logger.Info("match started",
		"session", s.id,
		"board", letters,
		"seconds", s.timeLimit,
		"player1", s.players[0].name,
		"player2", s.players[1].name)

	for i, p := range s.players {
		p.receive(s.onLine, i)
	}
}

// onLine is the standing receive callback. payload is the player index.
func (s *Session) onLine(line string, err error, payload any) {
	i := payload.(int)
	if err != nil {
		s.terminate(i, err)
		return
	}
	if s.State() != Active {
		return
	}

	s.handleLine(i, line)

	if s.State() == Active {
		s.players[i].receive(s.onLine, i)
	}
}

func (s *Session) handleLine(i int, line string) {
	p := s.players[i]

	word, ok := parseWord(line)
	if !ok {
		p.send(ignoringLine(line))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != Active {
		return
	}
	if s.submit(p, s.players[1-i], word) {
		s.broadcastScores()
	}
}

// submit scores word for p against opponent o and reports whether any score
// changed. Callers hold mu.
func (s *Session) submit(p, o *Player, word string) bool {
	if p.has(word) {
		return false
	}
	if _, ok := s.shared[word]; ok {
		return false
	}

	if !s.dict.Contains(word) || !s.board.CanBeFormed(word) {
		p.illegal[word] = struct{}{}
		if utf8.RuneCountInString(word) < minWordLength {
			return false
		}
		p.score--
		return true
	}

	points := wordScore(word)
	if points == 0 {
		return false
	}

	p.unique[word] = struct{}{}
	p.score += points

	if _, ok := o.unique[word]; ok {
		delete(p.unique, word)
		delete(o.unique, word)
		s.shared[word] = struct{}{}
		p.score -= points
		o.score -= points
	}
	return true
}

// broadcastScores sends each player its own score first. Callers hold mu.
func (s *Session) broadcastScores() {
	for i, p := range s.players {
		p.send(scoreLine(p.score, s.players[1-i].score))
	}
}

// Tick advances the clock by one second and reports whether the session is
// finished and can be dropped.
func (s *Session) Tick() bool {
	if s.State() != Active {
		return true
	}

	s.mu.Lock()
	if s.State() != Active {
		s.mu.Unlock()
		return true
	}
	s.remaining--
	remaining := s.remaining
	for _, p := range s.players {
		p.send(timeLine(remaining))
	}
	s.mu.Unlock()

	if remaining <= 0 {
		s.expire()
		return true
	}
	return false
}

// expire sends the final scores and summaries, closes both transports and
// records the result. Only the first call after the session leaves Active
// does anything.
func (s *Session) expire() {
	if !s.state.CompareAndSwap(int32(Active), int32(Expired)) {
		return
	}

	s.mu.Lock()
	result := s.result()
	for i, p := range s.players {
		o := s.players[1-i]
		p.send(scoreLine(p.score, o.score))
		p.send(stopLine(
			sortedWords(p.unique),
			sortedWords(o.unique),
			sortedWords(s.shared),
			sortedWords(p.illegal),
			sortedWords(o.illegal),
		))
	}
	s.mu.Unlock()

	s.closeTransports()

	s.opts.logger.Info("match finished",
		"session", s.id,
		"player1", result.Players[0].Name,
		"score1", result.Players[0].Score,
		"player2", result.Players[1].Name,
		"score2", result.Players[1].Score)

	go s.record(result)
}

// terminate ends the match because player i's transport failed or closed.
func (s *Session) terminate(i int, cause error) {
	if !s.state.CompareAndSwap(int32(Active), int32(Terminated)) {
		return
	}

	s.mu.Lock()
	s.players[1-i].send(terminatedLine)
	s.mu.Unlock()

	s.closeTransports()

	s.opts.logger.Info("match terminated",
		"session", s.id,
		"player", s.players[i].name,
		"cause", cause)
}

func (s *Session) closeTransports() {
	for _, p := range s.players {
		_ = p.transport.Close()
	}
}

func (s *Session) record(result Result) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.recordTimeout)
	defer cancel()

	if err := s.opts.recorder.Record(ctx, result); err != nil {
		s.opts.logger.Warn("record match", "session", s.id, "error", err)
	}
}

// Snapshot returns the current standings.
func (s *Session) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result()
}

// result builds the standings. Callers hold mu.
func (s *Session) result() Result {
	r := Result{
		ID:        s.id,
		PlayedAt:  s.startedAt,
		Board:     s.board.Render(),
		TimeLimit: s.timeLimit,
		Shared:    sortedWords(s.shared),
	}
	for i, p := range s.players {
		r.Players[i] = PlayerResult{
			Name:    p.name,
			Score:   p.score,
			Unique:  sortedWords(p.unique),
			Illegal: sortedWords(p.illegal),
		}
	}
	return r
}
