package match

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Zereker/boggle"
	"github.com/Zereker/boggle/board"
)

// Board is the grid a match is played on. *board.Board implements it.
type Board interface {
	Render() string
	CanBeFormed(word string) bool
}

// Dictionary decides which upper-case words exist.
type Dictionary interface {
	Contains(word string) bool
}

// BoardFactory returns the board for a new match.
type BoardFactory func() Board

// defaultRecordTimeout bounds how long a finished match may spend in its recorder.
const defaultRecordTimeout = 10 * time.Second

// options holds the configuration shared by the matchmaker and its sessions.
type options struct {
	logger        boggle.Logger
	recorder      Recorder
	clock         clockwork.Clock
	boards        BoardFactory
	recordTimeout time.Duration
}

// Option configures a Matchmaker or Session.
type Option func(*options)

// LoggerOption sets the logger. If not set, the default slog logger will be used.
func LoggerOption(logger boggle.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// RecorderOption sets where finished matches are reported.
func RecorderOption(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// ClockOption sets the clock used to timestamp matches.
func ClockOption(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// BoardsOption sets the factory that supplies a board to every new match.
func BoardsOption(f BoardFactory) Option {
	return func(o *options) {
		o.boards = f
	}
}

// FixedBoardOption plays every match on b.
func FixedBoardOption(b Board) Option {
	return BoardsOption(func() Board { return b })
}

// RecordTimeoutOption bounds the time given to the recorder per match.
func RecordTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.recordTimeout = timeout
	}
}

func newOptions(opt []Option) options {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.recorder == nil {
		opts.recorder = NopRecorder
	}
	if opts.clock == nil {
		opts.clock = clockwork.NewRealClock()
	}
	if opts.boards == nil {
		opts.boards = randomBoards
	}
	if opts.recordTimeout <= 0 {
		opts.recordTimeout = defaultRecordTimeout
	}
	return opts
}

func randomBoards() Board {
	return board.Random(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}
