package match

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Outcome is a player's result in a finished match.
type Outcome string

const (
	Won  Outcome = "won"
	Lost Outcome = "lost"
	Tied Outcome = "tied"
)

// PlayerResult is one player's final state.
type PlayerResult struct {
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Unique  []string `json:"unique"`
	Illegal []string `json:"illegal"`
}

// Result summarizes a match that ran to the end of its clock.
// Word lists are sorted.
type Result struct {
	ID        uuid.UUID       `json:"id"`
	PlayedAt  time.Time       `json:"played_at"`
	Board     string          `json:"board"`
	TimeLimit int             `json:"time_limit"`
	Players   [2]PlayerResult `json:"players"`
	Shared    []string        `json:"shared"`
}

// Outcome returns how player i (0 or 1) fared against the other.
func (r Result) Outcome(i int) Outcome {
	self, other := r.Players[i].Score, r.Players[1-i].Score
	switch {
	case self > other:
		return Won
	case self < other:
		return Lost
	default:
		return Tied
	}
}

// Recorder receives the results of finished matches.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, r Result) error

// Record calls f(ctx, r).
func (f RecorderFunc) Record(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// NopRecorder discards results.
var NopRecorder Recorder = RecorderFunc(func(context.Context, Result) error { return nil })

// Recorders fans a result out to every recorder, in order, and joins their errors.
func Recorders(rs ...Recorder) Recorder {
	return RecorderFunc(func(ctx context.Context, r Result) error {
		var errs []error
		for _, rec := range rs {
			if err := rec.Record(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
