package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// PlayerStats is a player's lifetime tally.
type PlayerStats struct {
	Name string
	Won  int
	Tied int
	Lost int
}

// GameSummary is one stored match.
type GameSummary struct {
	ID        string
	Player1   string
	Player2   string
	Score1    int
	Score2    int
	Board     string
	TimeLimit int
	PlayedAt  time.Time
}

// WordRecord is one word outcome of a stored match. Slot is 1 for the
// game's player1 and 2 for player2.
type WordRecord struct {
	Slot   int
	Player string
	Word   string
	Kind   string
}

// GameDetail is a stored match with all of its words.
type GameDetail struct {
	GameSummary
	Words []WordRecord
}

// WordsFor returns the words recorded under kind for the player in slot, in
// stored order.
func (g *GameDetail) WordsFor(slot int, kind string) []string {
	var words []string
	for _, w := range g.Words {
		if w.Slot == slot && w.Kind == kind {
			words = append(words, w.Word)
		}
	}
	return words
}

const gameColumns = `id, player1, player2, score1, score2, board, time_limit, played_at`

// Players returns every player's tally ordered by name.
func (s *Store) Players(ctx context.Context) ([]PlayerStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, won, tied, lost FROM players ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query players")
	}
	defer rows.Close()

	var out []PlayerStats
	for rows.Next() {
		var p PlayerStats
		if err := rows.Scan(&p.Name, &p.Won, &p.Tied, &p.Lost); err != nil {
			return nil, errors.Wrap(err, "scan player")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate players")
}

// Games returns stored matches, newest first. A non-empty player restricts the
// result to that player's matches.
func (s *Store) Games(ctx context.Context, player string) ([]GameSummary, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	var args []any
	if player != "" {
		query += ` WHERE player1 = ? OR player2 = ?`
		args = append(args, player, player)
	}
	query += ` ORDER BY played_at DESC, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "query games")
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, errors.Wrap(rows.Err(), "iterate games")
}

// Game returns one match with its words, or ErrNotFound.
func (s *Store) Game(ctx context.Context, id string) (*GameDetail, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+gameColumns+` FROM games WHERE id = ?`), id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT slot, player, word, kind FROM words WHERE game_id = ? ORDER BY kind, slot, word`), id)
	if err != nil {
		return nil, errors.Wrapf(err, "query words of game %s", id)
	}
	defer rows.Close()

	detail := &GameDetail{GameSummary: g}
	for rows.Next() {
		var w WordRecord
		if err := rows.Scan(&w.Slot, &w.Player, &w.Word, &w.Kind); err != nil {
			return nil, errors.Wrap(err, "scan word")
		}
		detail.Words = append(detail.Words, w)
	}
	return detail, errors.Wrap(rows.Err(), "iterate words")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (GameSummary, error) {
	var g GameSummary
	err := row.Scan(&g.ID, &g.Player1, &g.Player2, &g.Score1, &g.Score2, &g.Board, &g.TimeLimit, &g.PlayedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return g, err
	}
	return g, errors.Wrap(err, "scan game")
}
