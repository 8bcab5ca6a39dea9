package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/Zereker/boggle/match"
)

// Word kinds stored in the words table.
const (
	KindUnique  = "unique"
	KindIllegal = "illegal"
	KindShared  = "shared"
)

const upsertPlayer = `INSERT INTO players (name, won, tied, lost) VALUES (?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE SET
		won  = players.won + excluded.won,
		tied = players.tied + excluded.tied,
		lost = players.lost + excluded.lost`

const insertGame = `INSERT INTO games (id, player1, player2, score1, score2, board, time_limit, played_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertWord = `INSERT INTO words (game_id, slot, player, word, kind) VALUES (?, ?, ?, ?, ?)`

// Record stores a finished match in one transaction. It implements match.Recorder.
func (s *Store) Record(ctx context.Context, r match.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin record")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, p := range r.Players {
		var won, tied, lost int
		switch r.Outcome(i) {
		case match.Won:
			won = 1
		case match.Tied:
			tied = 1
		case match.Lost:
			lost = 1
		}
		if _, err = tx.ExecContext(ctx, s.rebind(upsertPlayer), p.Name, won, tied, lost); err != nil {
			return errors.Wrapf(err, "upsert player %s", p.Name)
		}
	}

	gameID := r.ID.String()
	_, err = tx.ExecContext(ctx, s.rebind(insertGame),
		gameID,
		r.Players[0].Name, r.Players[1].Name,
		r.Players[0].Score, r.Players[1].Score,
		r.Board, r.TimeLimit, r.PlayedAt.UTC())
	if err != nil {
		return errors.Wrapf(err, "insert game %s", gameID)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(insertWord))
	if err != nil {
		return errors.Wrap(err, "prepare word insert")
	}
	defer stmt.Close()

	for i, p := range r.Players {
		slot := i + 1
		if err = insertWords(ctx, stmt, gameID, slot, p.Name, KindUnique, p.Unique); err != nil {
			return err
		}
		if err = insertWords(ctx, stmt, gameID, slot, p.Name, KindIllegal, p.Illegal); err != nil {
			return err
		}
		if err = insertWords(ctx, stmt, gameID, slot, p.Name, KindShared, r.Shared); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit record")
	}
	return nil
}

func insertWords(ctx context.Context, stmt *sql.Stmt, gameID string, slot int, player, kind string, words []string) error {
	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, gameID, slot, player, w, kind); err != nil {
			return errors.Wrapf(err, "insert %s word %s", kind, w)
		}
	}
	return nil
}
