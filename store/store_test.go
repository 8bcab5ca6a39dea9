package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Zereker/boggle/match"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", "boggle.db")
	s, err := Open(context.Background(), SQLite, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(p1, p2 string, s1, s2 int, playedAt time.Time) match.Result {
	return match.Result{
		ID:        uuid.New(),
		PlayedAt:  playedAt,
		Board:     "HORSTOAEAGGDPPLE",
		TimeLimit: 60,
		Players: [2]match.PlayerResult{
			{Name: p1, Score: s1, Unique: []string{"HORSE"}, Illegal: []string{"TPPR"}},
			{Name: p2, Score: s2, Unique: []string{"APPLE"}, Illegal: nil},
		},
		Shared: []string{"TAP"},
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boggle.db")

	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), SQLite, path)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestStore_Record(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	if err := s.Record(ctx, testResult("Alice", "Bob", 2, 1, now)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(ctx, testResult("Alice", "Carol", 3, 3, now.Add(time.Minute))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(ctx, testResult("Bob", "Alice", 5, 0, now.Add(2*time.Minute))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	players, err := s.Players(ctx)
	if err != nil {
		t.Fatalf("Players failed: %v", err)
	}
	want := []PlayerStats{
		{Name: "Alice", Won: 1, Tied: 1, Lost: 1},
		{Name: "Bob", Won: 1, Tied: 0, Lost: 1},
		{Name: "Carol", Won: 0, Tied: 1, Lost: 0},
	}
	if !slices.Equal(players, want) {
		t.Errorf("players = %+v, want %+v", players, want)
	}
}

func TestStore_Games(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	first := testResult("Alice", "Bob", 2, 1, now)
	second := testResult("Carol", "Dan", 0, 1, now.Add(time.Hour))
	for _, r := range []match.Result{first, second} {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	all, err := s.Games(ctx, "")
	if err != nil {
		t.Fatalf("Games failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID.String() {
		t.Fatalf("games = %+v, want newest first", all)
	}

	bobs, err := s.Games(ctx, "Bob")
	if err != nil {
		t.Fatalf("Games(Bob) failed: %v", err)
	}
	if len(bobs) != 1 || bobs[0].ID != first.ID.String() {
		t.Fatalf("Bob's games = %+v", bobs)
	}

	g := bobs[0]
	if g.Player1 != "Alice" || g.Player2 != "Bob" || g.Score1 != 2 || g.Score2 != 1 {
		t.Errorf("unexpected game row %+v", g)
	}
	if !g.PlayedAt.Equal(now) {
		t.Errorf("played_at = %v, want %v", g.PlayedAt, now)
	}
}

func TestStore_Game(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := testResult("Alice", "Bob", 2, 1, time.Now())
	if err := s.Record(ctx, r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	g, err := s.Game(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if g.Board != "HORSTOAEAGGDPPLE" || g.TimeLimit != 60 {
		t.Errorf("unexpected game %+v", g.GameSummary)
	}

	checks := []struct {
		slot int
		kind string
		want []string
	}{
		{1, KindUnique, []string{"HORSE"}},
		{1, KindIllegal, []string{"TPPR"}},
		{1, KindShared, []string{"TAP"}},
		{2, KindUnique, []string{"APPLE"}},
		{2, KindIllegal, nil},
		{2, KindShared, []string{"TAP"}},
	}
	for _, c := range checks {
		if got := g.WordsFor(c.slot, c.kind); !slices.Equal(got, c.want) {
			t.Errorf("slot %d %s words = %v, want %v", c.slot, c.kind, got, c.want)
		}
	}
}

func TestStore_Game_SameNames(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := testResult("Sam", "Sam", 2, 1, time.Now())
	if err := s.Record(ctx, r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	g, err := s.Game(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}

	if got := g.WordsFor(1, KindUnique); !slices.Equal(got, []string{"HORSE"}) {
		t.Errorf("slot 1 unique = %v, want [HORSE]", got)
	}
	if got := g.WordsFor(2, KindUnique); !slices.Equal(got, []string{"APPLE"}) {
		t.Errorf("slot 2 unique = %v, want [APPLE]", got)
	}
	if got := g.WordsFor(2, KindIllegal); got != nil {
		t.Errorf("slot 2 illegal = %v, want none", got)
	}
	if got := g.WordsFor(1, KindShared); !slices.Equal(got, []string{"TAP"}) {
		t.Errorf("shared = %v, want [TAP]", got)
	}

	players, err := s.Players(ctx)
	if err != nil {
		t.Fatalf("Players failed: %v", err)
	}
	if want := []PlayerStats{{Name: "Sam", Won: 1, Lost: 1}}; !slices.Equal(players, want) {
		t.Errorf("players = %+v, want %+v", players, want)
	}
}

func TestStore_Game_NotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Game(context.Background(), uuid.NewString()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Record_Implements(t *testing.T) {
	var _ match.Recorder = (*Store)(nil)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: Postgres}
	if got := pg.rebind(`SELECT a FROM t WHERE x = ? OR y = ?`); got != `SELECT a FROM t WHERE x = $1 OR y = $2` {
		t.Errorf("postgres rebind = %q", got)
	}

	lite := &Store{driver: SQLite}
	if got := lite.rebind(`WHERE x = ?`); got != `WHERE x = ?` {
		t.Errorf("sqlite rebind = %q", got)
	}
}
