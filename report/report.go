// Package report serves the HTML pages over recorded match results.
package report

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Zereker/boggle"
	"github.com/Zereker/boggle/board"
	"github.com/Zereker/boggle/store"
)

// Source is the read side of the result store. *store.Store implements it.
type Source interface {
	Players(ctx context.Context) ([]store.PlayerStats, error)
	Games(ctx context.Context, player string) ([]store.GameSummary, error)
	Game(ctx context.Context, id string) (*store.GameDetail, error)
}

// requestTimeout bounds a single page render.
const requestTimeout = 10 * time.Second

var funcs = template.FuncMap{
	"join": func(words []string) string {
		if len(words) == 0 {
			return "none"
		}
		return strings.Join(words, " ")
	},
}

// Server renders reporting pages.
type Server struct {
	r      *chi.Mux
	src    Source
	logger boggle.Logger
}

// New builds the router. A nil logger means the default slog logger.
func New(src Source, logger boggle.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{r: chi.NewRouter(), src: src, logger: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(requestTimeout))

	s.r.Get("/players", s.handlePlayers)
	s.r.Get("/games", s.handleGames)
	s.r.Get("/game", s.handleGame)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, errorTmpl, errorData{})
	})
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, errorTmpl, errorData{Message: "Unknown page " + r.URL.Path + "."})
	})

	return s
}

// Router exposes the router for serving and tests.
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

type errorData struct {
	Message string
}

type gamesData struct {
	Title string
	Games []store.GameSummary
}

type playerWords struct {
	Name    string
	Score   int
	Unique  []string
	Illegal []string
}

type gameData struct {
	Game    store.GameSummary
	Rows    [][]byte
	Players []playerWords
	Shared  []string
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.src.Players(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, http.StatusOK, playersTmpl, players)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")

	games, err := s.src.Games(r.Context(), player)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	title := "Games"
	if player != "" {
		title = "Games of " + player
	}
	s.render(w, http.StatusOK, gamesTmpl, gamesData{Title: title, Games: games})
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.render(w, http.StatusBadRequest, errorTmpl, errorData{Message: "Missing game id."})
		return
	}

	g, err := s.src.Game(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.render(w, http.StatusNotFound, errorTmpl, errorData{Message: "No game with id " + id + "."})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := gameData{
		Game:   g.GameSummary,
		Rows:   boardRows(g.Board),
		Shared: g.WordsFor(1, store.KindShared),
	}
	for i, p := range []struct {
		name  string
		score int
	}{{g.Player1, g.Score1}, {g.Player2, g.Score2}} {
		data.Players = append(data.Players, playerWords{
			Name:    p.name,
			Score:   p.score,
			Unique:  g.WordsFor(i+1, store.KindUnique),
			Illegal: g.WordsFor(i+1, store.KindIllegal),
		})
	}
	s.render(w, http.StatusOK, gameTmpl, data)
}

// boardRows splits a rendered board into rows for display.
func boardRows(letters string) [][]byte {
	var rows [][]byte
	for i := 0; i+board.Size <= len(letters); i += board.Size {
		rows = append(rows, []byte(letters[i:i+board.Size]))
	}
	return rows
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("report query failed",
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err)
	s.render(w, http.StatusInternalServerError, errorTmpl, errorData{Message: "The results are unavailable right now."})
}

func (s *Server) render(w http.ResponseWriter, status int, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		s.logger.Error("render page", "template", t.Name(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
