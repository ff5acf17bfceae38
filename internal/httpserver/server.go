// internal/httpserver/server.go
//
// HTTP wiring for the Quintle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine.
//   - Best-effort database persistence for game history and user stats.
//
// The engine's error kinds map to stable JSON error strings here;
// nothing below this layer writes HTTP or logs on the request path.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/quintle/server/internal/daily"
	"github.com/quintle/server/internal/game"
	"github.com/quintle/server/internal/store"
	"github.com/quintle/server/internal/words"
)

// Server bundles router, session store, DB handle, and the dictionary.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	dict  *words.Dictionary
	salt  string // daily seed salt
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, dict *words.Dictionary) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		dict:  dict,
		salt:  getEnv("DAILY_SALT", "local_dev_salt"),
	}

	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"quintle","endpoints":["/health","POST /game/new","POST /game/guess","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints — optional auth (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)

	// Daily challenge — optional auth (guests can play; results persisted on win)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.dict.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode      string `json:"mode"`      // "normal" | "cheat" | "daily"
	MaxRounds int    `json:"maxRounds"` // 1..10; 0 means default (6)
	Answer    string `json:"answer"`    // optional fixed answer, normal mode only (testing)
	Policy    string `json:"policy"`    // cheat host policy: "" (fewest hits) | "largest"
	Seed      string `json:"seed"`      // accepted for clients; daily uses date+salt and ignores it
}
type newGameRes struct {
	GameID    string `json:"gameId"`
	Mode      string `json:"mode"`
	MaxRounds int    `json:"maxRounds"`
}

// handleNewGame creates a session for the requested mode and persists a
// DB owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var (
		g   *game.Session
		err error
	)
	switch game.Mode(req.Mode) {
	case game.ModeCheat:
		g, err = game.NewCheat(s.dict, req.MaxRounds, game.PolicyByName(req.Policy))
	case game.ModeDaily:
		g, err = game.NewDaily(s.dict, req.MaxRounds, s.todayAnswer())
	default:
		g, err = game.NewNormal(s.dict, req.MaxRounds, req.Answer)
	}
	if err != nil {
		http.Error(w, `{"error":"invalid_word_format"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row; the answer itself is never stored.
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO games (id, user_id, mode, status, guesses, started_at)
		                     VALUES (?,?,?,?,0,?)`, g.ID, me.ID, string(g.Mode), "playing", now)
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, mode, status, guesses, started_at)
		                     VALUES (?,?,?,?,0,?)`, g.ID, anon, string(g.Mode), "playing", now)
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
		}
	}

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Mode: string(g.Mode), MaxRounds: g.MaxRounds})
}

// todayAnswer picks today's answer from the dictionary via the seed
// derivation.
func (s *Server) todayAnswer() string {
	answers := s.dict.Answers()
	if len(answers) == 0 {
		return ""
	}
	idx := daily.WordIndex(time.Now(), s.salt, len(answers))
	return answers[idx]
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks   []game.Mark          `json:"marks"`
	Round   int                  `json:"round"`
	State   game.State           `json:"state"`   // "playing" | "won" | "lost"
	Letters map[string]game.Mark `json:"letters"` // keyboard hints
}

// handleGuess applies a guess under the session's lock, persists
// progress, and (if finished) updates user stats best-effort.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	var res guessRes
	err := s.store.WithLock(r.Context(), req.GameID, func(g *game.Session) error {
		marks, state, err := g.ApplyGuess(req.Guess)
		if err != nil {
			return err
		}
		res = guessRes{Marks: marks, Round: g.Rounds, State: state, Letters: g.KeyboardHints()}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}

	// Persist counters/history (best effort, non-fatal if it fails).
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, _ := s.db.Begin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, req.GameID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}

	if res.State == game.StateWon || res.State == game.StateLost {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(res.State), time.Now().UTC().Format(time.RFC3339), req.GameID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, res.State == game.StateWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()

	_ = json.NewEncoder(w).Encode(res)
}

// writeGameError maps engine error kinds to status codes and stable
// JSON error strings.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrInvalidGuess):
		http.Error(w, `{"error":"invalid_guess"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrWordNotAllowed):
		http.Error(w, `{"error":"word_not_allowed"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrSessionFinished):
		http.Error(w, `{"error":"session_finished"}`, http.StatusConflict)
	default:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
