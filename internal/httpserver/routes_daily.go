// internal/httpserver/routes_daily.go
//
// Routes for the daily challenge.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top results for today (or a given date)
//
// Each user plays once per day (enforced by DB uniqueness + in-memory
// session). Active sessions live in memory and are persisted to the DB
// on a win. Word selection is deterministic from date + salt, so every
// player faces the same answer.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quintle/server/internal/daily"
	"github.com/quintle/server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress
// daily game.
type dailySession struct {
	Sess      *game.Session
	UserID    string
	Date      string
	WordIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// todayKey returns today's date key, deterministic word index, and answer.
func (d *dailyServer) todayKey() (date string, idx int, answer string) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	answers := d.srv.dict.Answers()
	if len(answers) == 0 {
		return date, 0, ""
	}
	idx = daily.WordIndex(now, d.srv.salt, len(answers))
	return date, idx, answers[idx]
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise a stable anonymous ID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// A user with a persisted result for today gets Played=true and no
// game id.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date, idx, answer := d.todayKey()

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: "", Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.Sess.ID, Date: date, Played: false})
		return
	}
	g, err := game.NewDaily(d.srv.dict, 0, answer)
	if err != nil {
		d.mu.Unlock()
		http.Error(w, `{"error":"no_answer_pool"}`, http.StatusInternalServerError)
		return
	}
	sess := &dailySession{
		Sess:      g,
		UserID:    uid,
		Date:      date,
		WordIndex: idx,
		Start:     time.Now(),
	}
	d.sessions[key] = sess
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: g.ID, Date: date, Played: false})
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type dailyGuessRes struct {
	Marks   []game.Mark `json:"marks"`
	State   string      `json:"state"` // playing | won | lost | locked
	Guesses int         `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session,
// persisting the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if p.GameID == "" {
		http.Error(w, `{"error":"invalid_guess"}`, http.StatusBadRequest)
		return
	}

	date, _, _ := d.todayKey()
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.Sess.ID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}

	// One daily session is only ever touched by its own user, but the
	// same user may double-submit; serialize via the session map lock.
	d.mu.Lock()
	marks, state, err := sess.Sess.ApplyGuess(p.Word)
	guesses := sess.Sess.Rounds
	d.mu.Unlock()
	if err != nil {
		if errors.Is(err, game.ErrSessionFinished) {
			_ = json.NewEncoder(w).Encode(dailyGuessRes{Marks: []game.Mark{}, State: "locked", Guesses: guesses})
			return
		}
		writeGameError(w, err)
		return
	}

	if state == game.StateWon {
		elapsed := int(time.Since(sess.Start).Milliseconds())
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      date,
			WordIndex: sess.WordIndex,
			Guesses:   guesses,
			ElapsedMs: elapsed,
		})
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{Marks: marks, State: string(state), Guesses: guesses})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type dailyLBRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date
// (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.todayKey()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(dailyLBRes{Date: date, Top: rows})
}
