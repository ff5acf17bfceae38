package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/quintle/server/internal/daily"
	"github.com/quintle/server/internal/db"
	"github.com/quintle/server/internal/game"
	"github.com/quintle/server/internal/store"
	"github.com/quintle/server/internal/words"
)

func newTestServer(t *testing.T, answers []string, allowed ...string) (*httptest.Server, *http.Client) {
	t.Helper()
	t.Setenv("DAILY_SALT", "test_salt")

	dict, err := words.New(answers, allowed)
	if err != nil {
		t.Fatal(err)
	}
	conn, err := db.Open(filepath.Join(t.TempDir(), "server_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatal(err)
	}

	srv := New(store.NewMemoryStore(), conn, dict)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp
}

func TestNormalGameFlow(t *testing.T) {
	ts, c := newTestServer(t, []string{"crane", "slate"})

	var created newGameRes
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]any{"mode": "normal", "answer": "crane"}, &created)
	if resp.StatusCode != http.StatusOK || created.GameID == "" {
		t.Fatalf("new game: status=%d res=%+v", resp.StatusCode, created)
	}
	if created.Mode != "normal" || created.MaxRounds != 6 {
		t.Fatalf("created=%+v", created)
	}

	var g1 guessRes
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "guess": "slate"}, &g1)
	if g1.State != game.StatePlaying || g1.Round != 1 {
		t.Fatalf("first guess: %+v", g1)
	}
	if g1.Letters["a"] != game.MarkHit {
		t.Errorf("keyboard hint for a = %v, want hit", g1.Letters["a"])
	}

	var g2 guessRes
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "guess": "crane"}, &g2)
	if g2.State != game.StateWon || g2.Round != 2 {
		t.Fatalf("winning guess: %+v", g2)
	}

	// Guessing after the game is over conflicts.
	resp = postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "guess": "crane"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("finished session: status=%d, want 409", resp.StatusCode)
	}
}

func TestGuessErrorMapping(t *testing.T) {
	ts, c := newTestServer(t, []string{"crane"})

	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)

	cases := []struct {
		gameID, guess string
		wantStatus    int
	}{
		{"nope", "crane", http.StatusNotFound},
		{created.GameID, "cr4ne", http.StatusBadRequest},
		{created.GameID, "zebra", http.StatusBadRequest}, // not in allowed list
	}
	for _, tc := range cases {
		resp := postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": tc.gameID, "guess": tc.guess}, nil)
		if resp.StatusCode != tc.wantStatus {
			t.Errorf("guess(%q, %q): status=%d, want %d", tc.gameID, tc.guess, resp.StatusCode, tc.wantStatus)
		}
	}
}

func TestCheatGameNeverCommitsEarly(t *testing.T) {
	ts, c := newTestServer(t, []string{"hello", "world", "fancy", "panic", "buggy"})

	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"mode": "cheat", "maxRounds": 10}, &created)
	if created.Mode != "cheat" {
		t.Fatalf("created=%+v", created)
	}

	// fancy/panic/buggy share no letters with hello: the host keeps
	// the all-miss bucket.
	var g guessRes
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "guess": "hello"}, &g)
	for i, m := range g.Marks {
		if m != game.MarkMiss {
			t.Errorf("mark[%d] = %v, want miss", i, m)
		}
	}
	if g.State != game.StatePlaying {
		t.Errorf("state=%v", g.State)
	}
}

func TestDailyFlow(t *testing.T) {
	answers := []string{"crane", "slate", "plant", "glare", "grace"}
	ts, c := newTestServer(t, answers)

	// The day's answer is deterministic from date + salt.
	idx := daily.WordIndex(time.Now(), "test_salt", len(answers))
	answer := answers[idx]

	var created dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &created)
	if created.Played || created.GameID == "" {
		t.Fatalf("daily new: %+v", created)
	}

	// Same user asks again: same session, no new game.
	var again dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &again)
	if again.GameID != created.GameID {
		t.Fatalf("resume gave a different game: %q vs %q", again.GameID, created.GameID)
	}

	var won dailyGuessRes
	postJSON(t, c, ts.URL+"/daily/guess", map[string]string{"gameId": created.GameID, "word": answer}, &won)
	if won.State != "won" || won.Guesses != 1 {
		t.Fatalf("daily guess: %+v", won)
	}

	// Finished and persisted: a new request reports played.
	var after dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &after)
	if !after.Played {
		t.Fatalf("after win: %+v", after)
	}

	// The win shows up on today's leaderboard.
	resp, err := c.Get(ts.URL + "/daily/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var lb dailyLBRes
	if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
		t.Fatal(err)
	}
	if len(lb.Top) != 1 || lb.Top[0].Guesses != 1 {
		t.Fatalf("leaderboard: %+v", lb)
	}
}

func TestAuthSignupAndStats(t *testing.T) {
	ts, c := newTestServer(t, []string{"crane"})

	resp := postJSON(t, c, ts.URL+"/auth/signup", map[string]string{"username": "player_one", "password": "hunter2hunter2"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup: status=%d", resp.StatusCode)
	}

	// Cookie from signup authenticates /auth/me.
	meResp, err := c.Get(ts.URL + "/auth/me")
	if err != nil {
		t.Fatal(err)
	}
	defer meResp.Body.Close()
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("/auth/me: status=%d", meResp.StatusCode)
	}
	var me authUser
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatal(err)
	}
	if me.Username != "player_one" {
		t.Errorf("me=%+v", me)
	}

	// Win a game; stats reflect it.
	var created newGameRes
	postJSON(t, c, ts.URL+"/game/new", map[string]any{"answer": "crane"}, &created)
	postJSON(t, c, ts.URL+"/game/guess", map[string]string{"gameId": created.GameID, "guess": "crane"}, nil)

	statsResp, err := c.Get(ts.URL + "/stats/me")
	if err != nil {
		t.Fatal(err)
	}
	defer statsResp.Body.Close()
	var stats struct {
		GamesPlayed int `json:"gamesPlayed"`
		Wins        int `json:"wins"`
		Streak      int `json:"streak"`
	}
	if err := json.NewDecoder(statsResp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 || stats.Streak != 1 {
		t.Errorf("stats=%+v", stats)
	}

	// Dup username conflicts.
	resp = postJSON(t, c, ts.URL+"/auth/signup", map[string]string{"username": "player_one", "password": "hunter2hunter2"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("dup signup: status=%d, want 409", resp.StatusCode)
	}
}

func TestUnauthenticatedStatsRejected(t *testing.T) {
	ts, _ := newTestServer(t, []string{"crane"})
	resp, err := http.Get(ts.URL + "/stats/me")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status=%d, want 401", resp.StatusCode)
	}
}

func TestHealthAndDebugWords(t *testing.T) {
	ts, _ := newTestServer(t, []string{"crane", "slate"}, "adieu")

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/health: %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/debug/words")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats["answers"] != 2 || stats["allowed"] != 3 {
		t.Errorf("debug words: %v", stats)
	}
}
