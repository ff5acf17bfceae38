// internal/game/session.go
//
// The session state machine shared by all three modes.
// Responsibilities:
//   - Create sessions with bounded dimensions and a per-mode strategy.
//   - Validate and apply guesses; track playing → won/lost transitions.
//   - Aggregate keyboard hints from revealed marks.
//
// Only guess evaluation differs between modes, so it sits behind the
// evaluator interface: a fixed answer for normal/daily, the adversarial
// host for cheat. The machine itself is identical in shape for all.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/quintle/server/internal/words"
)

// evaluator produces the marks for one accepted guess. Implementations
// may mutate their own state (the cheat host narrows its pool) but
// never the session.
type evaluator interface {
	evaluate(guess string) []Mark
}

// fixedAnswer scores every guess against one committed word.
type fixedAnswer struct {
	answer string
}

func (f *fixedAnswer) evaluate(guess string) []Mark {
	return scoreWords(f.answer, guess)
}

// cheatHost defers commitment: it partitions the candidate pool on
// every guess and keeps the bucket its policy selects. Once the pool
// collapses to a single word that word is finalized and scoring
// becomes direct; the host never re-partitions after that.
type cheatHost struct {
	pool      []string
	finalized string
	policy    SelectionPolicy
}

func (c *cheatHost) evaluate(guess string) []Mark {
	if c.finalized != "" {
		return scoreWords(c.finalized, guess)
	}
	key, bucket := c.policy(PartitionPool(c.pool, guess))
	c.pool = bucket
	if len(bucket) == 1 {
		c.finalized = bucket[0]
	}
	return marksForKey(key)
}

// NewNormal constructs a standard session. If withAnswer is empty a
// random answer is drawn from the dictionary; otherwise withAnswer must
// be a well-formed word (fixed answers are used by tests and rematch
// flows).
func NewNormal(dict *words.Dictionary, maxRounds int, withAnswer string) (*Session, error) {
	ans := strings.ToLower(withAnswer)
	if ans == "" {
		ans = dict.RandomAnswer()
	}
	if !validWord(ans) {
		return nil, ErrInvalidWordFormat
	}
	s := newSession(ModeNormal, dict, maxRounds)
	s.eval = &fixedAnswer{answer: ans}
	return s, nil
}

// NewDaily constructs a daily session for an answer already chosen by
// the seed derivation. The caller owns computing the answer from the
// date, salt, and answer pool (see the daily package).
func NewDaily(dict *words.Dictionary, maxRounds int, answer string) (*Session, error) {
	answer = strings.ToLower(answer)
	if !validWord(answer) {
		return nil, ErrInvalidWordFormat
	}
	s := newSession(ModeDaily, dict, maxRounds)
	s.eval = &fixedAnswer{answer: answer}
	return s, nil
}

// NewCheat constructs an adversarial-host session over the dictionary's
// full answer pool. A nil policy means SelectFewestHits.
func NewCheat(dict *words.Dictionary, maxRounds int, policy SelectionPolicy) (*Session, error) {
	if policy == nil {
		policy = SelectFewestHits
	}
	pool := dict.Answers()
	if len(pool) == 0 {
		return nil, ErrInvalidWordFormat
	}
	s := newSession(ModeCheat, dict, maxRounds)
	s.eval = &cheatHost{pool: append([]string{}, pool...), policy: policy}
	return s, nil
}

func newSession(mode Mode, dict *words.Dictionary, maxRounds int) *Session {
	if maxRounds <= 0 {
		maxRounds = defaultRows
	}
	if maxRounds > maxRows {
		maxRounds = maxRows
	}
	return &Session{
		ID:        randomID(),
		Mode:      mode,
		MaxRounds: maxRounds,
		State:     StatePlaying,
		Guesses:   []string{},
		dict:      dict,
	}
}

// ApplyGuess validates and scores a guess, mutating the session state.
// Returns the per-letter marks and the new state.
//
// Validation order:
//   - Shape (length, a-z)     → ErrInvalidGuess, round not consumed.
//   - Allowed dictionary      → ErrWordNotAllowed, round not consumed.
//   - Session already over    → ErrSessionFinished, no effect.
//
// State transitions:
//   - All marks Hit → won.
//   - Else rounds reaching MaxRounds → lost.
func (s *Session) ApplyGuess(guess string) ([]Mark, State, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))
	if !validWord(guess) {
		return nil, s.State, ErrInvalidGuess
	}
	if s.dict != nil && !s.dict.IsAllowed(guess) {
		return nil, s.State, ErrWordNotAllowed
	}
	if s.State != StatePlaying {
		return nil, s.State, ErrSessionFinished
	}

	s.Rounds++
	marks := s.eval.evaluate(guess)
	s.Guesses = append(s.Guesses, guess)
	s.History = append(s.History, marks)

	if allHit(marks) {
		s.State = StateWon
	} else if s.Rounds >= s.MaxRounds {
		s.State = StateLost
	}
	return marks, s.State, nil
}

// Candidates returns the remaining cheat-mode pool, or nil for other
// modes. The returned slice is a copy.
func (s *Session) Candidates() []string {
	if c, ok := s.eval.(*cheatHost); ok {
		return append([]string{}, c.pool...)
	}
	return nil
}

// Answer returns the committed answer: the fixed word for normal/daily,
// the finalized word for cheat mode, or "" while the host is still
// uncommitted.
func (s *Session) Answer() string {
	switch e := s.eval.(type) {
	case *fixedAnswer:
		return e.answer
	case *cheatHost:
		return e.finalized
	}
	return ""
}

// KeyboardHints folds the session's revealed marks into a best-known
// mark per letter, upgrading only (hit > present > miss). Drives
// client keyboard coloring.
func (s *Session) KeyboardHints() map[string]Mark {
	hints := make(map[string]Mark)
	for i, g := range s.Guesses {
		for j := 0; j < len(g); j++ {
			letter := string(g[j])
			m := s.History[i][j]
			if prev, ok := hints[letter]; !ok || m.rank() > prev.rank() {
				hints[letter] = m
			}
		}
	}
	return hints
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
