// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Mark: per-letter result of a guess (hit/present/miss).
//   - Mode, State: session variant and lifecycle enums.
//   - Session: state for a single in-progress or finished game.

package game

import "github.com/quintle/server/internal/words"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    letter does not occur in the (remaining) answer.
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// rank orders marks by how much they reveal: hit > present > miss.
// Used only for keyboard hint aggregation, never for scoring.
func (m Mark) rank() int {
	switch m {
	case MarkHit:
		return 2
	case MarkPresent:
		return 1
	default:
		return 0
	}
}

// Mode selects the guess-evaluation strategy for a session.
type Mode string

const (
	ModeNormal Mode = "normal" // answer committed at creation
	ModeCheat  Mode = "cheat"  // adversarial host, answer deferred
	ModeDaily  Mode = "daily"  // answer fixed by the daily seed
)

// State is the coarse lifecycle of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Session holds the state of a single game across rounds.
// A Session is not safe for concurrent use; callers must serialize
// access per session id (see store.Store.WithLock).
type Session struct {
	ID        string   // unique identifier (random hex string)
	Mode      Mode     // normal | cheat | daily
	MaxRounds int      // maximum guesses allowed (1..10)
	Rounds    int      // guesses consumed so far
	State     State    // playing | won | lost
	Guesses   []string // accepted guesses, lowercased
	History   [][]Mark // marks returned per accepted guess

	eval evaluator
	dict *words.Dictionary
}
