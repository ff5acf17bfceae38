// internal/game/engine.go
//
// Guess scoring for a single round.
// Responsibilities:
//   - Validate word shape (fixed length, alphabetic a-z).
//   - Score guesses using the classic two-pass algorithm, with correct
//     multiset accounting for repeated letters.
//
// Notes:
//   - Both words must already be normalized to lowercase.
//   - Mark is an enum defined in this package (MarkHit/MarkPresent/MarkMiss).

package game

const (
	defaultRows = 6
	maxRows     = 10

	// Cols is the board width: letters per word.
	Cols = 5
)

// Score evaluates guess against answer and returns per-letter marks.
// Both inputs must be normalized lowercase words of exactly Cols
// letters; otherwise ErrInvalidWordFormat is returned and nothing is
// scored. Deterministic and side-effect free.
func Score(answer, guess string) ([]Mark, error) {
	if !validWord(answer) || !validWord(guess) {
		return nil, ErrInvalidWordFormat
	}
	return scoreWords(answer, guess), nil
}

// scoreWords implements the two-pass scoring algorithm on words already
// known to be well-formed.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count remaining (non-hit) answer letters.
//
// Pass 2:
//   - For each non-hit guess letter, scanning left to right: if there
//     is remaining count for that letter, mark Present and decrement;
//     otherwise mark Miss.
//
// The left-to-right scan in pass 2 means earlier occurrences of a
// repeated guess letter claim the remaining answer letters first, and
// the total Hit+Present credit for a letter never exceeds its count in
// the answer.
func scoreWords(answer, guess string) []Mark {
	res := make([]Mark, Cols)

	// Letter frequency for the non-hit positions (a-z).
	var counts [26]int

	for i := 0; i < Cols; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkHit
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < Cols; i++ {
		if res[i] == MarkHit {
			continue
		}
		j := int(guess[i] - 'a')
		if counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

// validWord reports whether s is exactly Cols lowercase ASCII letters.
func validWord(s string) bool {
	if len(s) != Cols {
		return false
	}
	return isAlpha(s)
}

// isAlpha checks that a string consists only of lowercase a-z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// allHit returns true if every mark is MarkHit.
func allHit(m []Mark) bool {
	for _, x := range m {
		if x != MarkHit {
			return false
		}
	}
	return true
}
