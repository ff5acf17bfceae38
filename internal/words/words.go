// internal/words/words.go
//
// Word list management for the game engine.
//
// A Dictionary is an explicit value constructed once at startup and
// passed by reference into session creation; there is no lazy
// package-level state. It holds:
//   - "answers": canonical solutions (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always a superset of answers).
//
// Loading behavior (Load):
//   1. If WORDS_ANSWERS_FILE and WORDS_ALLOWED_FILE are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only WORDS_ALLOWED_FILE is set, use it for both.
//   3. Otherwise fall back to the embedded defaults in the assets
//      package.
//
// Constraints:
//   - Words must be 5 alphabetic letters (a-z).
//   - Lists are normalized to lowercase; malformed lines are dropped.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/quintle/server/assets"
)

const wordLen = 5

// Dictionary holds the normalized answer list and allowed-guess set.
type Dictionary struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses
}

// New builds a Dictionary from raw word lists. Both lists are
// normalized and filtered; answers are always allowed as guesses.
// Returns an error if no valid answers remain.
func New(answers, allowed []string) (*Dictionary, error) {
	d := &Dictionary{
		answersSet: make(map[string]struct{}),
		allowedSet: make(map[string]struct{}),
	}
	for _, w := range answers {
		w = normalize(w)
		if w == "" {
			continue
		}
		if _, dup := d.answersSet[w]; dup {
			continue
		}
		d.answers = append(d.answers, w)
		d.answersSet[w] = struct{}{}
		d.allowedSet[w] = struct{}{}
	}
	for _, w := range allowed {
		if w = normalize(w); w != "" {
			d.allowedSet[w] = struct{}{}
		}
	}
	if len(d.answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	return d, nil
}

// Load constructs a Dictionary from environment-provided files or the
// embedded defaults.
func Load() (*Dictionary, error) {
	answersPath := os.Getenv("WORDS_ANSWERS_FILE")
	allowedPath := os.Getenv("WORDS_ALLOWED_FILE")

	switch {
	case answersPath != "" && allowedPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(ans, all)

	case answersPath == "" && allowedPath != "":
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(all, all)

	default:
		ans, err := assets.AnswersList()
		if err != nil {
			return nil, err
		}
		all, err := assets.AllowedList()
		if err != nil {
			return nil, err
		}
		return New(ans, all)
	}
}

// Answers returns the canonical answer list. Callers must not mutate it.
func (d *Dictionary) Answers() []string { return d.answers }

// RandomAnswer returns a cryptographically random answer.
func (d *Dictionary) RandomAnswer() string {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(d.answers))))
	return d.answers[nBig.Int64()]
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (d *Dictionary) IsAllowed(w string) bool {
	_, ok := d.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (d *Dictionary) IsAnswer(w string) bool {
	_, ok := d.answersSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount, allowedCount int) {
	return len(d.answers), len(d.allowedSet)
}

// readWordFile loads one word per line, dropping anything that does not
// normalize to a valid word.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalize(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalize lowercases and trims s, returning "" if it is not a valid
// 5-letter a-z word.
func normalize(s string) string {
	w := strings.TrimSpace(strings.ToLower(s))
	if len(w) != wordLen || !isAlpha(w) {
		return ""
	}
	return w
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
