// internal/daily/daily.go
//
// Deterministic daily answer selection. Every player sees the same
// puzzle for a given date without a stored schedule: the date key is
// mixed with a server-held salt through HMAC, so rotating the salt
// reshuffles the date→answer mapping without touching the word list.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index in [0, answersLen) for a date
// using HMAC-SHA256(salt, DateKey). The first 8 digest bytes are read
// as a big-endian uint64 and reduced modulo answersLen. A non-positive
// answersLen yields 0; callers own supplying a non-empty pool.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}
