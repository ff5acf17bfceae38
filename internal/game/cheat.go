// internal/game/cheat.go
//
// Adversarial host machinery for cheat mode.
// The host never commits to an answer up front: each guess partitions
// the remaining candidate pool by the mark pattern every candidate
// would produce, and a selection policy picks which bucket survives.
//
// Pattern keys encode one byte per position: '0' miss, '1' present,
// '2' hit. Keys double as map keys for partitions and decode back to
// mark slices for responses.

package game

import "strings"

// Partition maps a pattern key to the pool subset that would produce it.
// Buckets are disjoint and non-empty; their union is the input pool.
type Partition map[string][]string

// PartitionPool groups pool by the marks each candidate would yield
// against guess, were that candidate the answer. The input slice is
// not mutated. O(len(pool) * Cols).
func PartitionPool(pool []string, guess string) Partition {
	part := make(Partition)
	for _, cand := range pool {
		key := patternKey(scoreWords(cand, guess))
		part[key] = append(part[key], cand)
	}
	return part
}

// patternKey encodes marks as a fixed-length key string.
func patternKey(marks []Mark) string {
	var b strings.Builder
	b.Grow(len(marks))
	for _, m := range marks {
		b.WriteByte(byte('0' + m.rank()))
	}
	return b.String()
}

// marksForKey decodes a pattern key back into marks.
func marksForKey(key string) []Mark {
	marks := make([]Mark, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '2':
			marks[i] = MarkHit
		case '1':
			marks[i] = MarkPresent
		default:
			marks[i] = MarkMiss
		}
	}
	return marks
}

// allMissKey is the pattern returned when no candidates remain. The
// round limit then ends the session as a loss instead of a panic.
func allMissKey() string {
	return strings.Repeat("0", Cols)
}

// hitsAndPresents counts '2' and '1' bytes in a pattern key.
func hitsAndPresents(key string) (hits, presents int) {
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '2':
			hits++
		case '1':
			presents++
		}
	}
	return hits, presents
}

// SelectionPolicy chooses which partition bucket becomes the new
// candidate pool. Implementations must be deterministic: map iteration
// order must never influence the result.
type SelectionPolicy func(Partition) (key string, bucket []string)

// SelectFewestHits is the canonical adversarial policy: fewest hits
// first, then fewest presents, revealing as little positional and
// membership information as possible. Remaining ties go to the larger
// bucket, then the smallest key string, so selection is reproducible.
func SelectFewestHits(part Partition) (string, []string) {
	var bestKey string
	found := false
	for key := range part {
		if !found || fewerReveals(key, bestKey, part) {
			bestKey, found = key, true
		}
	}
	if !found {
		return allMissKey(), nil
	}
	return bestKey, part[bestKey]
}

// fewerReveals reports whether bucket a beats bucket b under the
// fewest-hits policy ordering.
func fewerReveals(a, b string, part Partition) bool {
	ah, ap := hitsAndPresents(a)
	bh, bp := hitsAndPresents(b)
	if ah != bh {
		return ah < bh
	}
	if ap != bp {
		return ap < bp
	}
	if len(part[a]) != len(part[b]) {
		return len(part[a]) > len(part[b])
	}
	return a < b
}

// SelectLargestBucket is the alternate policy: keep the numerically
// largest bucket regardless of what its pattern reveals. Ties break by
// fewest hits, then fewest presents, then smallest key.
func SelectLargestBucket(part Partition) (string, []string) {
	var bestKey string
	found := false
	for key := range part {
		if !found || largerBucket(key, bestKey, part) {
			bestKey, found = key, true
		}
	}
	if !found {
		return allMissKey(), nil
	}
	return bestKey, part[bestKey]
}

func largerBucket(a, b string, part Partition) bool {
	if len(part[a]) != len(part[b]) {
		return len(part[a]) > len(part[b])
	}
	ah, ap := hitsAndPresents(a)
	bh, bp := hitsAndPresents(b)
	if ah != bh {
		return ah < bh
	}
	if ap != bp {
		return ap < bp
	}
	return a < b
}

// PolicyByName resolves a wire-level policy name. Empty or unknown
// names fall back to the canonical fewest-hits policy.
func PolicyByName(name string) SelectionPolicy {
	if name == "largest" {
		return SelectLargestBucket
	}
	return SelectFewestHits
}
