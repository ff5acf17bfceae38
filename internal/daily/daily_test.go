package daily

import (
	"testing"
	"time"
)

func TestDateKeyUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 01:30 on the 2nd in UTC+9 is still the 1st in UTC.
	ts := time.Date(2024, 3, 2, 1, 30, 0, 0, loc)
	if got := DateKey(ts); got != "2024-03-01" {
		t.Errorf("DateKey = %q, want 2024-03-01", got)
	}
}

func TestWordIndexDeterministic(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := WordIndex(date, "salt", 2309)
	b := WordIndex(date, "salt", 2309)
	if a != b {
		t.Fatalf("same inputs gave %d and %d", a, b)
	}
	// Time of day must not matter, only the date.
	later := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
	if c := WordIndex(later, "salt", 2309); c != a {
		t.Errorf("same date, different time: %d vs %d", c, a)
	}
}

func TestWordIndexRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, size := range []int{1, 2, 7, 55, 2309} {
		for day := 0; day < 60; day++ {
			idx := WordIndex(start.AddDate(0, 0, day), "salt", size)
			if idx < 0 || idx >= size {
				t.Fatalf("index %d out of [0,%d)", idx, size)
			}
		}
	}
}

func TestWordIndexEmptyPool(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := WordIndex(date, "salt", 0); got != 0 {
		t.Errorf("poolSize 0: got %d, want 0", got)
	}
	if got := WordIndex(date, "salt", -4); got != 0 {
		t.Errorf("poolSize -4: got %d, want 0", got)
	}
}

func TestWordIndexSaltReshuffles(t *testing.T) {
	// A salt change is not required to move every single date, but
	// across a window of dates the two mappings must diverge somewhere.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	same := true
	for day := 0; day < 30; day++ {
		d := start.AddDate(0, 0, day)
		if WordIndex(d, "salt_a", 2309) != WordIndex(d, "salt_b", 2309) {
			same = false
			break
		}
	}
	if same {
		t.Error("30 consecutive dates map identically under different salts")
	}
}
