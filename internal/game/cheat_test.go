package game

import (
	"reflect"
	"sort"
	"testing"
)

func TestPartitionCompleteness(t *testing.T) {
	pool := []string{"hello", "world", "quite", "fancy", "fresh", "panic", "crazy", "buggy"}
	part := PartitionPool(pool, "hello")

	var rebuilt []string
	for key, bucket := range part {
		if len(bucket) == 0 {
			t.Errorf("bucket %q is empty", key)
		}
		if len(key) != Cols {
			t.Errorf("key %q has wrong length", key)
		}
		rebuilt = append(rebuilt, bucket...)
	}
	sort.Strings(rebuilt)
	want := append([]string{}, pool...)
	sort.Strings(want)
	if !reflect.DeepEqual(rebuilt, want) {
		t.Errorf("partition union = %v, want %v", rebuilt, want)
	}
}

func TestPartitionKeysMatchScores(t *testing.T) {
	pool := []string{"crane", "slate", "plant", "clang", "glare", "grace"}
	part := PartitionPool(pool, "crane")
	for key, bucket := range part {
		for _, cand := range bucket {
			got, err := Score(cand, "crane")
			if err != nil {
				t.Fatal(err)
			}
			if patternKey(got) != key {
				t.Errorf("candidate %q in bucket %q but scores %q", cand, key, patternKey(got))
			}
		}
	}
}

func TestSelectFewestHits(t *testing.T) {
	pool := []string{"hello", "world", "quite", "fancy", "fresh", "panic", "crazy", "buggy"}
	key, bucket := SelectFewestHits(PartitionPool(pool, "hello"))

	// fancy/panic/crazy/buggy share no letters with "hello": the
	// all-miss bucket reveals least and must win.
	if key != "00000" {
		t.Fatalf("selected key = %q, want all-miss", key)
	}
	sort.Strings(bucket)
	want := []string{"buggy", "crazy", "fancy", "panic"}
	if !reflect.DeepEqual(bucket, want) {
		t.Errorf("selected bucket = %v, want %v", bucket, want)
	}
}

func TestSelectFewestHitsTieBreaks(t *testing.T) {
	// Every candidate lands in its own bucket: slate ("00202") and
	// plant ("00220") tie on 2 hits / 0 presents and bucket size, so
	// the smaller key wins.
	pool := []string{"crane", "slate", "plant", "clang", "glare", "grace"}
	key, bucket := SelectFewestHits(PartitionPool(pool, "crane"))

	hits, presents := hitsAndPresents(key)
	if hits != 2 || presents != 0 {
		t.Errorf("selected (hits=%d, presents=%d), want (2, 0)", hits, presents)
	}
	if key != "00202" || !reflect.DeepEqual(bucket, []string{"slate"}) {
		t.Errorf("selected (%q, %v), want (%q, [slate])", key, bucket, "00202")
	}
}

func TestSelectFewestHitsDeterministic(t *testing.T) {
	pool := []string{"crane", "slate", "plant", "clang", "glare", "grace"}
	firstKey, firstBucket := SelectFewestHits(PartitionPool(pool, "crane"))
	for i := 0; i < 20; i++ {
		key, bucket := SelectFewestHits(PartitionPool(pool, "crane"))
		if key != firstKey || !reflect.DeepEqual(bucket, firstBucket) {
			t.Fatalf("selection varies across runs: (%q, %v) vs (%q, %v)", key, bucket, firstKey, firstBucket)
		}
	}
}

func TestSelectLargestBucket(t *testing.T) {
	pool := []string{"hello", "world", "quite", "fancy", "fresh", "panic", "crazy", "buggy"}
	key, bucket := SelectLargestBucket(PartitionPool(pool, "hello"))
	if key != "00000" || len(bucket) != 4 {
		t.Errorf("selected (%q, %d words), want the 4-word all-miss bucket", key, len(bucket))
	}
}

func TestSelectEmptyPool(t *testing.T) {
	key, bucket := SelectFewestHits(PartitionPool(nil, "crane"))
	if key != "00000" || len(bucket) != 0 {
		t.Errorf("empty pool: got (%q, %v), want all-miss and no candidates", key, bucket)
	}
	key, bucket = SelectLargestBucket(Partition{})
	if key != "00000" || len(bucket) != 0 {
		t.Errorf("empty partition: got (%q, %v), want all-miss and no candidates", key, bucket)
	}
}

func TestMarksForKeyRoundTrip(t *testing.T) {
	for _, m := range [][]Mark{
		marks("hhhhh"),
		marks("mmmmm"),
		marks("hpmph"),
	} {
		if got := marksForKey(patternKey(m)); !reflect.DeepEqual(got, m) {
			t.Errorf("round trip %v -> %q -> %v", m, patternKey(m), got)
		}
	}
}

func TestPolicyByName(t *testing.T) {
	pool := []string{"hello", "world", "quite", "fancy", "fresh", "panic", "crazy", "buggy"}
	part := PartitionPool(pool, "hello")
	k1, _ := PolicyByName("")(part)
	k2, _ := PolicyByName("largest")(part)
	if k1 != "00000" || k2 != "00000" {
		t.Errorf("policies disagree with expected selection: %q, %q", k1, k2)
	}
	if PolicyByName("bogus") == nil {
		t.Error("unknown policy name must fall back, not return nil")
	}
}
