package lang

import (
	"sync"
	"testing"
)

func TestParseString_Cached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseString(t.Context(), endToEnd)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseString(t.Context(), endToEnd)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first != second {
		t.Error("expected cache hit to return the same program")
	}

	other, err := ParseString(t.Context(), endToEnd, WithMaxDepth(50))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if other == first {
		t.Error("expected distinct options to parse separately")
	}

	ClearCache()

	fresh, err := ParseString(t.Context(), endToEnd)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if fresh == first {
		t.Error("expected ClearCache to drop cached programs")
	}
}

func TestParseString_ErrorNotCached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	_, first := ParseString(t.Context(), "ret (1;")
	_, second := ParseString(t.Context(), "ret (1;")

	if first == nil || second == nil {
		t.Fatalf("expected errors, got %v and %v", first, second)
	}

	if n := CacheSize(); n != 0 {
		t.Errorf("expected failed parses evicted, cache holds %d", n)
	}
}

func TestParseString_WithoutCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseString(t.Context(), endToEnd, WithCache(false))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseString(t.Context(), endToEnd, WithCache(false))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first == second {
		t.Error("expected uncached parses to return distinct programs")
	}

	if n := CacheSize(); n != 0 {
		t.Errorf("expected empty cache, holds %d", n)
	}
}

func TestParseString_ConcurrentCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const workers = 16

	progs := make([]*Program, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			prog, err := ParseString(t.Context(), endToEnd)
			if err != nil {
				t.Errorf("parse error: %v", err)
			}

			progs[i] = prog
		})
	}

	wg.Wait()

	for i, prog := range progs {
		if prog != progs[0] {
			t.Errorf("worker %d parsed a distinct program", i)
		}
	}
}
