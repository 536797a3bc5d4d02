package news

import (
	"reflect"
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("https://example.com/story")
	b := Fingerprint("https://example.com/story")
	if a != b {
		t.Errorf("same URL must give same fingerprint: %s vs %s", a, b)
	}
	if a == Fingerprint("https://example.com/other") {
		t.Errorf("different URLs must not collide")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256 (64 chars), got %d", len(a))
	}
}

func TestSelectTopOrdersByScore(t *testing.T) {
	items := []Item{
		{Title: "low", Score: 1.0},
		{Title: "high", Score: 7.0},
		{Title: "mid", Score: 4.0},
	}
	got := SelectTop(items, 10)
	if got[0].Title != "high" || got[1].Title != "mid" || got[2].Title != "low" {
		t.Errorf("wrong order: %v", titles(got))
	}
}

func TestSelectTopTruncates(t *testing.T) {
	for mergedCount := 0; mergedCount <= 5; mergedCount++ {
		items := make([]Item, mergedCount)
		got := SelectTop(items, 3)
		want := mergedCount
		if want > 3 {
			want = 3
		}
		if len(got) != want {
			t.Errorf("mergedCount=%d: expected %d selected, got %d", mergedCount, want, len(got))
		}
	}
}

func TestSelectTopStableTieBreak(t *testing.T) {
	items := []Item{
		{Title: "first", Score: 2.0},
		{Title: "second", Score: 2.0},
		{Title: "third", Score: 2.0},
	}
	got := SelectTop(items, 3)
	if got[0].Title != "first" || got[1].Title != "second" || got[2].Title != "third" {
		t.Errorf("ties must keep arrival order: %v", titles(got))
	}
}

func TestSelectTopDeterministic(t *testing.T) {
	items := []Item{
		{Title: "a", Score: 3.0},
		{Title: "b", Score: 3.0},
		{Title: "c", Score: 5.0},
		{Title: "d", Score: 1.0},
	}
	first := titles(SelectTop(items, 4))
	for i := 0; i < 20; i++ {
		if got := titles(SelectTop(items, 4)); !reflect.DeepEqual(got, first) {
			t.Fatalf("selection order changed between runs: %v vs %v", first, got)
		}
	}
}

func TestSelectTopDoesNotMutateInput(t *testing.T) {
	items := []Item{
		{Title: "low", Score: 1.0},
		{Title: "high", Score: 9.0},
	}
	SelectTop(items, 2)
	if items[0].Title != "low" {
		t.Errorf("input slice was reordered")
	}
}

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}
