package pipeline

import (
	"fmt"
	"testing"
)

func TestChunk_ExhaustiveAndNonOverlapping(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 10, 11, 23} {
		for _, k := range []int{1, 5, 8} {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				titles := make([]string, n)
				for i := range titles {
					titles[i] = fmt.Sprint(i)
				}
				in := cands(titles...)
				chunks := Chunk(in, k)

				var rebuilt []string
				for i, c := range chunks {
					if len(c) == 0 || len(c) > k {
						t.Fatalf("chunk %d has size %d", i, len(c))
					}
					if i < len(chunks)-1 && len(c) != k {
						t.Fatalf("non-final chunk %d has size %d, want %d", i, len(c), k)
					}
					for _, cand := range c {
						rebuilt = append(rebuilt, cand.Title)
					}
				}
				if len(rebuilt) != n {
					t.Fatalf("rebuilt %d candidates, want %d", len(rebuilt), n)
				}
				for i, title := range rebuilt {
					if title != titles[i] {
						t.Fatalf("position %d = %q, want %q", i, title, titles[i])
					}
				}
			})
		}
	}
}

func TestChunk_NonPositiveSizeIsOneChunk(t *testing.T) {
	if got := Chunk(cands("a", "b", "c"), 0); len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("chunks = %v", got)
	}
}

func TestChunk_AppendDoesNotClobberNextChunk(t *testing.T) {
	chunks := Chunk(cands("a", "b", "c", "d"), 2)
	_ = append(chunks[0], cands("z")...)
	if chunks[1][0].Title != "c" {
		t.Errorf("second chunk was overwritten: %q", chunks[1][0].Title)
	}
}

func TestCursor_Sequence(t *testing.T) {
	c := NewCursor(5)
	for _, want := range []int{5, 6, 7} {
		if got := c.Next(); got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
	if c.Peek() != 8 {
		t.Errorf("Peek() = %d, want 8", c.Peek())
	}
}
