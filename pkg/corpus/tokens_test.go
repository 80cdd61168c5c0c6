package corpus

import (
	"io"
	"strings"
	"testing"
)

func drain(t *testing.T, ts *TokenStream) []string {
	t.Helper()
	var out []string
	for {
		tok, err := ts.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, tok)
	}
	return out
}

func TestTokenStreamInsertsSentenceBoundaries(t *testing.T) {
	src := NewSliceSource([][]string{
		{"the", "quick", "fox"},
		{"jumps"},
	})
	r, err := src.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	got := drain(t, NewTokenStream(r))
	want := []string{"the", "quick", "fox", EndOfSentence, "jumps", EndOfSentence}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenStreamTruncatesLongWords(t *testing.T) {
	long := strings.Repeat("a", 150)
	src := NewSliceSource([][]string{{long}})
	r, _ := src.Open()
	defer r.Close()

	got := drain(t, NewTokenStream(r))
	if len(got[0]) != maxWordBytes {
		t.Fatalf("want truncation to %d bytes, got %d", maxWordBytes, len(got[0]))
	}
}

func TestSliceSourceRestartable(t *testing.T) {
	src := NewSliceSource([][]string{{"a", "b"}})
	for i := 0; i < 3; i++ {
		r, err := src.Open()
		if err != nil {
			t.Fatalf("Open iteration %d: %v", i, err)
		}
		got := drain(t, NewTokenStream(r))
		if len(got) != 3 {
			t.Fatalf("iteration %d: want 3 tokens, got %d (%v)", i, len(got), got)
		}
	}
}
