package vocab

import (
	"io"
	"testing"
)

type sliceTokens struct {
	toks []string
	pos  int
}

func (s *sliceTokens) Next() (string, error) {
	if s.pos >= len(s.toks) {
		return "", io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func TestBuildFromCorpusCountsAndSentinel(t *testing.T) {
	v := New()
	toks := &sliceTokens{toks: []string{"the", "fox", "the", EndOfSentence, "the"}}
	if err := v.BuildFromCorpus(toks); err != nil {
		t.Fatalf("BuildFromCorpus: %v", err)
	}

	if v.Entry(0).Word != EndOfSentence {
		t.Fatalf("index 0 must be sentinel, got %q", v.Entry(0).Word)
	}
	if v.Entry(0).Count != 1 {
		t.Fatalf("sentinel count: want 1, got %d", v.Entry(0).Count)
	}

	idx, ok := v.IndexOf("the")
	if !ok {
		t.Fatalf("expected 'the' in vocabulary")
	}
	if v.Entry(idx).Count != 3 {
		t.Fatalf("'the' count: want 3, got %d", v.Entry(idx).Count)
	}

	if _, ok := v.IndexOf("fox"); !ok {
		t.Fatalf("expected 'fox' in vocabulary")
	}
}

func TestFinalizeSortsDescendingAndPinsSentinel(t *testing.T) {
	v := New()
	toks := &sliceTokens{toks: []string{
		"rare", "common", "common", "common", "mid", "mid", EndOfSentence,
	}}
	if err := v.BuildFromCorpus(toks); err != nil {
		t.Fatalf("BuildFromCorpus: %v", err)
	}
	v.Finalize(0)

	if v.Entry(0).Word != EndOfSentence {
		t.Fatalf("finalize must keep sentinel at index 0")
	}
	for i := 2; i < v.Len(); i++ {
		if v.Entry(i).Count > v.Entry(i-1).Count {
			t.Fatalf("entries not sorted descending at %d: %d > %d", i, v.Entry(i).Count, v.Entry(i-1).Count)
		}
	}
}

func TestFinalizeDropsBelowMinCount(t *testing.T) {
	v := New()
	toks := &sliceTokens{toks: []string{"keep", "keep", "keep", "drop", EndOfSentence}}
	if err := v.BuildFromCorpus(toks); err != nil {
		t.Fatalf("BuildFromCorpus: %v", err)
	}
	v.Finalize(2)

	if _, ok := v.IndexOf("drop"); ok {
		t.Fatalf("'drop' should have been dropped below min_count")
	}
	if _, ok := v.IndexOf("keep"); !ok {
		t.Fatalf("'keep' should survive min_count filtering")
	}
}

func TestBuildFromOverrideSkipsCorpusScan(t *testing.T) {
	v := New()
	v.BuildFromOverride(FrequencyTable{"alpha": 10, "beta": 3})

	if v.Len() != 3 { // sentinel + 2
		t.Fatalf("want 3 entries (sentinel + 2), got %d", v.Len())
	}
	idx, ok := v.IndexOf("alpha")
	if !ok || v.Entry(idx).Count != 10 {
		t.Fatalf("alpha entry incorrect")
	}
}

func TestReduceDropsLowCountEntriesAndBumpsThreshold(t *testing.T) {
	v := New()
	v.BuildFromOverride(FrequencyTable{"a": 1, "b": 5})
	before := v.minReduce
	v.Reduce()
	if v.minReduce != before+1 {
		t.Fatalf("min_reduce should post-increment: before=%d after=%d", before, v.minReduce)
	}
	if _, ok := v.IndexOf("a"); ok {
		t.Fatalf("'a' with count<=min_reduce should have been dropped")
	}
	if _, ok := v.IndexOf("b"); !ok {
		t.Fatalf("'b' should survive reduce")
	}
}

func TestHashNonNegative(t *testing.T) {
	words := []string{"", "a", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"}
	for _, w := range words {
		h := hash(w)
		if h >= HashSize {
			t.Fatalf("hash(%q) = %d out of range [0, %d)", w, h, HashSize)
		}
	}
}
