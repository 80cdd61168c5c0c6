package searcher

import (
	"math"
	"testing"

	"github.com/vecforge/vecforge/pkg/modelio"
	"github.com/vecforge/vecforge/pkg/vecforgeerr"
)

func fixtureModel() *modelio.Model {
	return &modelio.Model{
		LayerSize: 2,
		Words:     []string{"</s>", "king", "queen", "man", "woman"},
		Vectors: []float32{
			1, 0,
			4, 3,
			4, 4,
			2, 0,
			2, 2,
		},
	}
}

func TestContains(t *testing.T) {
	s := New(fixtureModel())
	if !s.Contains("king") {
		t.Fatalf("expected vocabulary to contain %q", "king")
	}
	if s.Contains("nonexistent") {
		t.Fatalf("did not expect vocabulary to contain %q", "nonexistent")
	}
}

func TestRawVectorReturnsUnnormalizedCopy(t *testing.T) {
	s := New(fixtureModel())
	v, err := s.RawVector("king")
	if err != nil {
		t.Fatalf("RawVector: %v", err)
	}
	if v[0] != 4 || v[1] != 3 {
		t.Fatalf("RawVector(king) = %v, want [4 3]", v)
	}
}

func TestRawVectorUnknownWord(t *testing.T) {
	s := New(fixtureModel())
	_, err := s.RawVector("nonexistent")
	if k, ok := vecforgeerr.KindOf(err); !ok || k != vecforgeerr.UnknownWord {
		t.Fatalf("expected UnknownWord kind, got %v", err)
	}
}

func TestNormalizedRowsHaveUnitNorm(t *testing.T) {
	s := New(fixtureModel())
	for i := range s.words {
		start := i * s.layerSize
		row := s.normalized[start : start+s.layerSize]
		var sumSq float64
		for _, v := range row {
			sumSq += float64(v) * float64(v)
		}
		norm := math.Sqrt(sumSq)
		if math.Abs(norm-1) > 1e-4 {
			t.Fatalf("row %d norm = %v, want ~1", i, norm)
		}
	}
}

func TestTopMatchesExcludesQueryWord(t *testing.T) {
	s := New(fixtureModel())
	matches, err := s.TopMatches("king", 1)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Word == "king" {
		t.Fatalf("TopMatches must exclude the query word itself")
	}
}

func TestTopMatchesFromVectorSelfMatch(t *testing.T) {
	s := New(fixtureModel())
	vec, err := s.normalizedVector("queen")
	if err != nil {
		t.Fatalf("normalizedVector: %v", err)
	}
	matches := s.TopMatchesFromVector(vec, 1, nil)
	if len(matches) != 1 || matches[0].Word != "queen" {
		t.Fatalf("expected self-match to queen, got %v", matches)
	}
	if math.Abs(matches[0].Score-1) > 1e-4 {
		t.Fatalf("self-match score = %v, want ~1", matches[0].Score)
	}
}

func TestCosineDistanceRange(t *testing.T) {
	s := New(fixtureModel())
	c, err := s.CosineDistance("king", "queen")
	if err != nil {
		t.Fatalf("CosineDistance: %v", err)
	}
	if c < -1.0001 || c > 1.0001 {
		t.Fatalf("CosineDistance out of range: %v", c)
	}
}

func TestAnalogyIdempotence(t *testing.T) {
	s := New(fixtureModel())
	a, err := s.Analogy("king", "king")
	if err != nil {
		t.Fatalf("Analogy: %v", err)
	}
	got, err := a.Top("queen", 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want, err := s.TopMatches("queen", 3)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("analogy(w,w).top(w,k) length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Word != want[i].Word {
			t.Fatalf("analogy(w,w).top(w,k)[%d] = %q, want %q", i, got[i].Word, want[i].Word)
		}
	}
}

func TestAnalogyExcludesThirdWord(t *testing.T) {
	s := New(fixtureModel())
	a, err := s.Analogy("king", "man")
	if err != nil {
		t.Fatalf("Analogy: %v", err)
	}
	matches, err := a.Top("woman", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	for _, m := range matches {
		if m.Word == "woman" {
			t.Fatalf("analogy result must exclude the query word itself")
		}
	}
}
