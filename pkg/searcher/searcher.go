// Package searcher provides cosine-similarity lookups over a trained
// embedding: nearest-neighbor queries, analogy arithmetic, and raw vector
// access. The searcher takes a one-time L2-normalized snapshot of the
// model's weight matrix at construction and never mutates it afterward.
package searcher

import (
	"sort"

	"github.com/vecforge/vecforge/internal/simd"
	"github.com/vecforge/vecforge/pkg/modelio"
	"github.com/vecforge/vecforge/pkg/vecforgeerr"
	"gonum.org/v1/gonum/floats"
)

// Match is a single scored result from a nearest-neighbor query.
type Match struct {
	Word  string
	Score float64
}

// Searcher answers nearest-neighbor and analogy queries against a trained
// embedding. It is read-only and safe for concurrent use.
type Searcher struct {
	layerSize  int
	raw        []float32 // the model's original syn0, row-major
	normalized []float32 // L2-normalized copy, row-major
	wordIndex  map[string]int
	words      []string
}

// New builds a Searcher from a trained model, L2-normalizing a private
// copy of its embedding matrix. Rows with zero norm are divided by zero
// like every other row (their entries become NaN), matching the
// reference's behavior for degenerate vocabulary entries.
func New(m *modelio.Model) *Searcher {
	s := &Searcher{
		layerSize: m.LayerSize,
		raw:       append([]float32(nil), m.Vectors...),
		words:     append([]string(nil), m.Words...),
		wordIndex: make(map[string]int, len(m.Words)),
	}
	for i, w := range m.Words {
		s.wordIndex[w] = i
	}

	s.normalized = append([]float32(nil), m.Vectors...)
	row := make([]float64, m.LayerSize)
	for i := 0; i < len(m.Words); i++ {
		start := i * m.LayerSize
		chunk := s.normalized[start : start+m.LayerSize]
		for j, v := range chunk {
			row[j] = float64(v)
		}
		norm := floats.Norm(row, 2)
		for j := range chunk {
			chunk[j] = float32(float64(chunk[j]) / norm)
		}
	}
	return s
}

// Contains reports whether word is present in the vocabulary.
func (s *Searcher) Contains(word string) bool {
	_, ok := s.wordIndex[word]
	return ok
}

// RawVector returns a copy of the model's original (un-normalized)
// embedding for word.
func (s *Searcher) RawVector(word string) ([]float32, error) {
	idx, ok := s.wordIndex[word]
	if !ok {
		return nil, vecforgeerr.New(vecforgeerr.UnknownWord, "unknown word: "+word)
	}
	start := idx * s.layerSize
	out := make([]float32, s.layerSize)
	copy(out, s.raw[start:start+s.layerSize])
	return out, nil
}

func (s *Searcher) normalizedVector(word string) ([]float32, error) {
	idx, ok := s.wordIndex[word]
	if !ok {
		return nil, vecforgeerr.New(vecforgeerr.UnknownWord, "unknown word: "+word)
	}
	start := idx * s.layerSize
	return s.normalized[start : start+s.layerSize], nil
}

// TopMatches returns the k vocabulary entries with the highest
// dot-product against word's normalized vector, excluding word itself.
func (s *Searcher) TopMatches(word string, k int) ([]Match, error) {
	vec, err := s.normalizedVector(word)
	if err != nil {
		return nil, err
	}
	ignore := map[string]bool{word: true}
	return s.TopMatchesFromVector(vec, k, ignore), nil
}

// TopMatchesFromVector returns the k vocabulary entries with the highest
// dot-product against vec, excluding any word present in ignore.
func (s *Searcher) TopMatchesFromVector(vec []float32, k int, ignore map[string]bool) []Match {
	matches := make([]Match, 0, len(s.words))
	for i, w := range s.words {
		if ignore[w] {
			continue
		}
		start := i * s.layerSize
		row := s.normalized[start : start+s.layerSize]
		var dot float64
		simd.DotProduct(&dot, vec, row)
		matches = append(matches, Match{Word: w, Score: dot})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k >= 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches
}

// CosineDistance returns the dot product of the two words' normalized
// vectors. Despite the name this is a similarity in [-1, 1], not a
// distance.
func (s *Searcher) CosineDistance(w1, w2 string) (float64, error) {
	v1, err := s.normalizedVector(w1)
	if err != nil {
		return 0, err
	}
	v2, err := s.normalizedVector(w2)
	if err != nil {
		return 0, err
	}
	var cos float64
	simd.Cosine(&cos, v1, v2)
	return cos, nil
}

// Analogy returns a capability for computing analogies of the form
// w1 is to w2 as w3 is to ?.
type Analogy struct {
	s    *Searcher
	diff []float32
}

// Analogy precomputes normalized(w1) - normalized(w2) for later use
// against any w3.
func (s *Searcher) Analogy(w1, w2 string) (*Analogy, error) {
	v1, err := s.normalizedVector(w1)
	if err != nil {
		return nil, err
	}
	v2, err := s.normalizedVector(w2)
	if err != nil {
		return nil, err
	}
	diff := make([]float32, len(v1))
	for i := range diff {
		diff[i] = v1[i] - v2[i]
	}
	return &Analogy{s: s, diff: diff}, nil
}

// Top returns the top-k matches to normalized(w3) - diff, excluding w3.
func (a *Analogy) Top(w3 string, k int) ([]Match, error) {
	v3, err := a.s.normalizedVector(w3)
	if err != nil {
		return nil, err
	}
	vec := make([]float32, len(v3))
	for i := range vec {
		vec[i] = v3[i] - a.diff[i]
	}
	ignore := map[string]bool{w3: true}
	return a.s.TopMatchesFromVector(vec, k, ignore), nil
}
