package mcpserver

import "github.com/vecforge/vecforge/pkg/searcher"

// searcherBackend adapts a *searcher.Searcher to the Backend interface.
type searcherBackend struct {
	s *searcher.Searcher
}

// NewSearcherBackend wraps s as an MCP Backend.
func NewSearcherBackend(s *searcher.Searcher) Backend {
	return searcherBackend{s: s}
}

func (b searcherBackend) Contains(word string) bool {
	return b.s.Contains(word)
}

func (b searcherBackend) TopMatches(word string, k int) ([]Match, error) {
	matches, err := b.s.TopMatches(word, k)
	if err != nil {
		return nil, err
	}
	return toMatches(matches), nil
}

func (b searcherBackend) CosineDistance(w1, w2 string) (float64, error) {
	return b.s.CosineDistance(w1, w2)
}

func (b searcherBackend) AnalogyTop(w1, w2, w3 string, k int) ([]Match, error) {
	a, err := b.s.Analogy(w1, w2)
	if err != nil {
		return nil, err
	}
	matches, err := a.Top(w3, k)
	if err != nil {
		return nil, err
	}
	return toMatches(matches), nil
}

func toMatches(in []searcher.Match) []Match {
	out := make([]Match, len(in))
	for i, m := range in {
		out[i] = Match{Word: m.Word, Score: m.Score}
	}
	return out
}
