// Package modelio defines the language-neutral output model record and a
// concrete (non-canonical) wire encoding for round-tripping it. This is not
// the ported textual word2vec format — that conversion remains an external
// collaborator's concern.
package modelio

// Model is the trained output: embedding dimensionality, the ordered
// vocabulary (index 0 is always the end-of-sentence sentinel), and the
// flat, row-major syn0 matrix of length len(Words) * LayerSize.
type Model struct {
	LayerSize int       `msgpack:"layer_size"`
	Words     []string  `msgpack:"words"`
	Vectors   []float32 `msgpack:"vectors"`
}

// VocabSize returns the number of vocabulary entries, including the sentinel.
func (m *Model) VocabSize() int {
	return len(m.Words)
}

// Vector returns the embedding row for the word at idx.
func (m *Model) Vector(idx int) []float32 {
	start := idx * m.LayerSize
	return m.Vectors[start : start+m.LayerSize]
}

// Equal compares two models field-for-field, as required by the output
// model's equality contract.
func (m *Model) Equal(other *Model) bool {
	if other == nil {
		return false
	}
	if m.LayerSize != other.LayerSize {
		return false
	}
	if len(m.Words) != len(other.Words) {
		return false
	}
	for i, w := range m.Words {
		if other.Words[i] != w {
			return false
		}
	}
	if len(m.Vectors) != len(other.Vectors) {
		return false
	}
	for i, v := range m.Vectors {
		if other.Vectors[i] != v {
			return false
		}
	}
	return true
}
