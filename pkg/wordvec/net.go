// Package wordvec holds the shared numeric core of the trainer: the
// embedding matrices, the sigmoid lookup table, the unigram sampling table,
// and the reference LCG, none of which are specific to CBOW or skip-gram.
package wordvec

import "github.com/vecforge/vecforge/pkg/vocab"

// Net is the trio of dense weight matrices the trainer's workers share
// mutably, plus the read-only tables derived from the vocabulary. Every
// matrix is a single flat row-major buffer of shape vocab_size x layer_size.
type Net struct {
	VocabSize int
	LayerSize int

	// Syn0 is the input-side embedding; it is what the searcher consumes.
	Syn0 []float32

	// Syn1 holds hierarchical-softmax output weights; nil unless HS is enabled.
	Syn1 []float32

	// Syn1neg holds negative-sampling output weights; nil unless negative > 0.
	Syn1neg []float32

	ExpTable []float64
	Unigram  []int32
}

// InitNet allocates and seeds the embedding matrices exactly as the
// reference does: syn0 from the LCG started at seed 1, syn1/syn1neg
// zero-initialized and allocated only when their branch is enabled.
func InitNet(entries []*vocab.Entry, layerSize int, hs bool, negative int) *Net {
	vocabSize := len(entries)
	n := &Net{
		VocabSize: vocabSize,
		LayerSize: layerSize,
		ExpTable:  BuildExpTable(),
	}

	n.Syn0 = make([]float32, vocabSize*layerSize)
	rng := NewRNG(1)
	for i := range n.Syn0 {
		next := rng.Next()
		n.Syn0[i] = (float32(next&0xFFFF)/65536 - 0.5) / float32(layerSize)
	}

	if hs {
		n.Syn1 = make([]float32, vocabSize*layerSize)
	}
	if negative > 0 {
		n.Syn1neg = make([]float32, vocabSize*layerSize)
		n.Unigram = BuildUnigramTable(entries)
	}

	return n
}
