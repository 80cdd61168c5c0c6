package trainer

import (
	"context"
	"io"
	"math"

	"github.com/vecforge/vecforge/pkg/config"
	"github.com/vecforge/vecforge/pkg/corpus"
	"github.com/vecforge/vecforge/pkg/vocab"
	"github.com/vecforge/vecforge/pkg/wordvec"
)

// maxSentenceLength bounds the worker's sentence buffer, mirroring the
// reference's fixed-size sen array.
const maxSentenceLength = 1000

// flushInterval is how many locally processed words accumulate before a
// worker folds its delta into the shared word count and recomputes alpha.
const flushInterval = 10000

// worker runs one independent training pass over the corpus, sharing net's
// matrices with every other worker without synchronization.
type worker struct {
	id int

	net    *wordvec.Net
	vocab  *vocab.Vocabulary
	cfg    *config.TrainingConfig
	src    corpus.SentenceSource
	shared *sharedState
	budget int64 // train_words / num_threads

	rng *wordvec.RNG

	reader corpus.SentenceReader
	tokens *corpus.TokenStream

	sen         []int32
	sentencePos int

	wordCount     int64
	lastWordCount int64
	localIter     int64
	eof           bool

	neu1  []float32
	neu1e []float32
}

func newWorker(id int, net *wordvec.Net, v *vocab.Vocabulary, cfg *config.TrainingConfig, src corpus.SentenceSource, shared *sharedState, budget int64) *worker {
	return &worker{
		id:        id,
		net:       net,
		vocab:     v,
		cfg:       cfg,
		src:       src,
		shared:    shared,
		budget:    budget,
		rng:       wordvec.NewRNG(uint64(id)),
		localIter: int64(cfg.Iterations),
		sen:       make([]int32, 0, maxSentenceLength),
		neu1:      make([]float32, cfg.LayerSize),
		neu1e:     make([]float32, cfg.LayerSize),
	}
}

func (w *worker) open() error {
	r, err := w.src.Open()
	if err != nil {
		return err
	}
	w.reader = r
	w.tokens = corpus.NewTokenStream(r)
	return nil
}

// run executes the worker's full contract: independently re-scan the
// sentence stream for `iter` passes, applying CBOW or skip-gram updates at
// every sentence position. Cancellation, if the context carries one, is
// only observed at sentence/iteration boundaries.
func (w *worker) run(ctx context.Context) error {
	if err := w.open(); err != nil {
		return err
	}
	defer func() { w.reader.Close() }()

	for {
		if len(w.sen) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if w.wordCount-w.lastWordCount > flushInterval {
			delta := w.wordCount - w.lastWordCount
			w.shared.addWordCount(delta)
			w.lastWordCount = w.wordCount
			w.shared.recomputeAlpha()
		}

		if len(w.sen) == 0 {
			if err := w.fillSentence(); err != nil {
				return err
			}
		}

		if w.eof || w.wordCount > w.budget {
			delta := w.wordCount - w.lastWordCount
			w.shared.addWordCount(delta)
			w.localIter--
			if w.localIter == 0 {
				return nil
			}
			if err := w.reopen(); err != nil {
				return err
			}
			continue
		}

		if len(w.sen) == 0 {
			continue
		}

		pos := w.sentencePos
		target := w.sen[pos]
		w.trainPosition(int(target), pos)

		w.sentencePos++
		if w.sentencePos >= len(w.sen) {
			w.sen = w.sen[:0]
			w.sentencePos = 0
		}
	}
}

func (w *worker) reopen() error {
	w.reader.Close()
	w.wordCount = 0
	w.lastWordCount = 0
	w.sen = w.sen[:0]
	w.sentencePos = 0
	w.eof = false
	return w.open()
}

// fillSentence reads tokens into sen until it hits the sentence-end
// sentinel, fills the buffer, or the stream is exhausted.
func (w *worker) fillSentence() error {
	w.sen = w.sen[:0]
	w.sentencePos = 0
	for len(w.sen) < maxSentenceLength {
		tok, err := w.tokens.Next()
		if err == io.EOF {
			w.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		idx, ok := w.vocab.IndexOf(tok)
		if !ok {
			continue
		}
		w.wordCount++
		if idx == 0 {
			return nil
		}
		if w.shouldKeep(int32(idx)) {
			w.sen = append(w.sen, int32(idx))
		}
	}
	return nil
}

// shouldKeep applies the reference subsampling formula. A zero down-sample
// rate disables subsampling entirely.
func (w *worker) shouldKeep(idx int32) bool {
	if w.cfg.DownSampleRate <= 0 {
		return true
	}
	count := float64(w.vocab.Entry(int(idx)).Count)
	if count <= 0 {
		return true
	}
	sampleTrain := w.cfg.DownSampleRate * float64(w.shared.trainWords)
	ran := (math.Sqrt(count/sampleTrain) + 1) * sampleTrain / count
	next := w.rng.Next()
	frac := float64(next&0xFFFF) / 65536
	return ran >= frac
}
