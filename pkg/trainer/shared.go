package trainer

import (
	"math"
	"sync/atomic"
)

// sharedState holds the cross-worker mutable state: the global word count
// and the globally decaying learning rate. The reference leaves these
// unsynchronized; relaxed atomics are the documented substitute (spec's
// concurrency model explicitly permits either).
type sharedState struct {
	wordCountActual atomic.Int64
	alphaBits       atomic.Uint64

	startingAlpha float64
	trainWords    int64
	totalIter     int64
}

func newSharedState(startingAlpha float64, trainWords int64, totalIter int64) *sharedState {
	s := &sharedState{
		startingAlpha: startingAlpha,
		trainWords:    trainWords,
		totalIter:     totalIter,
	}
	s.alphaBits.Store(math.Float64bits(startingAlpha))
	return s
}

func (s *sharedState) addWordCount(delta int64) {
	s.wordCountActual.Add(delta)
}

func (s *sharedState) loadAlpha() float64 {
	return math.Float64frombits(s.alphaBits.Load())
}

// recomputeAlpha applies the reference's decay formula and stores the
// result. It is called by whichever worker happens to cross the 10,000-word
// local flush threshold; the write itself is unsynchronized in spirit with
// the reference, substituted here with a plain atomic store.
func (s *sharedState) recomputeAlpha() {
	wca := float64(s.wordCountActual.Load())
	alpha := s.startingAlpha * (1 - wca/(float64(s.totalIter*s.trainWords)+1))
	floor := s.startingAlpha * 0.0001
	if alpha < floor {
		alpha = floor
	}
	s.alphaBits.Store(math.Float64bits(alpha))
}
