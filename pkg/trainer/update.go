package trainer

import (
	"github.com/vecforge/vecforge/pkg/config"
	"github.com/vecforge/vecforge/pkg/vocab"
	"github.com/vecforge/vecforge/pkg/wordvec"
)

// trainPosition applies one CBOW or skip-gram update for the target word at
// sentence position pos, drawing the window offset from the worker's
// private LCG exactly as the reference does.
func (w *worker) trainPosition(target, pos int) {
	window := w.cfg.WindowSize
	b := int(w.rng.Next() % uint64(window))

	if w.cfg.Type == config.CBOW {
		w.trainCBOW(target, pos, window, b)
		return
	}
	w.trainSkipGram(target, pos, window, b)
}

func (w *worker) trainCBOW(target, pos, window, b int) {
	layerSize := w.net.LayerSize
	for i := range w.neu1 {
		w.neu1[i] = 0
	}
	for i := range w.neu1e {
		w.neu1e[i] = 0
	}

	cw := 0
	eachContext(pos, window, b, len(w.sen), func(c int) {
		ctxWord := int(w.sen[c])
		base := ctxWord * layerSize
		for k := 0; k < layerSize; k++ {
			w.neu1[k] += w.net.Syn0[base+k]
		}
		cw++
	})
	if cw == 0 {
		return
	}
	inv := float32(1.0 / float64(cw))
	for k := range w.neu1 {
		w.neu1[k] *= inv
	}

	alpha := w.shared.loadAlpha()
	entry := w.vocab.Entry(target)

	if w.cfg.UseHierarchicalSoftmax {
		applyHS(entry, w.neu1, w.neu1e, w.net.Syn1, layerSize, alpha, w.net.ExpTable)
	}
	if w.cfg.NegativeSamples > 0 {
		applyNegativeSampling(target, w.net.VocabSize, w.cfg.NegativeSamples, w.rng, w.net.Unigram,
			w.neu1, w.neu1e, w.net.Syn1neg, layerSize, alpha, w.net.ExpTable)
	}

	eachContext(pos, window, b, len(w.sen), func(c int) {
		ctxWord := int(w.sen[c])
		base := ctxWord * layerSize
		for k := 0; k < layerSize; k++ {
			w.net.Syn0[base+k] += w.neu1e[k]
		}
	})
}

func (w *worker) trainSkipGram(target, pos, window, b int) {
	layerSize := w.net.LayerSize
	alpha := w.shared.loadAlpha()
	entry := w.vocab.Entry(target)

	eachContext(pos, window, b, len(w.sen), func(c int) {
		ctxWord := int(w.sen[c])
		l1 := ctxWord * layerSize
		in := w.net.Syn0[l1 : l1+layerSize]

		for i := range w.neu1e {
			w.neu1e[i] = 0
		}

		if w.cfg.UseHierarchicalSoftmax {
			applyHS(entry, in, w.neu1e, w.net.Syn1, layerSize, alpha, w.net.ExpTable)
		}
		if w.cfg.NegativeSamples > 0 {
			applyNegativeSampling(target, w.net.VocabSize, w.cfg.NegativeSamples, w.rng, w.net.Unigram,
				in, w.neu1e, w.net.Syn1neg, layerSize, alpha, w.net.ExpTable)
		}

		for k := 0; k < layerSize; k++ {
			w.net.Syn0[l1+k] += w.neu1e[k]
		}
	})
}

// eachContext visits every context slot around pos in [pos-window+b,
// pos+window-b], excluding pos itself, in the reference's exact order.
func eachContext(pos, window, b, senLen int, fn func(c int)) {
	for a := b; a < 2*window+1-b; a++ {
		if a == window {
			continue
		}
		c := pos - window + a
		if c < 0 || c >= senLen {
			continue
		}
		fn(c)
	}
}

// applyHS runs the hierarchical-softmax branch: walk the target's Huffman
// path, accumulating into e and updating syn1 in place. Saturating outside
// [-MAX_EXP, +MAX_EXP] skips the step entirely (the reference's "continue"
// semantics, distinct from the negative-sampling branch's clamp).
func applyHS(entry *vocab.Entry, in, e, syn1 []float32, layerSize int, alpha float64, expTable []float64) {
	for d := 0; d < len(entry.Code); d++ {
		l2 := int(entry.Path[d]) * layerSize
		out := syn1[l2 : l2+layerSize]

		var f float64
		for k := 0; k < layerSize; k++ {
			f += float64(in[k]) * float64(out[k])
		}
		if f <= -wordvec.MaxExp || f >= wordvec.MaxExp {
			continue
		}
		f = expTable[wordvec.ExpTableIndex(f)]

		g := float32((1 - float64(entry.Code[d]) - f) * alpha)
		for k := 0; k < layerSize; k++ {
			e[k] += g * out[k]
		}
		for k := 0; k < layerSize; k++ {
			out[k] += g * in[k]
		}
	}
}

// applyNegativeSampling runs the negative-sampling branch: contrast the true
// target (label=1) against `negative` noise words drawn from the unigram
// table (label=0). Saturating outside [-MAX_EXP, +MAX_EXP] clamps g to
// (label - endpoint) * alpha rather than skipping the step.
func applyNegativeSampling(target, vocabSize, negative int, rng *wordvec.RNG, unigram []int32, in, e, syn1neg []float32, layerSize int, alpha float64, expTable []float64) {
	for d := 0; d < negative+1; d++ {
		var sample int
		var label float64
		if d == 0 {
			sample = target
			label = 1
		} else {
			next := rng.Next()
			sample = int(unigram[(next>>16)%uint64(len(unigram))])
			if sample == 0 {
				sample = int(next % uint64(vocabSize))
			}
			if sample == target {
				continue
			}
			label = 0
		}

		l2 := sample * layerSize
		out := syn1neg[l2 : l2+layerSize]

		var f float64
		for k := 0; k < layerSize; k++ {
			f += float64(in[k]) * float64(out[k])
		}

		var g float32
		switch {
		case f > wordvec.MaxExp:
			g = float32((label - 1) * alpha)
		case f < -wordvec.MaxExp:
			g = float32(label * alpha)
		default:
			g = float32((label - expTable[wordvec.ExpTableIndex(f)]) * alpha)
		}

		for k := 0; k < layerSize; k++ {
			e[k] += g * out[k]
		}
		for k := 0; k < layerSize; k++ {
			out[k] += g * in[k]
		}
	}
}
