// Package trainer implements the parallel stochastic trainer: many worker
// goroutines share the embedding matrices, each iterating the corpus,
// applying CBOW or skip-gram updates under hierarchical softmax and/or
// negative sampling with a globally decaying learning rate.
package trainer

import (
	"context"
	"runtime"
	"sync"

	"github.com/vecforge/vecforge/pkg/config"
	"github.com/vecforge/vecforge/pkg/corpus"
	"github.com/vecforge/vecforge/pkg/huffman"
	"github.com/vecforge/vecforge/pkg/modelio"
	"github.com/vecforge/vecforge/pkg/vecforgeerr"
	"github.com/vecforge/vecforge/pkg/vocab"
	"github.com/vecforge/vecforge/pkg/wordvec"
)

// Train runs the full pipeline: vocabulary acquisition, Huffman coding, and
// the parallel neural network training, returning a fully-initialized
// output model or failing with one of the documented error kinds. It never
// returns a partial model.
func Train(ctx context.Context, cfg *config.TrainingConfig, src corpus.SentenceSource, override vocab.FrequencyTable, listener Listener) (*modelio.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	notify(listener, StageAcquireVocab, 0)
	v := vocab.New()
	if override != nil {
		v.BuildFromOverride(override)
	} else {
		reader, err := src.Open()
		if err != nil {
			return nil, vecforgeerr.Wrap(vecforgeerr.IO, "open corpus for vocabulary scan", err)
		}
		tokens := corpus.NewTokenStream(reader)
		err = v.BuildFromCorpus(tokens)
		reader.Close()
		if err != nil {
			return nil, vecforgeerr.Wrap(vecforgeerr.IO, "scan corpus for vocabulary", err)
		}
	}
	notify(listener, StageAcquireVocab, 1)

	notify(listener, StageFilterSortVocab, 0)
	v.Finalize(int64(cfg.MinFrequency))
	notify(listener, StageFilterSortVocab, 1)

	notify(listener, StageCreateHuffmanEncoding, 0)
	if err := huffman.Build(v); err != nil {
		return nil, err
	}
	notify(listener, StageCreateHuffmanEncoding, 1)

	entries := v.Entries()
	var trainWords int64
	for _, e := range entries {
		trainWords += e.Count
	}

	net := wordvec.InitNet(entries, cfg.LayerSize, cfg.UseHierarchicalSoftmax, cfg.NegativeSamples)

	numWorkers := cfg.Threads
	if cores := runtime.NumCPU(); numWorkers > cores {
		numWorkers = cores
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	budget := trainWords / int64(numWorkers)
	shared := newSharedState(cfg.Alpha(), trainWords, int64(cfg.Iterations))

	notify(listener, StageTrainNeuralNetwork, 0)

	workers := make([]*worker, numWorkers)
	for i := range workers {
		workers[i] = newWorker(i, net, v, cfg, src, shared, budget)
	}

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)
	for i, w := range workers {
		wg.Add(1)
		go func(i int, w *worker) {
			defer wg.Done()
			errs[i] = w.run(ctx)
		}(i, w)
	}
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil, vecforgeerr.Wrap(vecforgeerr.Interrupted, "training cancelled", err)
		}
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "training worker failed", err)
	}

	notify(listener, StageTrainNeuralNetwork, 1)

	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}

	return &modelio.Model{
		LayerSize: cfg.LayerSize,
		Words:     words,
		Vectors:   net.Syn0,
	}, nil
}
