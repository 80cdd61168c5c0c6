package trainer

import (
	"context"
	"strings"
	"testing"

	"github.com/vecforge/vecforge/pkg/config"
	"github.com/vecforge/vecforge/pkg/corpus"
	"github.com/vecforge/vecforge/pkg/vecforgeerr"
)

func fixtureCorpus() *corpus.SliceSource {
	text := `the quick brown fox jumps over the lazy dog
	the dog barks at the fox and the fox runs away
	the quick fox and the lazy dog become friends
	a cat watches the fox and the dog play in the yard
	the yard is quiet and the cat sleeps in the sun`
	var sentences [][]string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		sentences = append(sentences, fields)
	}
	return corpus.NewSliceSource(sentences)
}

func smallConfig(modelType config.ModelType) *config.TrainingConfig {
	c := config.Default()
	c.Type = modelType
	c.Threads = 1
	c.LayerSize = 8
	c.MinFrequency = 1
	c.WindowSize = 3
	c.Iterations = 2
	return c
}

func TestTrainRejectsInvalidConfig(t *testing.T) {
	c := config.Default()
	c.Iterations = 0
	_, err := Train(context.Background(), c, fixtureCorpus(), nil, nil)
	if err == nil {
		t.Fatalf("expected InvalidConfig error")
	}
	if k, ok := vecforgeerr.KindOf(err); !ok || k != vecforgeerr.InvalidConfig {
		t.Fatalf("expected InvalidConfig kind, got %v", err)
	}
}

func TestTrainCBOWProducesWellFormedModel(t *testing.T) {
	cfg := smallConfig(config.CBOW)
	m, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.Words[0] != "</s>" {
		t.Fatalf("index 0 must be the sentinel, got %q", m.Words[0])
	}
	if len(m.Vectors) != m.VocabSize()*m.LayerSize {
		t.Fatalf("vectors length mismatch: got %d, want %d", len(m.Vectors), m.VocabSize()*m.LayerSize)
	}
}

func TestTrainSkipGramProducesWellFormedModel(t *testing.T) {
	cfg := smallConfig(config.SkipGram)
	m, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(m.Vectors) != m.VocabSize()*m.LayerSize {
		t.Fatalf("vectors length mismatch")
	}
}

func TestTrainWithNegativeSamplingOnly(t *testing.T) {
	cfg := smallConfig(config.CBOW)
	cfg.UseHierarchicalSoftmax = false
	cfg.NegativeSamples = 3
	m, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(m.Vectors) == 0 {
		t.Fatalf("expected non-empty model")
	}
}

func TestSingleThreadDeterminism(t *testing.T) {
	cfg := smallConfig(config.CBOW)

	m1, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train 1: %v", err)
	}
	m2, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train 2: %v", err)
	}

	if !m1.Equal(m2) {
		t.Fatalf("single-threaded runs with identical config/input must be byte-identical")
	}
}

func TestVocabularyInvariantsAfterTraining(t *testing.T) {
	cfg := smallConfig(config.CBOW)
	m, err := Train(context.Background(), cfg, fixtureCorpus(), nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	seen := map[string]bool{}
	for i, w := range m.Words {
		if seen[w] {
			t.Fatalf("word→index map not a bijection: %q appears twice", w)
		}
		seen[w] = true
		_ = i
	}
}

func TestProgressListenerSeesAllStages(t *testing.T) {
	cfg := smallConfig(config.CBOW)
	var stages []Stage
	rec := recorderListener{onStage: func(s Stage, frac float64) {
		stages = append(stages, s)
	}}
	_, err := Train(context.Background(), cfg, fixtureCorpus(), nil, rec)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	want := []Stage{StageAcquireVocab, StageFilterSortVocab, StageCreateHuffmanEncoding, StageTrainNeuralNetwork}
	for _, w := range want {
		found := false
		for _, s := range stages {
			if s == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("listener never saw stage %v", w)
		}
	}
}

type recorderListener struct {
	onStage func(Stage, float64)
}

func (r recorderListener) OnStage(s Stage, frac float64) {
	r.onStage(s, frac)
}
