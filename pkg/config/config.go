// Package config defines the recognized training options, their defaults,
// and validation, with YAML loading for standalone training runs.
package config

import (
	"fmt"
	"os"

	"github.com/vecforge/vecforge/pkg/vecforgeerr"
	"gopkg.in/yaml.v3"
)

// ModelType selects the update rule: CBOW predicts the center word from the
// averaged context; SkipGram predicts each context word from the center.
type ModelType int

const (
	CBOW ModelType = iota
	SkipGram
)

func (m ModelType) String() string {
	if m == SkipGram {
		return "SKIP_GRAM"
	}
	return "CBOW"
}

// UnmarshalYAML accepts the enum spelling used by the external config format.
func (m *ModelType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "CBOW", "":
		*m = CBOW
	case "SKIP_GRAM":
		*m = SkipGram
	default:
		return fmt.Errorf("config: unknown model type %q", s)
	}
	return nil
}

func (m ModelType) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// defaultAlpha is the type-specific default learning rate, used unless
// InitialLearningRate overrides it.
func (m ModelType) defaultAlpha() float64 {
	if m == SkipGram {
		return 0.025
	}
	return 0.05
}

// TrainingConfig is the enumerated set of recognized training options.
type TrainingConfig struct {
	MinFrequency           int       `yaml:"min_frequency"`
	Threads                int       `yaml:"threads"`
	WindowSize             int       `yaml:"window_size"`
	Type                   ModelType `yaml:"type"`
	UseHierarchicalSoftmax bool      `yaml:"use_hierarchical_softmax"`
	LayerSize              int       `yaml:"layer_size"`
	NegativeSamples        int       `yaml:"negative_samples"`
	DownSampleRate         float64   `yaml:"down_sample_rate"`
	Iterations             int       `yaml:"iterations"`
	InitialLearningRate    *float64  `yaml:"initial_learning_rate,omitempty"`
}

// Default returns a TrainingConfig with the reference's baseline settings:
// CBOW, hierarchical softmax, window 5, layer size 100, one pass.
func Default() *TrainingConfig {
	return &TrainingConfig{
		MinFrequency:           5,
		Threads:                1,
		WindowSize:             5,
		Type:                   CBOW,
		UseHierarchicalSoftmax: true,
		LayerSize:              100,
		NegativeSamples:        0,
		DownSampleRate:         1e-3,
		Iterations:             1,
	}
}

// Alpha resolves the effective starting learning rate: the override if one
// was supplied, otherwise the type-specific default.
func (c *TrainingConfig) Alpha() float64 {
	if c.InitialLearningRate != nil {
		return *c.InitialLearningRate
	}
	return c.Type.defaultAlpha()
}

// Validate checks the options an InvalidConfig error kind should be raised
// for: non-positive dimensions or thread count, negative counts and rates,
// zero iterations, and disabling both HS and negative sampling.
func (c *TrainingConfig) Validate() error {
	switch {
	case c.MinFrequency < 0:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "min_frequency must be >= 0")
	case c.Threads < 1:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "threads must be >= 1")
	case c.WindowSize < 1:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "window_size must be >= 1")
	case c.LayerSize < 1:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "layer_size must be >= 1")
	case c.NegativeSamples < 0:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "negative_samples must be >= 0")
	case c.DownSampleRate < 0:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "down_sample_rate must be >= 0")
	case c.Iterations < 1:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "iterations must be >= 1")
	case !c.UseHierarchicalSoftmax && c.NegativeSamples == 0:
		return vecforgeerr.New(vecforgeerr.InvalidConfig, "at least one of hierarchical softmax or negative sampling must be enabled")
	}
	return nil
}

// LoadTrainingConfigYAML reads and validates a YAML-formatted training
// configuration, keeping Default()'s values for any key the file omits.
func LoadTrainingConfigYAML(path string) (*TrainingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "read training config", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.InvalidConfig, "parse training config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
