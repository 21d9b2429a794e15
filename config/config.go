// Package config loads the per-transform configuration surface of
// spec.md §6: algorithm selection, context scope, and per-model PPM
// parameters, with the documented defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tawa-lang/tawa/ppm"
	"github.com/tawa-lang/tawa/search"

	tawa "github.com/tawa-lang/tawa"
)

// Algorithm names the search.Algorithm a transform runs under, plus the
// stack-mode knobs (spec.md §6 "algorithm = {viterbi,
// stack(type0|type1, stack_depth, stack_extension)}").
type Algorithm struct {
	Kind           string `yaml:"kind"` // "viterbi", "stack_type0", "stack_type1"
	StackDepth     int    `yaml:"stack_depth,omitempty"`
	StackExtension int    `yaml:"stack_extension,omitempty"`
}

// ContextScope selects whether leaves sharing a model at a given input
// position share one context (multi) or each keep their own (single),
// per spec.md §6 "context_scope = {single, multi}".
type ContextScope string

const (
	ScopeSingle ContextScope = "single"
	ScopeMulti  ContextScope = "multi"
)

// ModelConfig is the per-model parameter set of spec.md §3's Model
// attributes, with the §6 defaults (alphabet 256, order 5, escape D,
// full-exclusion on, update-exclusion on).
type ModelConfig struct {
	Tag             string `yaml:"tag"`
	Kind            string `yaml:"kind"` // "ppm", "binary", "pt"
	Alphabet        int    `yaml:"alphabet"`
	Order           int    `yaml:"order"`
	EscapeMethod    string `yaml:"escape_method,omitempty"` // "a", "b", "c", "d"
	FullExclusion   *bool  `yaml:"full_exclusion,omitempty"`
	UpdateExclusion *bool  `yaml:"update_exclusion,omitempty"`
}

// defaultModelConfig returns the §6 default model parameters, used to
// fill in any ModelConfig field left at its YAML zero value. FullExclusion
// and UpdateExclusion are pointers so an explicit `false` in YAML survives
// applyDefaults instead of being indistinguishable from "unset".
func defaultModelConfig() ModelConfig {
	t := true
	return ModelConfig{
		Alphabet:        256,
		Order:           5,
		EscapeMethod:    "d",
		FullExclusion:   &t,
		UpdateExclusion: &t,
	}
}

// Transform is one transform's full configuration surface: its algorithm,
// context scope, and the models it references by tag.
type Transform struct {
	Algorithm    Algorithm     `yaml:"algorithm"`
	ContextScope ContextScope  `yaml:"context_scope"`
	Models       []ModelConfig `yaml:"models"`
}

// Load parses a transform configuration from YAML at path, applying §6
// defaults to any model whose fields were left unset.
func Load(path string) (*Transform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a transform configuration from raw YAML bytes, applying
// §6 defaults.
func Parse(data []byte) (*Transform, error) {
	var t Transform
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Transform) applyDefaults() {
	if t.ContextScope == "" {
		t.ContextScope = ScopeMulti
	}
	if t.Algorithm.Kind == "" {
		t.Algorithm.Kind = "viterbi"
	}
	defaults := defaultModelConfig()
	for i := range t.Models {
		m := &t.Models[i]
		if m.Kind == "" {
			m.Kind = "ppm"
		}
		if m.Alphabet == 0 {
			m.Alphabet = defaults.Alphabet
		}
		if m.Order == 0 {
			m.Order = defaults.Order
		}
		if m.EscapeMethod == "" {
			m.EscapeMethod = defaults.EscapeMethod
		}
		if m.FullExclusion == nil {
			m.FullExclusion = defaults.FullExclusion
		}
		if m.UpdateExclusion == nil {
			m.UpdateExclusion = defaults.UpdateExclusion
		}
	}
}

func (t *Transform) validate() error {
	switch t.Algorithm.Kind {
	case "viterbi", "stack_type0", "stack_type1":
	default:
		tawa.Raise(tawa.BadArgument, "config.Transform.validate", "unknown algorithm kind %q", t.Algorithm.Kind)
	}
	switch t.ContextScope {
	case ScopeSingle, ScopeMulti:
	default:
		tawa.Raise(tawa.BadArgument, "config.Transform.validate", "unknown context_scope %q", t.ContextScope)
	}
	for _, m := range t.Models {
		if m.Alphabet <= 0 || m.Order < -1 {
			tawa.Raise(tawa.BadArgument, "config.Transform.validate", "model %q: invalid alphabet=%d order=%d", m.Tag, m.Alphabet, m.Order)
		}
		switch m.Kind {
		case "", "ppm", "binary", "pt":
		default:
			tawa.Raise(tawa.BadArgument, "config.Transform.validate", "model %q: unknown kind %q", m.Tag, m.Kind)
		}
		switch m.EscapeMethod {
		case "", "a", "b", "c", "d":
		default:
			tawa.Raise(tawa.BadArgument, "config.Transform.validate", "model %q: unknown escape_method %q", m.Tag, m.EscapeMethod)
		}
	}
	return nil
}

// escapeMethods maps the config surface's lowercase letters onto
// ppm.EscapeMethod tags.
var escapeMethods = map[string]ppm.EscapeMethod{
	"a": ppm.EscapeA,
	"b": ppm.EscapeB,
	"c": ppm.EscapeC,
	"d": ppm.EscapeD,
}

// exclusionCapable is implemented by every model kind whose statistics
// follow the blended-cascade exclusion rules of spec §4.3 (plain PPM and
// binary-PPM; PT's flat table has no such concept).
type exclusionCapable interface {
	SetFullExclusion(on bool)
	SetUpdateExclusion(on bool)
	SetEscapeMethod(method ppm.EscapeMethod)
}

// BuildModels constructs one model per configured ModelConfig, keyed by
// its position in t.Models (the model id used throughout search.Driver
// and the confusion trie's %m atoms), dispatching on Kind per spec §3
// "kind: PPM, binary-PPM, PT" and §9 "dynamic dispatch over model kind".
func (t *Transform) BuildModels() map[int]ppm.LanguageModel {
	models := make(map[int]ppm.LanguageModel, len(t.Models))
	for i, m := range t.Models {
		var lm ppm.LanguageModel
		switch m.Kind {
		case "binary":
			lm = ppm.NewBinaryModel(m.Order)
		case "pt":
			lm = ppm.NewPTableModel(m.Alphabet)
		default:
			lm = ppm.NewModel(m.Alphabet, m.Order)
		}
		if ec, ok := lm.(exclusionCapable); ok {
			if m.FullExclusion != nil {
				ec.SetFullExclusion(*m.FullExclusion)
			}
			if m.UpdateExclusion != nil {
				ec.SetUpdateExclusion(*m.UpdateExclusion)
			}
			if method, ok := escapeMethods[m.EscapeMethod]; ok {
				ec.SetEscapeMethod(method)
			}
		}
		models[i] = lm
	}
	return models
}

// SearchAlgorithm translates Algorithm into the search package's enum and
// stack-mode parameters.
func (a Algorithm) SearchAlgorithm() (search.Algorithm, int, int) {
	switch a.Kind {
	case "stack_type0":
		return search.StackType0, a.StackDepth, a.StackExtension
	case "stack_type1":
		return search.StackType1, a.StackDepth, a.StackExtension
	default:
		return search.Viterbi, 0, 0
	}
}
