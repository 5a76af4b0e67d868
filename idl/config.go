package idl

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ResolveOptions bounds the PDA fixed-point resolver (spec.md §4.7).
// MaxIterations <= 0 means "len(instruction.Accounts)", the bound spec.md
// §8's Fixed-point resolution property guarantees is always sufficient.
type ResolveOptions struct {
	MaxIterations int
}

// DefaultResolveOptions is the zero-configuration default: no cap beyond
// the per-instruction account count.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{MaxIterations: 0}
}

// LayoutOptions tunes the bytemuck layout engine (§4.4).
type LayoutOptions struct {
	// AllowRustRepr, when true, downgrades a LayoutError on a non-trivial
	// rust-repr struct/enum (more fields than verifyUnambiguousOrdering
	// permits) to a best-effort layout instead of a hard error. Defaults
	// to false: the native layout is genuinely compiler-dependent, so the
	// safer default is to refuse rather than guess.
	AllowRustRepr bool
}

// DefaultLayoutOptions is the zero-configuration default: hard failure on
// ambiguous rust-repr field ordering.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{AllowRustRepr: false}
}

// EngineConfig is the on-disk (YAML) shape for batch/offline callers that
// need non-default limits; see SPEC_FULL.md §A.3. The common path never
// constructs one — DefaultResolveOptions/DefaultLayoutOptions suffice.
type EngineConfig struct {
	Resolver struct {
		MaxIterations int `yaml:"max_iterations"`
	} `yaml:"resolver"`
	Layout struct {
		AllowRustRepr bool `yaml:"allow_rust_repr"`
	} `yaml:"layout"`
}

// LoadEngineConfig reads a YAML document at path into an EngineConfig.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &EngineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveOptions derives the resolver options this config describes.
func (c *EngineConfig) ResolveOptions() ResolveOptions {
	return ResolveOptions{MaxIterations: c.Resolver.MaxIterations}
}

// LayoutOptions derives the layout options this config describes.
func (c *EngineConfig) LayoutOptions() LayoutOptions {
	return LayoutOptions{AllowRustRepr: c.Layout.AllowRustRepr}
}
