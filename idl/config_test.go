package idl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEngineConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	contents := "resolver:\n  max_iterations: 12\nlayout:\n  allow_rust_repr: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Resolver.MaxIterations)
	require.True(t, cfg.Layout.AllowRustRepr)

	require.Equal(t, ResolveOptions{MaxIterations: 12}, cfg.ResolveOptions())
	require.Equal(t, LayoutOptions{AllowRustRepr: true}, cfg.LayoutOptions())
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	require.Equal(t, ResolveOptions{MaxIterations: 0}, DefaultResolveOptions())
	require.Equal(t, LayoutOptions{AllowRustRepr: false}, DefaultLayoutOptions())
}
