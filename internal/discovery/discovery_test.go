package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/recipe"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func registry(t *testing.T) *recipe.Registry {
	t.Helper()
	broken, diags := hclsyntax.ParseExpression([]byte(`[undefined_var]`), "t.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors())

	py := recipe.StaticStep("run", "", "python3", "x")
	c := recipe.StaticStep("run", "", "./x")
	cc := recipe.StaticStep("compile", "", "gcc")
	reg, err := recipe.NewRegistry(
		recipe.Definition{Ext: ".py", Label: "Python", Run: &py},
		recipe.Definition{Ext: ".c", Label: "C", Build: []recipe.StepTemplate{cc}, Run: &c},
		recipe.Definition{Ext: ".rs", Label: "Rust", Run: &recipe.StepTemplate{Command: broken}},
	)
	require.NoError(t, err)
	return reg
}

func TestScan_MatchesAndSkips(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "test.c", "TEST.PY", "notes.txt", "Makefile", "test.rs", "nested/deep.c")

	candidates, err := Scan(context.Background(), dir, "", registry(t))
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	names := []string{candidates[0].Name, candidates[1].Name, candidates[2].Name}
	require.Equal(t, []string{"TEST.PY", "test.c", "test.rs"}, names)
	for i, c := range candidates {
		require.Equal(t, i, c.Index)
		require.Equal(t, filepath.Join(dir, c.Name), c.Path)
	}

	require.NoError(t, candidates[0].Err)
	require.Equal(t, "Python", candidates[0].Label())
	require.Equal(t, dir, candidates[0].Recipe.Run.Dir)

	require.True(t, candidates[1].Recipe.HasBuild())

	require.Error(t, candidates[2].Err, "broken recipe must surface as a candidate error")
	require.Nil(t, candidates[2].Recipe)
	require.Equal(t, "test.rs", candidates[2].Label())
}

func TestScan_EmptyDirectory(t *testing.T) {
	candidates, err := Scan(context.Background(), t.TempDir(), "", registry(t))
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestScan_MissingDirectory(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), "", registry(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}
