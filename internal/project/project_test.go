package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/project"
)

func TestLoadWithoutManifestDefaultsToEntryDir(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.nail")
	require.NoError(t, os.WriteFile(entry, []byte("print(1);"), 0o644))

	proj, err := project.Load(entry)
	require.NoError(t, err)
	require.Equal(t, dir, proj.Root)
	require.Empty(t, proj.ManifestPath)
	require.Equal(t, "main", proj.Config.Target.CrateName)
	require.Equal(t, "2021", proj.Config.Target.Edition)
}

func TestLoadFindsManifestInParentDir(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	manifest := "root: .\nentry: src/main.nail\ntarget:\n  crate_name: my_nail_program\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifest), 0o644))
	entry := filepath.Join(sub, "main.nail")
	require.NoError(t, os.WriteFile(entry, []byte("print(1);"), 0o644))

	proj, err := project.Load(entry)
	require.NoError(t, err)
	require.Equal(t, root, proj.Root)
	require.Equal(t, filepath.Join(root, project.ManifestName), proj.ManifestPath)
	require.Equal(t, "my_nail_program", proj.Config.Target.CrateName)
}

func TestLoadRejectsMalformedManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ManifestName), []byte("root: [unclosed"), 0o644))
	entry := filepath.Join(root, "main.nail")
	require.NoError(t, os.WriteFile(entry, []byte("print(1);"), 0o644))

	_, err := project.Load(entry)
	require.Error(t, err)
	require.Contains(t, err.Error(), project.ManifestName)
}
