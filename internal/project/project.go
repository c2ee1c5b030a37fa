// Package project locates and loads the nail.yaml manifest that anchors
// a compilation: the project root (which insert() targets may not
// escape) and the identity of the emitted crate.
//
// A manifest is optional. Single-file compiles with no nail.yaml anywhere
// above them root the project at the entry file's own directory, so the
// bare `compile(path, mode)` contract keeps working unchanged.
package project

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ManifestName is the file the loader walks upward looking for.
const ManifestName = "nail.yaml"

// Target describes the emitted Rust program's packaging identity.
type Target struct {
	CrateName string `yaml:"crate_name"`
	Edition   string `yaml:"edition"`
}

// Config is the parsed shape of nail.yaml.
type Config struct {
	Root   string `yaml:"root"`
	Entry  string `yaml:"entry"`
	Target Target `yaml:"target"`
}

// Project is a resolved project: an absolute root directory plus the
// manifest configuration (defaulted when no manifest exists).
type Project struct {
	Root         string // absolute, cleaned
	ManifestPath string // "" when running without a manifest
	Config       Config
}

// Load resolves the project containing entryPath. It walks upward from
// the entry file's directory until it finds a nail.yaml or reaches the
// filesystem root; with no manifest, the entry file's directory is the
// project root.
func Load(entryPath string) (*Project, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving entry path %s", entryPath)
	}
	dir := filepath.Dir(abs)

	manifest, found, err := findManifest(dir)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Project{
			Root: dir,
			Config: Config{
				Root:  ".",
				Entry: filepath.Base(abs),
				Target: Target{
					CrateName: crateNameFor(abs),
					Edition:   "2021",
				},
			},
		}, nil
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", manifest)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", manifest)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Target.CrateName == "" {
		cfg.Target.CrateName = crateNameFor(abs)
	}
	if cfg.Target.Edition == "" {
		cfg.Target.Edition = "2021"
	}

	root := filepath.Clean(filepath.Join(filepath.Dir(manifest), cfg.Root))
	return &Project{Root: root, ManifestPath: manifest, Config: cfg}, nil
}

func findManifest(dir string) (string, bool, error) {
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, errors.Wrapf(err, "probing %s", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// crateNameFor derives a crate name from the entry file's base name:
// `my_program.nail` emits crate `my_program`.
func crateNameFor(entryPath string) string {
	base := filepath.Base(entryPath)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		return "nail_program"
	}
	return base
}
