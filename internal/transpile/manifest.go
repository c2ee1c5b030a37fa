package transpile

import (
	"sort"
	"strings"

	"github.com/nail-lang/nailc/internal/registry"
)

// ManifestLine is one dependency declaration of the emitted program:
// a crate name and the Cargo version constraint to render verbatim.
type ManifestLine struct {
	Name       string
	Constraint string
}

// Manifest is the de-duplicated, name-sorted dependency list accumulated
// from the used-stdlib set.
type Manifest []ManifestLine

// String renders the manifest as Cargo.toml dependency lines, one per
// library, sorted by name.
func (m Manifest) String() string {
	var sb strings.Builder
	for _, l := range m {
		sb.WriteString(l.Name)
		sb.WriteString(" = ")
		sb.WriteString(l.Constraint)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// BuildManifest maps the used-stdlib entries to their external libraries
// via the registry's secondary table. The async runtime is always
// present: every emitted program runs under #[tokio::main] regardless of
// which stdlib functions it calls.
func BuildManifest(used map[string]registry.Entry) Manifest {
	ids := map[registry.LibraryID]bool{registry.LibAsyncRuntime: true}
	for _, e := range used {
		for _, lib := range e.RequiredLibraries {
			ids[lib] = true
		}
	}

	m := make(Manifest, 0, len(ids))
	for id := range ids {
		lib, ok := registry.Libraries[id]
		if !ok {
			continue
		}
		m = append(m, ManifestLine{Name: lib.Crate, Constraint: lib.Constraint})
	}
	sort.Slice(m, func(i, j int) bool { return m[i].Name < m[j].Name })
	return m
}
