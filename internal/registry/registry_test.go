package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/registry"
	"github.com/nail-lang/nailc/internal/types"
)

func TestLookupKnownFunction(t *testing.T) {
	e, ok := registry.Lookup("array_len")
	require.True(t, ok)
	require.Equal(t, registry.ModArray, e.Call.Module)
	require.True(t, types.Equal(e.Return, types.TInt))
}

func TestLookupUnknownFunctionMisses(t *testing.T) {
	_, ok := registry.Lookup("not_a_real_function")
	require.False(t, ok)
}

func TestPrintIsVariadicTagged(t *testing.T) {
	e, ok := registry.Lookup("print")
	require.True(t, ok)
	require.Equal(t, registry.TagVariadicPrint, e.Tag)
	require.Nil(t, e.Params)
}

func TestSafeHandlerTakesError(t *testing.T) {
	e, ok := registry.Lookup("safe")
	require.True(t, ok)
	require.Equal(t, registry.TagErrorDischarger, e.Tag)
	handler, ok := e.Params[1].(*types.Function)
	require.True(t, ok)
	require.Len(t, handler.Params, 1)
	require.True(t, types.Equal(handler.Params[0], types.TErr))
}

func TestHashmapFunctionsRequireConcurrentCrate(t *testing.T) {
	e, ok := registry.Lookup("hashmap_new")
	require.True(t, ok)
	require.Contains(t, e.RequiredLibraries, registry.LibHashmapConcurrent)
}

func TestEveryRequiredLibraryIsDeclared(t *testing.T) {
	for name, e := range registry.All() {
		for _, libID := range e.RequiredLibraries {
			_, ok := registry.Libraries[libID]
			require.True(t, ok, "entry %s references undeclared library %s", name, libID)
		}
	}
}

func TestArrayRangeIsPipeSource(t *testing.T) {
	e, ok := registry.Lookup("array_range")
	require.True(t, ok)
	require.Equal(t, registry.TagPipeSource, e.Tag)
}
