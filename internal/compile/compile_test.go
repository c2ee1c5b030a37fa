package compile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/compile"
	"github.com/nail-lang/nailc/internal/diag"
)

func writeProgram(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return filepath.Join(dir, "main.nail")
}

func TestRunTranspileEndToEnd(t *testing.T) {
	entry := writeProgram(t, map[string]string{
		"main.nail": "result:i = 2 + 3 * 4; print(result);",
	})

	res, err := compile.Run(entry, compile.ModeTranspile)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Contains(t, res.Source, "#[tokio::main]")
	require.Len(t, res.Manifest, 1)
	require.Equal(t, "tokio", res.Manifest[0].Name)
}

func TestRunWithIncludeExpansion(t *testing.T) {
	entry := writeProgram(t, map[string]string{
		"helper.nail": "f double_it(seed:i):i { r seed * 2; }\n",
		"main.nail":   "insert(`helper.nail`)\nprint(double_it(21));",
	})

	res, err := compile.Run(entry, compile.ModeTranspile)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Contains(t, res.Source, "async fn double_it(seed: i64) -> i64 {")
	require.Contains(t, res.Source, "double_it(21).await")
}

func TestRunStopsAtSelectedMode(t *testing.T) {
	entry := writeProgram(t, map[string]string{
		"main.nail": "result:i = 1 + 2; print(result);",
	})

	lexed, err := compile.Run(entry, compile.ModeLex)
	require.NoError(t, err)
	require.NotEmpty(t, lexed.Tokens)
	require.Nil(t, lexed.File)

	parsed, err := compile.Run(entry, compile.ModeParse)
	require.NoError(t, err)
	require.NotNil(t, parsed.File)
	require.Nil(t, parsed.Info)

	checked, err := compile.Run(entry, compile.ModeCheck)
	require.NoError(t, err)
	require.NotNil(t, checked.Info)
	require.Empty(t, checked.Source)
}

func TestRunDepsOnlyOmitsSource(t *testing.T) {
	entry := writeProgram(t, map[string]string{
		"main.nail": "scores:h:s:i = hashmap_new(); print(1);",
	})

	res, err := compile.Run(entry, compile.ModeDeps)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Empty(t, res.Source)

	names := make([]string, len(res.Manifest))
	for i, l := range res.Manifest {
		names[i] = l.Name
	}
	require.Equal(t, []string{"dashmap", "tokio"}, names)
}

func TestRunShortCircuitsOnCheckFailure(t *testing.T) {
	entry := writeProgram(t, map[string]string{
		"main.nail": "msg:s = print(`hi`);",
	})

	res, err := compile.Run(entry, compile.ModeTranspile)
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Empty(t, res.Source)
	require.Equal(t, diag.StageChecker, res.Diagnostics[0].Stage)
}

// TestScenarioFixtures runs the end-to-end scenario programs under
// testdata: each either transpiles cleanly or fails with the expected
// diagnostic code.
func TestScenarioFixtures(t *testing.T) {
	cases := []struct {
		file     string
		wantCode string // "" means the compile must succeed
	}{
		{file: "arithmetic.nail"},
		{file: "map_comprehension.nail"},
		{file: "reduce_seed.nail"},
		{file: "safe_discharge.nail"},
		{file: "non_exhaustive.nail", wantCode: "TYPE_NON_EXHAUSTIVE_CONDITIONAL"},
		{file: "void_binding.nail", wantCode: "TYPE_VOID_BINDING"},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			res, err := compile.Run(filepath.Join("testdata", tc.file), compile.ModeTranspile)
			require.NoError(t, err)
			if tc.wantCode == "" {
				require.False(t, res.Failed(), "diagnostics: %v", res.Diagnostics)
				require.Contains(t, res.Source, "#[tokio::main]")
				return
			}
			require.True(t, res.Failed())
			found := false
			for _, d := range res.Diagnostics {
				if string(d.Code) == tc.wantCode {
					found = true
				}
			}
			require.True(t, found, "expected %s in %v", tc.wantCode, res.Diagnostics)
		})
	}
}

func TestRunEmptySourceSucceeds(t *testing.T) {
	entry := writeProgram(t, map[string]string{"main.nail": "// nothing here\n"})

	res, err := compile.Run(entry, compile.ModeTranspile)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Contains(t, res.Source, "async fn main() {")
}
