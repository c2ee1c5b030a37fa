package transpile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/check"
	"github.com/nail-lang/nailc/internal/lexer"
	"github.com/nail-lang/nailc/internal/parser"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/transpile"
)

// transpileSource runs the full front half of the pipeline (which must
// succeed) and returns the transpiler's output for src.
func transpileSource(t *testing.T, src string) *transpile.Output {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.nail")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	files := span.NewFileTable()
	toks, ldiags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, ldiags)
	file, pdiags := parser.ParseFile(toks)
	require.Empty(t, pdiags)
	info, cdiags := check.Check(file)
	require.Empty(t, cdiags)

	out, tdiags := transpile.Transpile(file, info)
	require.Empty(t, tdiags)
	return out
}

var tokioOnly = transpile.Manifest{
	{Name: "tokio", Constraint: `{ version = "1", features = ["rt-multi-thread", "macros"] }`},
}

func TestTranspileArithmeticAndPrint(t *testing.T) {
	out := transpileSource(t, "result:i = 2 + 3 * 4; print(result);")

	require.Contains(t, out.Source, "#[tokio::main]")
	require.Contains(t, out.Source, "async fn main() {")
	require.Contains(t, out.Source, "let result: i64 = (2 + (3 * 4));")
	require.Contains(t, out.Source, `println!("{}", result);`)
	require.Empty(t, cmp.Diff(tokioOnly, out.Manifest))
}

func TestTranspileMapComprehension(t *testing.T) {
	out := transpileSource(t,
		"nums:a:i = [1,2,3]; doubled:a:i = map nn in nums { y nn * 2; }; print(doubled);")

	require.Contains(t, out.Source, "let nums: Vec<i64> = vec![1, 2, 3];")
	require.Contains(t, out.Source, "let mut __out = Vec::new();")
	require.Contains(t, out.Source, "__out.push((nn * 2));")
	require.Contains(t, out.Source, `println!("{:?}", doubled);`)
}

func TestTranspileReduceWithSeed(t *testing.T) {
	out := transpileSource(t,
		"xs:a:i = [1,2,3,4]; total:i = reduce acc nn in xs from 0 { y acc + nn; }; print(total);")

	require.Contains(t, out.Source, "let mut acc = 0;")
	require.Contains(t, out.Source, "acc = (acc + nn);")
}

func TestTranspileSafeDischarge(t *testing.T) {
	src := `
f divide(top:i, bottom:i):i!e {
  if { bottom == 0 => { r err(` + "`div by zero`" + `); }, else => { r ok(top / bottom); } }
}
f handle(err_val:e):i { r -1; }
out:i = safe(divide(10, 0), handle);
print(out);
`
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "async fn divide(top: i64, bottom: i64) -> Result<i64, NailError> {")
	require.Contains(t, out.Source, `return Err(NailError::new("div by zero".to_string()));`)
	require.Contains(t, out.Source, "return Ok((top / bottom));")
	require.Contains(t, out.Source,
		"match divide(10, 0).await { Ok(__v) => __v, Err(__e) => handle(__e).await }")
	require.Empty(t, cmp.Diff(tokioOnly, out.Manifest))
}

func TestTranspileStructAndEnumDecls(t *testing.T) {
	src := `
struct Point { xpos:i, ypos:i }
enum Light { Red, Yellow, Green }
pt:Point = Point { xpos: 1, ypos: 2 };
light:Light = Light::Red;
print(pt.xpos);
`
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "#[derive(Debug, Clone)]\npub struct Point {")
	require.Contains(t, out.Source, "pub xpos: i64,")
	require.Contains(t, out.Source, "#[derive(Debug, Clone, Copy, PartialEq, Eq)]\npub enum Light {")
	require.Contains(t, out.Source, "let pt: Point = Point { xpos: 1, ypos: 2 };")
	require.Contains(t, out.Source, "let light: Light = Light::Red;")
}

func TestTranspileParallelBlock(t *testing.T) {
	src := `
parallel {
  left_val:i = 1;
  right_val:i = 2;
}
print(left_val + right_val);
`
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "let (left_val, right_val,) = tokio::join!(")
	require.Contains(t, out.Source, "async { 1 },")
	require.Contains(t, out.Source, "async { 2 },")
}

func TestTranspileSpawnBlock(t *testing.T) {
	out := transpileSource(t, "spawn { print(`background`); }")
	require.Contains(t, out.Source, "tokio::spawn(async move {")
}

func TestTranspileWhileMaxBound(t *testing.T) {
	src := "count:i = 0;\nwhile count < 10 max 100 { print(count); }"
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "while (count < 10) {")
	require.Contains(t, out.Source, "if __iterations >= (100) {")
	require.Contains(t, out.Source, `panic!("while loop exceeded its max iteration bound");`)
}

func TestTranspileLoopWithIndex(t *testing.T) {
	src := "loop tick { if { tick > 3 => { break; } }; print(tick); }"
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "let mut __loop_index: i64 = -1;")
	require.Contains(t, out.Source, "let tick: i64 = __loop_index;")
}

func TestTranspileFindComprehension(t *testing.T) {
	src := "nums:a:i = [1,2,3]; found:i = danger(find nn in nums { y nn == 2; }); print(found);"
	out := transpileSource(t, src)

	require.Contains(t, out.Source, "let mut __found = None;")
	require.Contains(t, out.Source, "if (nn == 2) { __found = Some(nn.clone()); break; }")
	require.Contains(t, out.Source, `None => Err(NailError::new("not found"))`)
}

func TestTranspileManifestDedupedAndSorted(t *testing.T) {
	src := `
scores:h:s:i = hashmap_new();
seed:f = math_random();
digest:s = crypto_hash(` + "`payload`" + `);
print(seed);
print(digest);
`
	out := transpileSource(t, src)

	want := transpile.Manifest{
		{Name: "dashmap", Constraint: `"6.1.0"`},
		{Name: "rand", Constraint: `"0.8"`},
		{Name: "sha2", Constraint: `"0.10"`},
		{Name: "tokio", Constraint: `{ version = "1", features = ["rt-multi-thread", "macros"] }`},
	}
	require.Empty(t, cmp.Diff(want, out.Manifest))
	require.Contains(t, out.Manifest.String(), "dashmap = \"6.1.0\"\n")
}

func TestTranspileSerdeDerivesWhenJSONUsed(t *testing.T) {
	src := `
struct Payload { body:s }
parsed:s = danger(json_parse(` + "`{}`" + `));
print(parsed);
`
	out := transpileSource(t, src)
	require.Contains(t, out.Source,
		"#[derive(Debug, Clone, serde::Serialize, serde::Deserialize)]\npub struct Payload {")
}

func TestTranspileDeterministic(t *testing.T) {
	src := "nums:a:i = [1,2,3]; doubled:a:i = map nn in nums { y nn * 2; }; print(doubled);"
	first := transpileSource(t, src)
	second := transpileSource(t, src)
	require.Equal(t, first.Source, second.Source)
	require.Empty(t, cmp.Diff(first.Manifest, second.Manifest))
}

func TestTranspileEmptySource(t *testing.T) {
	out := transpileSource(t, "")
	require.Contains(t, out.Source, "async fn main() {")
	require.Empty(t, cmp.Diff(tokioOnly, out.Manifest))
}
