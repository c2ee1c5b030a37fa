package check_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/check"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/lexer"
	"github.com/nail-lang/nailc/internal/parser"
	"github.com/nail-lang/nailc/internal/span"
)

// checkSource runs the lexer and parser (which must both succeed) and
// returns the checker's output for src.
func checkSource(t *testing.T, src string) (*check.Info, []diag.Diagnostic) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.nail")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	files := span.NewFileTable()
	toks, ldiags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, ldiags)
	file, pdiags := parser.ParseFile(toks)
	require.Empty(t, pdiags)
	return check.Check(file)
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = string(d.Code)
	}
	return out
}

func TestCheckArithmeticAndPrint(t *testing.T) {
	info, diags := checkSource(t, "result:i = 2 + 3 * 4; print(result);")
	require.Empty(t, diags)
	require.Contains(t, info.UsedStdlib, "print")
}

func TestCheckMapComprehension(t *testing.T) {
	info, diags := checkSource(t,
		"nums:a:i = [1,2,3]; doubled:a:i = map nn in nums { y nn * 2; }; print(doubled);")
	require.Empty(t, diags)
	require.Contains(t, info.UsedStdlib, "print")
}

func TestCheckReduceWithSeed(t *testing.T) {
	_, diags := checkSource(t,
		"xs:a:i = [1,2,3,4]; total:i = reduce acc nn in xs from 0 { y acc + nn; }; print(total);")
	require.Empty(t, diags)
}

const divideProgram = `
f divide(top:i, bottom:i):i!e {
  if { bottom == 0 => { r err(` + "`div by zero`" + `); }, else => { r ok(top / bottom); } }
}
f handle(err_val:e):i { r -1; }
`

func TestCheckSafeDischarge(t *testing.T) {
	_, diags := checkSource(t, divideProgram+"out:i = safe(divide(10, 0), handle);\nprint(out);")
	require.Empty(t, diags)
}

func TestCheckUnhandledResultBinding(t *testing.T) {
	_, diags := checkSource(t, divideProgram+"out:i = divide(10, 2);")
	require.Contains(t, codes(diags), "TYPE_UNHANDLED_RESULT")
}

func TestCheckDangerDischargesResult(t *testing.T) {
	_, diags := checkSource(t, "xs:a:i = [1,2,3]; first_val:i = danger(array_first(xs));")
	require.Empty(t, diags)
}

func TestCheckWrongHandlerParamType(t *testing.T) {
	src := divideProgram + `
f bad_handle(msg:s):i { r -1; }
out:i = safe(divide(10, 0), bad_handle);
`
	_, diags := checkSource(t, src)
	require.Contains(t, codes(diags), "TYPE_BAD_ERROR_HANDLER_PARAM")
}

func TestCheckNonExhaustiveEnumConditional(t *testing.T) {
	src := `
enum Light { Red, Yellow, Green }
light:Light = Light::Red;
if { light == Light::Red => { print(` + "`r`" + `); }, light == Light::Yellow => { print(` + "`y`" + `); } };
`
	_, diags := checkSource(t, src)
	require.Contains(t, codes(diags), "TYPE_NON_EXHAUSTIVE_CONDITIONAL")
	require.Contains(t, diags[0].Message, "Green")
}

func TestCheckExhaustiveEnumConditionalAccepted(t *testing.T) {
	src := `
enum Light { Red, Yellow, Green }
light:Light = Light::Red;
if {
  light == Light::Red => { print(1); },
  light == Light::Yellow => { print(2); },
  light == Light::Green => { print(3); }
};
`
	_, diags := checkSource(t, src)
	require.Empty(t, diags)
}

func TestCheckVoidBindingRejected(t *testing.T) {
	_, diags := checkSource(t, "msg:s = print(`hi`);")
	require.Contains(t, codes(diags), "TYPE_VOID_BINDING")
}

func TestCheckMissingReturn(t *testing.T) {
	_, diags := checkSource(t, "f get_two(seed:i):i { print(seed); }")
	require.Contains(t, codes(diags), "FLOW_MISSING_RETURN")
}

func TestCheckYieldOutsideComprehension(t *testing.T) {
	_, diags := checkSource(t, "f noop(seed:i):v { y seed; }")
	require.Contains(t, codes(diags), "FLOW_YIELD_OUTSIDE_COMPREHENSION")
}

func TestCheckReturnInsideComprehension(t *testing.T) {
	_, diags := checkSource(t, "nums:a:i = [1,2]; bad:a:i = map nn in nums { r nn; };")
	require.Contains(t, codes(diags), "TYPE_RETURN_YIELD_MIX")
}

func TestCheckMissingYieldInComprehension(t *testing.T) {
	_, diags := checkSource(t, "nums:a:i = [1,2]; out:a:i = map nn in nums { print(nn); };")
	require.Contains(t, codes(diags), "FLOW_MISSING_YIELD")
}

func TestCheckUndeclaredIdentifier(t *testing.T) {
	_, diags := checkSource(t, "print(missing_thing);")
	require.Contains(t, codes(diags), "NAME_UNDECLARED_IDENTIFIER")
}

func TestCheckDuplicateTopLevelDeclaration(t *testing.T) {
	_, diags := checkSource(t, "struct Pair { left:i, right:i }\nstruct Pair { only:i }")
	require.Contains(t, codes(diags), "NAME_DUPLICATE_DECLARATION")
}

func TestCheckShadowingPermitted(t *testing.T) {
	_, diags := checkSource(t, "val:i = 1; val:s = `two`; print(val);")
	require.Empty(t, diags)
}

func TestCheckConditionalBranchTypeConflict(t *testing.T) {
	_, diags := checkSource(t,
		"val:i = if { true => { r 1; }, else => { r `one`; } };")
	require.Contains(t, codes(diags), "TYPE_MISMATCH")
}

func TestCheckStructLiteralAndFieldAccess(t *testing.T) {
	src := `
struct Point { xpos:i, ypos:i }
pt:Point = Point { xpos: 1, ypos: 2 };
total:i = pt.xpos + pt.ypos;
print(total);
`
	_, diags := checkSource(t, src)
	require.Empty(t, diags)
}

func TestCheckStructLiteralMissingField(t *testing.T) {
	src := `
struct Point { xpos:i, ypos:i }
pt:Point = Point { xpos: 1 };
`
	_, diags := checkSource(t, src)
	require.Contains(t, codes(diags), "TYPE_STRUCT_FIELD_MISMATCH")
}

func TestCheckNonConcreteStructField(t *testing.T) {
	_, diags := checkSource(t, "struct Holder { inner:v }")
	require.Contains(t, codes(diags), "TYPE_NOT_CONCRETE")
}

func TestCheckUnknownCall(t *testing.T) {
	_, diags := checkSource(t, "no_such_function(1);")
	require.Contains(t, codes(diags), "REGISTRY_UNKNOWN_CALL")
}

func TestCheckPipeThreadsFinalArgument(t *testing.T) {
	_, diags := checkSource(t,
		"nums:a:i = [1,2,3]; count:i = nums |> array_len(); print(count);")
	require.Empty(t, diags)
}

func TestCheckBreakOutsideLoop(t *testing.T) {
	_, diags := checkSource(t, "f noop(seed:i):v { break; }")
	require.Contains(t, codes(diags), "FLOW_BREAK_OUTSIDE_LOOP")
}

func TestCheckParallelBindingsVisibleAfterBlock(t *testing.T) {
	src := `
parallel {
  left_val:i = 1;
  right_val:i = 2;
}
total:i = left_val + right_val;
print(total);
`
	_, diags := checkSource(t, src)
	require.Empty(t, diags)
}

func TestCheckFindReturnsResult(t *testing.T) {
	src := `
nums:a:i = [1,2,3];
found:i = danger(find nn in nums { y nn == 2; });
print(found);
`
	_, diags := checkSource(t, src)
	require.Empty(t, diags)
}

func TestCheckUsedStdlibTracking(t *testing.T) {
	info, diags := checkSource(t,
		"nums:a:i = array_range(0, 5); count:i = array_len(nums); print(count);")
	require.Empty(t, diags)
	require.Contains(t, info.UsedStdlib, "array_range")
	require.Contains(t, info.UsedStdlib, "array_len")
	require.Contains(t, info.UsedStdlib, "print")
	require.NotContains(t, info.UsedStdlib, "array_push")
}

func TestCheckEveryExpressionHasType(t *testing.T) {
	info, diags := checkSource(t,
		"nums:a:i = [1,2,3]; doubled:a:i = map nn in nums { y nn * 2; }; print(doubled);")
	require.Empty(t, diags)
	for x, ty := range info.Types {
		require.NotNil(t, x)
		require.NotNil(t, ty)
	}
	require.NotEmpty(t, info.Types)
}
