// Package registry is Nail's stdlib registry: the single,
// read-only table describing every built-in function's signature, its
// abstract target-language call form, and the external libraries it pulls
// into the emitted program's dependency manifest.
//
// This is the only place in the compiler where per-function knowledge is
// allowed to live (besides the `print` special case the checker and
// transpiler both carry, tagged TagVariadicPrint below). The lexer,
// parser, checker, and transpiler must not grow name-keyed branches for
// anything else; they read signatures, call forms, and libraries out of
// this table instead.
package registry

import "github.com/nail-lang/nailc/internal/types"

// Module groups registry entries by the logical target-language area their
// abstract call form addresses.
type Module string

const (
	ModString   Module = "string"
	ModMath     Module = "math"
	ModArray    Module = "array"
	ModHashMap  Module = "hashmap"
	ModIO       Module = "io"
	ModFS       Module = "fs"
	ModHTTP     Module = "http"
	ModTime     Module = "time"
	ModCrypto   Module = "crypto"
	ModPrint    Module = "print"
	ModError    Module = "error"
	ModMarkdown Module = "markdown"
	ModDB       Module = "db"
)

// Tag is the closed set of special behaviors the checker/transpiler must
// consult the registry for instead of hard-coding; at most one per entry.
type Tag string

const (
	TagNone             Tag = ""
	TagVariadicPrint    Tag = "variadic-print"
	TagErrorDischarger  Tag = "error-discharger"
	TagErrorConstructor Tag = "error-constructor"
	TagPipeSource       Tag = "pipe-source"
	TagDiverging        Tag = "diverging" // panic/todo: never returns, excluded from branch unification
)

// LibraryID names an opaque external-library dependency a stdlib function
// requires. The transpiler is the only component that turns a LibraryID
// into a concrete manifest line.
type LibraryID string

const (
	LibHTTPRuntime       LibraryID = "http_runtime"
	LibAsyncRuntime      LibraryID = "async_runtime"
	LibJSON              LibraryID = "json"
	LibSerde             LibraryID = "serde"
	LibRegex             LibraryID = "regex"
	LibRandom            LibraryID = "random"
	LibHashmapConcurrent LibraryID = "hashmap_concurrent"
	LibMarkdown          LibraryID = "markdown"
	LibHTTPClient        LibraryID = "http_client"
	LibCrypto            LibraryID = "crypto"
	LibBase64            LibraryID = "base64"
	LibURLEncoding       LibraryID = "url_encoding"
)

// ExternalLibrary maps an internal LibraryID to the (name, version
// constraint) pair the transpiler's manifest builder writes out. The
// version constraint is rendered
// verbatim as a Cargo.toml value, so a simple crate takes a quoted string
// and a crate needing features takes an inline-table literal.
type ExternalLibrary struct {
	Crate      string
	Constraint string
}

// Libraries maps each internal library identifier to its target-language
// dependency declaration.
var Libraries = map[LibraryID]ExternalLibrary{
	LibHTTPRuntime:       {Crate: "axum", Constraint: `"0.7"`},
	LibAsyncRuntime:      {Crate: "tokio", Constraint: `{ version = "1", features = ["rt-multi-thread", "macros"] }`},
	LibJSON:              {Crate: "serde_json", Constraint: `"1.0"`},
	LibSerde:             {Crate: "serde", Constraint: `{ version = "1.0", features = ["derive"] }`},
	LibRegex:             {Crate: "regex", Constraint: `"1.10"`},
	LibRandom:            {Crate: "rand", Constraint: `"0.8"`},
	LibHashmapConcurrent: {Crate: "dashmap", Constraint: `"6.1.0"`},
	LibMarkdown:          {Crate: "pulldown-cmark", Constraint: `"0.9"`},
	LibHTTPClient:        {Crate: "reqwest", Constraint: `{ version = "0.12", features = ["json"] }`},
	LibCrypto:            {Crate: "sha2", Constraint: `"0.10"`},
	LibBase64:            {Crate: "base64", Constraint: `"0.22"`},
	LibURLEncoding:       {Crate: "urlencoding", Constraint: `"2.1"`},
}

// CallForm is the abstract `CALL(module, function, args)` template.
// Function defaults to the registry key when empty (most
// entries emit a call named after themselves); a handful of entries (the
// string_from_array_* family) set it explicitly to the concrete function
// their module dispatches to.
type CallForm struct {
	Module   Module
	Function string
}

// Entry is one stdlib registry row.
type Entry struct {
	Name              string
	Params            []types.Type
	Return            types.Type
	Call              CallForm
	RequiredLibraries []LibraryID
	Tag               Tag
}

// table is the closed set of registry entries, built once at package init.
var table = map[string]Entry{}

func reg(e Entry) {
	if e.Call.Function == "" {
		e.Call.Function = e.Name
	}
	table[e.Name] = e
}

// Lookup returns the registry entry for name, and whether one exists. A
// miss means either a user-defined function (resolved via the checker's
// symbol table) or a registry error.
func Lookup(name string) (Entry, bool) {
	e, ok := table[name]
	return e, ok
}

// All returns every registry entry, for callers (such as the registry's
// tests) that need to enumerate the full catalogue.
func All() map[string]Entry {
	return table
}

func arr(elem types.Type) *types.Array      { return &types.Array{Elem: elem} }
func hm(k, v types.Type) *types.HashMap     { return &types.HashMap{Key: k, Value: v} }
func result(t types.Type) *types.Result     { return &types.Result{Inner: t} }
func anyOf(alts ...types.Type) *types.AnyOf { return &types.AnyOf{Alternatives: alts} }

var (
	tI = types.TInt
	tF = types.TFloat
	tS = types.TStr
	tB = types.TBool
	tV = types.TVoid
	tE = types.TErr
)

func init() {
	registerPrint()
	registerString()
	registerArray()
	registerHashMap()
	registerMath()
	registerIO()
	registerFS()
	registerHTTP()
	registerTime()
	registerCrypto()
	registerError()
	registerMisc()
}

func registerPrint() {
	// print is the one legitimate name-keyed special case:
	// it is variadic and accepts any type, so no fixed Params list can
	// describe it. The checker and transpiler both special-case this one
	// name; every other function's behavior comes from this table alone.
	reg(Entry{Name: "print", Params: nil, Return: tV, Call: CallForm{Module: ModPrint}, Tag: TagVariadicPrint})
	reg(Entry{Name: "eprintln", Params: nil, Return: tV, Call: CallForm{Module: ModPrint}, Tag: TagVariadicPrint})
	reg(Entry{Name: "print_no_newline", Params: nil, Return: tV, Call: CallForm{Module: ModPrint}, Tag: TagVariadicPrint})
	reg(Entry{Name: "print_debug", Params: nil, Return: tV, Call: CallForm{Module: ModPrint}, Tag: TagVariadicPrint})
	reg(Entry{Name: "print_clear_screen", Params: []types.Type{}, Return: tV, Call: CallForm{Module: ModPrint}})
}

func registerString() {
	reg(Entry{Name: "string_concat", Params: []types.Type{tS, tS}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_split", Params: []types.Type{tS, tS}, Return: arr(tS), Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_trim", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_contains", Params: []types.Type{tS, tS}, Return: tB, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_replace", Params: []types.Type{tS, tS, tS}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_len", Params: []types.Type{tS}, Return: tI, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_to_uppercase", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_to_lowercase", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_from", Params: []types.Type{anyOf(tI, tF, tB)}, Return: tS, Call: CallForm{Module: ModString}})
	reg(Entry{Name: "string_from_array_i64", Params: []types.Type{arr(tI)}, Return: tS, Call: CallForm{Module: ModString, Function: "string_from_array"}})
	reg(Entry{Name: "string_from_array_f64", Params: []types.Type{arr(tF)}, Return: tS, Call: CallForm{Module: ModString, Function: "string_from_array"}})
	reg(Entry{Name: "string_from_array_string", Params: []types.Type{arr(tS)}, Return: tS, Call: CallForm{Module: ModString, Function: "string_from_array"}})
	reg(Entry{Name: "string_from_array_bool", Params: []types.Type{arr(tB)}, Return: tS, Call: CallForm{Module: ModString, Function: "string_from_array"}})
}

func registerArray() {
	genericElem := anyOf(tI, tF, tS, tB)
	reg(Entry{Name: "array_len", Params: []types.Type{arr(genericElem)}, Return: tI, Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_push", Params: []types.Type{arr(genericElem), genericElem}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_pop", Params: []types.Type{arr(genericElem)}, Return: result(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_contains", Params: []types.Type{arr(genericElem), genericElem}, Return: tB, Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_join", Params: []types.Type{arr(tS), tS}, Return: tS, Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_sort", Params: []types.Type{arr(genericElem)}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_reverse", Params: []types.Type{arr(genericElem)}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_concat", Params: []types.Type{arr(genericElem), arr(genericElem)}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_get", Params: []types.Type{arr(genericElem), tI}, Return: result(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_first", Params: []types.Type{arr(genericElem)}, Return: result(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_last", Params: []types.Type{arr(genericElem)}, Return: result(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_slice", Params: []types.Type{arr(genericElem), tI, tI}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_take", Params: []types.Type{arr(genericElem), tI}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_skip", Params: []types.Type{arr(genericElem), tI}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "array_range", Params: []types.Type{tI, tI}, Return: arr(tI), Call: CallForm{Module: ModArray}, Tag: TagPipeSource})
	reg(Entry{Name: "array_range_exclusive", Params: []types.Type{tI, tI}, Return: arr(tI), Call: CallForm{Module: ModArray}})

	// Generic accessors: the source language forbids user-defined
	// generics, so array/hashmap functions reused across element types
	// are declared once with an any-of parameter; the checker records which concrete
	// alternative a call site picked on the call node.
	reg(Entry{Name: "get_index", Params: []types.Type{anyOf(arr(genericElem), hm(genericElem, genericElem)), genericElem}, Return: genericElem, Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "len", Params: []types.Type{anyOf(arr(genericElem), hm(genericElem, genericElem), tS)}, Return: tI, Call: CallForm{Module: ModArray}})
	reg(Entry{Name: "push", Params: []types.Type{anyOf(arr(genericElem)), genericElem}, Return: arr(genericElem), Call: CallForm{Module: ModArray}})
}

func registerHashMap() {
	k, v := anyOf(tI, tS), anyOf(tI, tF, tS, tB)
	reg(Entry{Name: "hashmap_new", Params: []types.Type{}, Return: hm(k, v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_insert", Params: []types.Type{hm(k, v), k, v}, Return: hm(k, v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_get", Params: []types.Type{hm(k, v), k}, Return: result(v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_remove", Params: []types.Type{hm(k, v), k}, Return: result(v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_contains_key", Params: []types.Type{hm(k, v), k}, Return: tB, Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_len", Params: []types.Type{hm(k, v)}, Return: tI, Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_is_empty", Params: []types.Type{hm(k, v)}, Return: tB, Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_clear", Params: []types.Type{hm(k, v)}, Return: hm(k, v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_keys", Params: []types.Type{hm(k, v)}, Return: arr(k), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_values", Params: []types.Type{hm(k, v)}, Return: arr(v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_to_vec", Params: []types.Type{hm(k, v)}, Return: arr(hm(k, v)), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_from_vec", Params: []types.Type{arr(hm(k, v))}, Return: hm(k, v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_entry_or_insert", Params: []types.Type{hm(k, v), k, v}, Return: v, Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
	reg(Entry{Name: "hashmap_merge", Params: []types.Type{hm(k, v), hm(k, v)}, Return: hm(k, v), Call: CallForm{Module: ModHashMap}, RequiredLibraries: []LibraryID{LibHashmapConcurrent}})
}

func registerMath() {
	reg(Entry{Name: "math_abs", Params: []types.Type{anyOf(tI, tF)}, Return: anyOf(tI, tF), Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_sqrt", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_pow", Params: []types.Type{tF, tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_round", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_floor", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_ceil", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_min", Params: []types.Type{anyOf(tI, tF), anyOf(tI, tF)}, Return: anyOf(tI, tF), Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_max", Params: []types.Type{anyOf(tI, tF), anyOf(tI, tF)}, Return: anyOf(tI, tF), Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "math_random", Params: []types.Type{}, Return: tF, Call: CallForm{Module: ModMath}, RequiredLibraries: []LibraryID{LibRandom}})
	reg(Entry{Name: "math_divide", Params: []types.Type{tF, tF}, Return: result(tF), Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "int_abs", Params: []types.Type{tI}, Return: tI, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "int_min", Params: []types.Type{tI, tI}, Return: tI, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "int_max", Params: []types.Type{tI, tI}, Return: tI, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "int_pow", Params: []types.Type{tI, tI}, Return: tI, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_abs", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_sqrt", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_floor", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_ceil", Params: []types.Type{tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_min", Params: []types.Type{tF, tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_max", Params: []types.Type{tF, tF}, Return: tF, Call: CallForm{Module: ModMath}})
	reg(Entry{Name: "float_random", Params: []types.Type{}, Return: tF, Call: CallForm{Module: ModMath}, RequiredLibraries: []LibraryID{LibRandom}})
}

func registerIO() {
	reg(Entry{Name: "io_read_line", Params: []types.Type{}, Return: result(tS), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "io_read_line_prompt", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "io_read_int", Params: []types.Type{}, Return: result(tI), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "io_read_int_prompt", Params: []types.Type{tS}, Return: result(tI), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "io_read_float", Params: []types.Type{}, Return: result(tF), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "io_read_float_prompt", Params: []types.Type{tS}, Return: result(tF), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "env_get", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "env_set", Params: []types.Type{tS, tS}, Return: tV, Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "env_args", Params: []types.Type{}, Return: arr(tS), Call: CallForm{Module: ModIO}})
	reg(Entry{Name: "process_exit", Params: []types.Type{tI}, Return: tV, Call: CallForm{Module: ModIO}, Tag: TagDiverging})
	reg(Entry{Name: "process_run", Params: []types.Type{tS, arr(tS)}, Return: result(tS), Call: CallForm{Module: ModIO}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
}

func registerFS() {
	reg(Entry{Name: "fs_read", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "fs_write", Params: []types.Type{tS, tS}, Return: result(tV), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "fs_create_dir", Params: []types.Type{tS}, Return: result(tV), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "fs_remove_file", Params: []types.Type{tS}, Return: result(tV), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "fs_copy", Params: []types.Type{tS, tS}, Return: result(tV), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "fs_move", Params: []types.Type{tS, tS}, Return: result(tV), Call: CallForm{Module: ModFS}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "path_join", Params: []types.Type{tS, tS}, Return: tS, Call: CallForm{Module: ModFS}})
	reg(Entry{Name: "path_exists", Params: []types.Type{tS}, Return: tB, Call: CallForm{Module: ModFS}})
}

func registerHTTP() {
	reg(Entry{Name: "http_server_start", Params: []types.Type{tI}, Return: result(tV), Call: CallForm{Module: ModHTTP}, RequiredLibraries: []LibraryID{LibHTTPRuntime, LibAsyncRuntime}})
	reg(Entry{Name: "http_server_route", Params: []types.Type{tS, tS, tS}, Return: tV, Call: CallForm{Module: ModHTTP}, RequiredLibraries: []LibraryID{LibHTTPRuntime, LibAsyncRuntime}})
	reg(Entry{Name: "http_get", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModHTTP}, RequiredLibraries: []LibraryID{LibHTTPClient, LibAsyncRuntime}})
	reg(Entry{Name: "http_post", Params: []types.Type{tS, tS}, Return: result(tS), Call: CallForm{Module: ModHTTP}, RequiredLibraries: []LibraryID{LibHTTPClient, LibAsyncRuntime}})
}

func registerTime() {
	reg(Entry{Name: "time_now", Params: []types.Type{}, Return: tI, Call: CallForm{Module: ModTime}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "time_sleep", Params: []types.Type{tI}, Return: tV, Call: CallForm{Module: ModTime}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "time_format", Params: []types.Type{tI, tS}, Return: tS, Call: CallForm{Module: ModTime}})
}

func registerCrypto() {
	reg(Entry{Name: "crypto_hash", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibCrypto}})
	reg(Entry{Name: "crypto_encrypt", Params: []types.Type{tS, tS}, Return: result(tS), Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibCrypto}})
	reg(Entry{Name: "crypto_decrypt", Params: []types.Type{tS, tS}, Return: result(tS), Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibCrypto}})
	reg(Entry{Name: "base64_encode", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibBase64}})
	reg(Entry{Name: "base64_decode", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibBase64}})
	reg(Entry{Name: "url_encode", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibURLEncoding}})
	reg(Entry{Name: "url_decode", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibURLEncoding}})
	reg(Entry{Name: "regex_match", Params: []types.Type{tS, tS}, Return: tB, Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibRegex}})
	reg(Entry{Name: "regex_replace", Params: []types.Type{tS, tS, tS}, Return: tS, Call: CallForm{Module: ModCrypto}, RequiredLibraries: []LibraryID{LibRegex}})
}

func registerError() {
	// safe/danger/expect discharge a result; ok/err construct one. The
	// checker reads Params[1] of `safe` (the handler's parameter type) to
	// enforce the handler-takes-Error rule instead of hard-coding it.
	genT := anyOf(tI, tF, tS, tB)
	reg(Entry{Name: "safe", Params: []types.Type{result(genT), &types.Function{Params: []types.Type{tE}, Return: genT}}, Return: genT, Call: CallForm{Module: ModError}, Tag: TagErrorDischarger})
	reg(Entry{Name: "danger", Params: []types.Type{result(genT)}, Return: genT, Call: CallForm{Module: ModError}, Tag: TagErrorDischarger})
	reg(Entry{Name: "expect", Params: []types.Type{result(genT)}, Return: genT, Call: CallForm{Module: ModError}, Tag: TagErrorDischarger})
	reg(Entry{Name: "ok", Params: []types.Type{genT}, Return: result(genT), Call: CallForm{Module: ModError}, Tag: TagErrorConstructor})
	reg(Entry{Name: "err", Params: []types.Type{tS}, Return: result(genT), Call: CallForm{Module: ModError}, Tag: TagErrorConstructor})
	reg(Entry{Name: "panic", Params: []types.Type{tS}, Return: tV, Call: CallForm{Module: ModError}, Tag: TagDiverging})
	reg(Entry{Name: "todo", Params: []types.Type{}, Return: tV, Call: CallForm{Module: ModError}, Tag: TagDiverging})
}

func registerMisc() {
	reg(Entry{Name: "markdown_to_html", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModMarkdown}, RequiredLibraries: []LibraryID{LibMarkdown}})
	reg(Entry{Name: "markdown_to_html_with_options", Params: []types.Type{tS, tS}, Return: tS, Call: CallForm{Module: ModMarkdown}, RequiredLibraries: []LibraryID{LibMarkdown}})
	reg(Entry{Name: "json_parse", Params: []types.Type{tS}, Return: result(tS), Call: CallForm{Module: ModIO}, RequiredLibraries: []LibraryID{LibJSON, LibSerde}})
	reg(Entry{Name: "json_stringify", Params: []types.Type{tS}, Return: tS, Call: CallForm{Module: ModIO}, RequiredLibraries: []LibraryID{LibJSON, LibSerde}})
	reg(Entry{Name: "db_connect", Params: []types.Type{tS}, Return: result(tI), Call: CallForm{Module: ModDB}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "db_query", Params: []types.Type{tI, tS}, Return: result(arr(tS)), Call: CallForm{Module: ModDB}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
	reg(Entry{Name: "db_execute", Params: []types.Type{tI, tS}, Return: result(tI), Call: CallForm{Module: ModDB}, RequiredLibraries: []LibraryID{LibAsyncRuntime}})
}
