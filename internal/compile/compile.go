// Package compile is the core's single external interface:
// compile a Nail source file up to a selected stopping point and return
// everything the stages produced. Data flows strictly forward — lexer,
// parser, checker, transpiler — and the first stage to produce a
// diagnostic short-circuits the ones after it.
package compile

import (
	"github.com/pkg/errors"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/check"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/lexer"
	"github.com/nail-lang/nailc/internal/parser"
	"github.com/nail-lang/nailc/internal/project"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
	"github.com/nail-lang/nailc/internal/transpile"
)

// Mode selects where the pipeline stops.
type Mode string

const (
	ModeLex       Mode = "lex-only"
	ModeParse     Mode = "parse-only"
	ModeCheck     Mode = "check-only"
	ModeTranspile Mode = "transpile"
	ModeDeps      Mode = "deps-only"
)

// Result carries whichever artifacts the selected mode reached, plus the
// diagnostics of the stage that stopped the pipeline (empty on success).
type Result struct {
	Project     *project.Project
	Files       *span.FileTable
	Diagnostics []diag.Diagnostic

	Tokens   []token.Token
	File     *ast.File
	Info     *check.Info
	Source   string
	Manifest transpile.Manifest
}

// Failed reports whether any stage produced an error diagnostic.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// Run compiles the file at path, stopping at mode. The returned error is
// reserved for environmental failures (unreadable manifest, unresolvable
// paths); problems with the source itself come back as Diagnostics.
func Run(path string, mode Mode) (*Result, error) {
	proj, err := project.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading project")
	}

	res := &Result{Project: proj, Files: span.NewFileTable()}

	res.Tokens, res.Diagnostics = lexer.New(res.Files, proj.Root).LexFile(path)
	if res.Failed() || mode == ModeLex {
		return res, nil
	}

	res.File, res.Diagnostics = parser.ParseFile(res.Tokens)
	if res.Failed() || mode == ModeParse {
		return res, nil
	}

	res.Info, res.Diagnostics = check.Check(res.File)
	if res.Failed() || mode == ModeCheck {
		return res, nil
	}

	out, tdiags := transpile.Transpile(res.File, res.Info)
	res.Diagnostics = tdiags
	if res.Failed() {
		return res, nil
	}
	res.Manifest = out.Manifest
	if mode != ModeDeps {
		res.Source = out.Source
	}
	return res, nil
}
