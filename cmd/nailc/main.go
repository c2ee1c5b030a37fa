// nailc is the command-line driver for the Nail compiler. It recognizes
// one positional argument (the source file) and a mode flag selecting the
// pipeline's stopping point; diagnostics render to stderr and any error
// diagnostic exits non-zero.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nail-lang/nailc/internal/compile"
	"github.com/nail-lang/nailc/internal/diag"
)

func main() {
	var (
		lexOnly   bool
		parseOnly bool
		checkOnly bool
		transpile bool
		depsOnly  bool
	)

	root := &cobra.Command{
		Use:   "nailc [flags] FILE",
		Short: "Compile a Nail source file to async Rust",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := compile.ModeTranspile
			switch {
			case lexOnly:
				mode = compile.ModeLex
			case parseOnly:
				mode = compile.ModeParse
			case checkOnly:
				mode = compile.ModeCheck
			case depsOnly:
				mode = compile.ModeDeps
			case transpile:
				mode = compile.ModeTranspile
			}
			return run(cmd, args[0], mode)
		},
	}
	root.Flags().BoolVar(&lexOnly, "lex-only", false, "stop after lexing and dump the token stream")
	root.Flags().BoolVar(&parseOnly, "parse-only", false, "stop after parsing")
	root.Flags().BoolVar(&checkOnly, "check-only", false, "stop after checking")
	root.Flags().BoolVar(&transpile, "transpile", false, "emit Rust source plus the dependency manifest (default)")
	root.Flags().BoolVar(&depsOnly, "deps-only", false, "emit only the dependency manifest")
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nailc:", err)
		os.Exit(1)
	}
}

// errDiagnostics signals a compile that failed with rendered diagnostics;
// the message count is for the final stderr line only.
type errDiagnostics struct{ count int }

func (e errDiagnostics) Error() string {
	if e.count == 1 {
		return "1 error"
	}
	return fmt.Sprintf("%d errors", e.count)
}

func run(cmd *cobra.Command, path string, mode compile.Mode) error {
	res, err := compile.Run(path, mode)
	if err != nil {
		return err
	}
	if res.Failed() {
		diag.NewFormatter(res.Files, cmd.ErrOrStderr()).FormatAll(res.Diagnostics)
		return errDiagnostics{count: len(res.Diagnostics)}
	}

	out := cmd.OutOrStdout()
	switch mode {
	case compile.ModeLex:
		for _, t := range res.Tokens {
			fmt.Fprintf(out, "%s\t%s\t%s\n", t.Span, t.Kind, t.Text)
		}
	case compile.ModeParse:
		fmt.Fprintf(out, "parsed %d top-level declaration(s)\n", len(res.File.Decls))
	case compile.ModeCheck:
		fmt.Fprintf(out, "checked ok: %d stdlib function(s) referenced\n", len(res.Info.UsedStdlib))
	case compile.ModeTranspile:
		fmt.Fprint(out, res.Source)
		fmt.Fprintln(out, "[dependencies]")
		fmt.Fprint(out, res.Manifest.String())
	case compile.ModeDeps:
		fmt.Fprintln(out, "[dependencies]")
		fmt.Fprint(out, res.Manifest.String())
	}
	return nil
}
