// Package span identifies byte ranges inside Nail source files.
//
// A Span is the one piece of positional information threaded through every
// later stage: tokens carry one, AST nodes carry one, and diagnostics anchor
// on one. Spans survive include expansion unchanged — a token lexed out of
// an inserted file keeps that file's span, never the span of the insert()
// directive that pulled it in.
package span

import "fmt"

// FileID identifies a source file within a single compilation. File 0 is
// always the file passed to compile(); included files receive the next
// free ids in the order they are first opened.
type FileID int

// Span is a contiguous byte range within one source file, plus the
// human-facing line/column of its first byte.
type Span struct {
	File      FileID
	StartByte int
	EndByte   int
	StartLine int // 1-based
	StartCol  int // 1-based
}

// Zero reports whether s is the unset span (used by nodes synthesized by the
// checker/transpiler that have no direct source origin).
func (s Span) Zero() bool {
	return s == Span{}
}

// Join returns the smallest span covering both a and b. Both must belong to
// the same file; Join does not attempt to reconcile spans across files.
func Join(a, b Span) Span {
	if a.Zero() {
		return b
	}
	if b.Zero() {
		return a
	}
	j := a
	if b.EndByte > j.EndByte {
		j.EndByte = b.EndByte
	}
	if b.StartByte < j.StartByte {
		j.StartByte = b.StartByte
		j.StartLine = b.StartLine
		j.StartCol = b.StartCol
	}
	return j
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
}

// FileTable resolves FileIDs to their display path and content, used by the
// diagnostic formatter to render snippets and by the lexer to detect include
// cycles and out-of-root paths.
type FileTable struct {
	paths []string
	text  []string
}

// NewFileTable creates an empty table.
func NewFileTable() *FileTable {
	return &FileTable{}
}

// Add registers a file and returns its id. Re-adding the same path returns
// the existing id rather than allocating a new one.
func (t *FileTable) Add(path, text string) FileID {
	for i, p := range t.paths {
		if p == path {
			return FileID(i)
		}
	}
	t.paths = append(t.paths, path)
	t.text = append(t.text, text)
	return FileID(len(t.paths) - 1)
}

// Path returns the display path for id, or "" if unknown.
func (t *FileTable) Path(id FileID) string {
	if int(id) < 0 || int(id) >= len(t.paths) {
		return ""
	}
	return t.paths[id]
}

// Text returns the source text for id, or "" if unknown.
func (t *FileTable) Text(id FileID) string {
	if int(id) < 0 || int(id) >= len(t.text) {
		return ""
	}
	return t.text[id]
}
