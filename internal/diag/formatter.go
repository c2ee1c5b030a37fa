package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nail-lang/nailc/internal/span"
)

// Formatter renders diagnostics in a Rust-style format with source
// snippets, reading file text and paths from a span.FileTable rather than
// the filesystem directly — by the time a diagnostic is rendered, included
// files have already been read once by the lexer and their text lives in
// the table.
type Formatter struct {
	files *span.FileTable
	out   io.Writer
}

// NewFormatter creates a formatter that resolves spans against files.
func NewFormatter(files *span.FileTable, out io.Writer) *Formatter {
	return &Formatter{files: files, out: out}
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	f.printHeader(d)
	if len(spans) == 0 {
		f.printHelp(d)
		return
	}

	spansByFile := make(map[span.FileID][]LabeledSpan)
	order := []span.FileID{}
	for _, s := range spans {
		if _, seen := spansByFile[s.Span.File]; !seen {
			order = append(order, s.Span.File)
		}
		spansByFile[s.Span.File] = append(spansByFile[s.Span.File], s)
	}

	for _, fileID := range order {
		f.printFileSpans(fileID, spansByFile[fileID])
	}
	f.printHelp(d)
}

// FormatAll renders a diagnostic list in order, separated by blank lines.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
}

func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if !d.Span.Zero() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printFileSpans(fileID span.FileID, spans []LabeledSpan) {
	path := f.files.Path(fileID)
	src := f.files.Text(fileID)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.StartLine != spans[j].Span.StartLine {
			return spans[i].Span.StartLine < spans[j].Span.StartLine
		}
		return spans[i].Span.StartCol < spans[j].Span.StartCol
	})

	spansByLine := make(map[int][]LabeledSpan)
	for _, s := range spans {
		if s.Span.StartLine > 0 && s.Span.StartLine <= maxLine {
			spansByLine[s.Span.StartLine] = append(spansByLine[s.Span.StartLine], s)
		}
	}
	if len(spansByLine) == 0 {
		if path != "" {
			fmt.Fprintf(f.out, "  --> %s\n", path)
		}
		return
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for ln := range spansByLine {
		lineNumbers = append(lineNumbers, ln)
	}
	sort.Ints(lineNumbers)

	startLine, endLine := lineNumbers[0], lineNumbers[len(lineNumbers)-1]
	contextStart := max(1, startLine-1)
	contextEnd := min(maxLine, endLine+1)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))

	if path != "" {
		fmt.Fprintf(f.out, "  --> %s\n", path)
	}
	fmt.Fprintf(f.out, "   %s |\n", strings.Repeat(" ", lineNumWidth))

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := ""
		if lineNum <= len(lines) {
			lineContent = lines[lineNum-1]
		}
		fmt.Fprintf(f.out, " %*d | %s\n", lineNumWidth, lineNum, lineContent)
		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(lineNumWidth, lineContent, lineSpans)
		}
	}
	fmt.Fprintf(f.out, "   %s |\n", strings.Repeat(" ", lineNumWidth))
}

func (f *Formatter) printUnderlines(lineNumWidth int, lineContent string, spans []LabeledSpan) {
	width := max(len(lineContent), 1)
	underline := make([]byte, width)
	for i := range underline {
		underline[i] = ' '
	}

	markSpan := func(s LabeledSpan, mark byte, onlyBlank bool) {
		start := max(0, s.Span.StartCol-1)
		length := max(1, s.Span.EndByte-s.Span.StartByte)
		end := min(len(underline), start+length)
		for i := start; i < end && i < len(underline); i++ {
			if !onlyBlank || underline[i] == ' ' {
				underline[i] = mark
			}
		}
	}
	for _, s := range spans {
		if s.Style == "primary" {
			markSpan(s, '^', false)
		}
	}
	for _, s := range spans {
		if s.Style != "primary" {
			markSpan(s, '~', true)
		}
	}

	fmt.Fprintf(f.out, "   %s | %s", strings.Repeat(" ", lineNumWidth), string(underline))

	var primaryLabel string
	var secondaryLabels []string
	for _, s := range spans {
		if s.Label == "" {
			continue
		}
		if s.Style == "primary" {
			primaryLabel = s.Label
		} else {
			secondaryLabels = append(secondaryLabels, s.Label)
		}
	}
	if primaryLabel != "" {
		fmt.Fprintf(f.out, " %s", primaryLabel)
	}
	fmt.Fprintln(f.out)
	for _, label := range secondaryLabels {
		fmt.Fprintf(f.out, "   %s | %s\n", strings.Repeat(" ", lineNumWidth), label)
	}
}

func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
