package lsp

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"llvmopt/internal/llvm"
)

// function is what the server remembers about a function defined in a
// document once the LLVM objects it was read from are gone.
type function struct {
	Name string

	// Start and End are the 0-based lines of the "define" line and of the
	// closing brace.
	Start int
	End   int

	// Params maps a parameter name as written in the text, without the
	// '%', to its argument index.
	Params map[string]int
}

// document is an analyzed text document.
type document struct {
	URI       protocol.DocumentUri
	Text      string
	Lines     []string
	Functions []function
}

// functionAt returns the function whose body spans line, if any.
func (d *document) functionAt(line int) *function {
	for i := range d.Functions {
		if f := &d.Functions[i]; line >= f.Start && line <= f.End {
			return f
		}
	}
	return nil
}

var (
	defineLine = regexp.MustCompile(`^\s*define\b.*?@("[^"]*"|[-a-zA-Z$._0-9]+)\s*\(`)
	irToken    = regexp.MustCompile(`^[%@]?(?:"[^"]*"|[-a-zA-Z$._0-9]+)`)
)

// analyze parses text as LLVM IR in a context of its own, verifies it and
// returns the document with the diagnostics to publish. Nothing LLVM owns
// outlives the call.
func analyze(uri protocol.DocumentUri, path, text string) (*document, []protocol.Diagnostic) {
	doc := &document{URI: uri, Text: text, Lines: strings.Split(text, "\n")}

	ctx := llvm.NewContext()
	defer ctx.Dispose()

	m, err := ctx.ParseIR(filepath.Base(path), []byte(text))
	if err != nil {
		return doc, []protocol.Diagnostic{parseDiagnostic(doc, err)}
	}
	defer m.Dispose()

	doc.Functions = collectFunctions(doc, m)

	diagnostics := []protocol.Diagnostic{}
	var verr *llvm.VerificationError
	if err := m.Verify(); errors.As(err, &verr) {
		diagnostics = append(diagnostics, verifierDiagnostic(doc, verr))
	}

	return doc, diagnostics
}

func collectFunctions(doc *document, m llvm.Module) []function {
	spans := map[string][2]int{}
	for i, line := range doc.Lines {
		match := defineLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		end := i
		if !strings.HasSuffix(strings.TrimSpace(stripComment(line)), "}") {
			for end < len(doc.Lines)-1 && strings.TrimSpace(doc.Lines[end]) != "}" {
				end++
			}
		}
		spans[strings.Trim(match[1], `"`)] = [2]int{i, end}
	}

	var functions []function
	for _, fn := range m.Functions() {
		span, ok := spans[fn.Name()]
		if fn.IsDeclaration() || !ok {
			continue
		}

		f := function{Name: fn.Name(), Start: span[0], End: span[1], Params: map[string]int{}}

		// Unnamed parameters are numbered %0, %1, ... in order.
		slot := 0
		for _, p := range fn.Params() {
			index, err := p.ArgumentIndex()
			if err != nil || index == llvm.NotAnArgument {
				continue
			}
			name := p.Name()
			if name == "" {
				name = fmt.Sprint(slot)
				slot++
			}
			f.Params[name] = index
		}

		functions = append(functions, f)
	}

	return functions
}

func parseDiagnostic(doc *document, err error) protocol.Diagnostic {
	var perr *llvm.ParseError
	if !errors.As(err, &perr) || perr.Line == 0 {
		return protocol.Diagnostic{
			Range:    lineRange(doc, 0),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("llvm-parser"),
			Message:  err.Error(),
		}
	}

	line := perr.Line - 1
	start := perr.Column - 1
	end := start + tokenLength(doc, line, start)

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("llvm-parser"),
		Message:  perr.Message,
	}
}

// verifierDiagnostic reports err on the line of the last instruction the
// verifier quoted, or on the first line. The verifier quotes the offending
// user last, e.g. after the definition it does not dominate.
func verifierDiagnostic(doc *document, err *llvm.VerificationError) protocol.Diagnostic {
	message := strings.TrimSpace(err.Message)
	first, rest, _ := strings.Cut(message, "\n")

	line := 0
	quotes := strings.Split(rest, "\n")
	for i := len(quotes) - 1; i >= 0; i-- {
		quoted := strings.TrimSpace(quotes[i])
		if quoted == "" {
			continue
		}
		if n := findLine(doc, quoted); n >= 0 {
			line = n
			break
		}
	}

	return protocol.Diagnostic{
		Range:    lineRange(doc, line),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("llvm-verifier"),
		Message:  first,
	}
}

func findLine(doc *document, text string) int {
	for i, line := range doc.Lines {
		if strings.TrimSpace(line) == text {
			return i
		}
	}
	return -1
}

// lineRange covers the text of line, without its indentation.
func lineRange(doc *document, line int) protocol.Range {
	var text string
	if line < len(doc.Lines) {
		text = doc.Lines[line]
	}
	start := len(text) - len(strings.TrimLeft(text, " \t"))

	return protocol.Range{
		Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
		End:   protocol.Position{Line: uint32(line), Character: uint32(len(text))},
	}
}

// tokenLength returns the length of the IR token starting at column start
// of line, at least 1.
func tokenLength(doc *document, line, start int) int {
	if line >= len(doc.Lines) || start >= len(doc.Lines[line]) {
		return 1
	}
	rest := doc.Lines[line][start:]
	if loc := irToken.FindStringIndex(rest); loc != nil && loc[1] > 0 {
		return loc[1]
	}
	return 1
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
