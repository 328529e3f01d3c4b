package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"llvmopt/internal/llvm"
)

var levelParser = participle.MustBuild[LevelSpec](
	participle.Lexer(LevelLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseLevelSpec parses text into its syntax tree.
func ParseLevelSpec(text string) (*LevelSpec, error) {
	spec, err := levelParser.ParseString("level", text)
	if err != nil {
		return nil, fmt.Errorf("invalid optimization level %q: %w", text, err)
	}
	return spec, nil
}

// ParseLevel parses one of the spellings of LevelSpec into an optimization
// level.
func ParseLevel(text string) (llvm.OptimizationLevel, error) {
	spec, err := ParseLevelSpec(text)
	if err != nil {
		return llvm.O0, err
	}

	name := spec.LevelName()
	for _, level := range llvm.OptimizationLevels() {
		if level.String() == name {
			return level, nil
		}
	}

	// The lexer only produces the six names above.
	return llvm.O0, fmt.Errorf("invalid optimization level %q: unknown level %s", text, name)
}

// ReportLevelError writes a caret-style description of a ParseLevel error
// on text to w.
func ReportLevelError(w io.Writer, text string, err error) {
	var pe participle.Error
	if !errors.As(err, &pe) {
		fmt.Fprintln(w, color.RedString("error: %s", err))
		return
	}

	pos := pe.Position()
	column := max(pos.Column, 1)

	fmt.Fprintln(w, color.RedString("error: invalid optimization level at column %d:", column))
	fmt.Fprintf(w, "  %s\n", text)
	fmt.Fprintf(w, "  %s\n", color.HiRedString(strings.Repeat(" ", column-1)+"^"))
	fmt.Fprintf(w, "→ %s (expected default<O2>, O2 or -O2)\n", pe.Message())
}
