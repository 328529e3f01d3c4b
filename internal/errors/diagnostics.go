package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"llvmopt/internal/llvm"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewError creates a new error builder
func NewError(code, message string, pos Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		d: Diagnostic{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		d: Diagnostic{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the marked span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.d.Length = length
	return b
}

// WithSuggestion adds a suggestion
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, message)
	return b
}

// WithNote adds a note
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	if note != "" {
		b.d.Notes = append(b.d.Notes, note)
	}
	return b
}

// WithHelp sets the help text
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.d.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// InvalidIR creates an error for textual IR rejected by the LLVM parser
func InvalidIR(err *llvm.ParseError) Diagnostic {
	return NewError(ErrorInvalidIR, err.Message, Position{Line: err.Line, Column: err.Column}).
		WithHelp("the input must be textual LLVM IR (.ll) or bitcode (.bc)").
		Build()
}

// InvalidBitcode creates an error for bitcode rejected by the LLVM reader
func InvalidBitcode(err *llvm.ParseError) Diagnostic {
	return NewError(ErrorInvalidBitcode, err.Message, Position{}).
		WithSuggestion("regenerate the file with the same LLVM version").
		WithNote("bitcode is only read back by the LLVM release that wrote it or a newer one").
		Build()
}

// VerificationFailed creates an error for a module rejected by the verifier
func VerificationFailed(err *llvm.VerificationError) Diagnostic {
	return NewError(ErrorVerificationFailed, "module is not valid LLVM IR", Position{}).
		WithNote(strings.TrimSpace(err.Message)).
		WithSuggestion("fix the input, or pass --no-verify to optimize it anyway").
		Build()
}

// PipelineBrokeModule creates an error for a module the pipeline left invalid
func PipelineBrokeModule(level llvm.OptimizationLevel, err *llvm.VerificationError) Diagnostic {
	return NewError(ErrorPipelineBrokeModule,
		fmt.Sprintf("module is not valid after running %s", level.Pipeline()), Position{}).
		WithNote(strings.TrimSpace(err.Message)).
		WithHelp("this is an LLVM bug; reduce the input with llvm-reduce and report it upstream").
		Build()
}

// UnreadableInput creates an error for an input file that cannot be read
func UnreadableInput(path string, err error) Diagnostic {
	return NewError(ErrorUnreadableInput, fmt.Sprintf("cannot read '%s'", path), Position{}).
		WithNote(err.Error()).
		Build()
}

// UndefinedFunction creates an error for a function missing from a module
func UndefinedFunction(name string, available []string) Diagnostic {
	builder := NewError(ErrorUndefinedFunction, fmt.Sprintf("no function named '%s' in module", name), Position{})

	similar := findSimilarNames(name, available)
	for _, s := range similar {
		builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", s))
	}
	if len(similar) == 0 && len(available) > 0 {
		builder.WithNote("available functions: " + strings.Join(available, ", "))
	}

	return builder.Build()
}

// DeclarationOnly creates a warning for a function that has no body
func DeclarationOnly(name string) Diagnostic {
	return NewWarning(WarningDeclarationOnly, fmt.Sprintf("function '%s' is only declared", name), Position{}).
		WithNote("declarations have parameters but no instructions").
		Build()
}

// Unverified creates a warning for a run with verification disabled
func Unverified() Diagnostic {
	return NewWarning(WarningUnverified, "verification disabled", Position{}).
		WithNote("running the pipeline over invalid IR may crash LLVM").
		Build()
}

// UnknownTarget creates an error for a triple no registered target supports
func UnknownTarget(err *llvm.TargetError) Diagnostic {
	return NewError(ErrorUnknownTarget, fmt.Sprintf("no target for triple '%s'", err.Triple), Position{}).
		WithNote(err.Message).
		WithSuggestion("use 'host' for the machine llvmopt runs on").
		WithHelp("the linked LLVM only knows the targets it was built with").
		Build()
}

// InvalidLevel creates an error for optimization level text that does not parse
func InvalidLevel(text string, column int) Diagnostic {
	builder := NewError(ErrorInvalidLevel, fmt.Sprintf("invalid optimization level '%s'", text), Position{Line: 1, Column: column}).
		WithHelp("levels are O0, O1, O2, O3, Os or Oz, optionally written -O2 or default<O2>")

	for _, name := range []string{"O0", "O1", "O2", "O3", "Os", "Oz"} {
		if strings.EqualFold(strings.TrimLeft(text, "-"), name) {
			builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", name))
		}
	}

	return builder.Build()
}

// WriteOutput creates an error for output that cannot be written
func WriteOutput(path string, err error) Diagnostic {
	return NewError(ErrorWriteOutput, fmt.Sprintf("cannot write '%s'", path), Position{}).
		WithNote(err.Error()).
		Build()
}

// CodeGenerationFailed creates an error for a target machine that failed to emit code
func CodeGenerationFailed(err *llvm.CodeGenerationError) Diagnostic {
	return NewError(ErrorCodeGeneration, "code generation failed", Position{}).
		WithNote(err.Message).
		WithSuggestion("emit IR or bitcode instead, or pick a target with an assembly backend").
		Build()
}

// InvalidConfig creates an error for a configuration file that cannot be used
func InvalidConfig(message string, line int) Diagnostic {
	return NewError(ErrorInvalidConfig, message, Position{Line: line, Column: 1}).
		Build()
}

// UnsupportedLLVM creates an error for a linked LLVM outside the supported range
func UnsupportedLLVM(version, constraint string) Diagnostic {
	return NewError(ErrorUnsupportedLLVM, fmt.Sprintf("LLVM %s is not supported", version), Position{}).
		WithNote("llvmopt requires LLVM " + constraint).
		WithHelp("rebuild with one of the llvm17, llvm18, llvm20 or byollvm build tags").
		Build()
}

// FromError turns an error returned by the llvm package, possibly wrapped,
// into a diagnostic. Errors of unknown shape become an uncoded error.
func FromError(err error) Diagnostic {
	var (
		d   Diagnostic
		pe  *llvm.ParseError
		ve  *llvm.VerificationError
		te  *llvm.TargetError
		cge *llvm.CodeGenerationError
	)

	switch {
	case stderrors.As(err, &d):
		return d
	case stderrors.As(err, &pe):
		if pe.Line == 0 && (pe.Filename == "<bitcode>" || strings.HasSuffix(pe.Filename, ".bc")) {
			return InvalidBitcode(pe)
		}
		return InvalidIR(pe)
	case stderrors.As(err, &ve):
		return VerificationFailed(ve)
	case stderrors.As(err, &te):
		return UnknownTarget(te)
	case stderrors.As(err, &cge):
		return CodeGenerationFailed(cge)
	}

	return Diagnostic{Level: Error, Message: err.Error()}
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
