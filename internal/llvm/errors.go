package llvm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Precondition failures reported instead of handing a null handle to LLVM.
var (
	ErrNilContext       = errors.New("llvm: nil context")
	ErrNilModule        = errors.New("llvm: nil module")
	ErrNilTargetMachine = errors.New("llvm: nil target machine")
	ErrNilValue         = errors.New("llvm: nil value")
	ErrNilFunction      = errors.New("llvm: value is not a function")
)

// ParseError is returned when textual IR or bitcode cannot be read.
type ParseError struct {
	Filename string
	Line     int // 1-based, 0 when LLVM did not report a location
	Column   int // 1-based, 0 when LLVM did not report a location
	Message  string

	// Raw is the diagnostic exactly as printed by LLVM, including the
	// offending source line and caret.
	Raw string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("llvm: %s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("llvm: %s: %s", e.Filename, e.Message)
}

// diagnosticLine matches the first line of an llvm::SMDiagnostic, e.g.
// "input.ll:3:10: error: expected type".
var diagnosticLine = regexp.MustCompile(`^(.*?):(\d+):(\d+): (?:error|warning): (.*)$`)

// newParseError builds a ParseError from the message LLVM produced while
// parsing the buffer called filename.
func newParseError(filename, raw string) *ParseError {
	e := &ParseError{Filename: filename, Raw: raw}

	first, _, _ := strings.Cut(raw, "\n")
	if m := diagnosticLine.FindStringSubmatch(first); m != nil {
		e.Line, _ = strconv.Atoi(m[2])
		e.Column, _ = strconv.Atoi(m[3])
		e.Message = m[4]
		return e
	}

	e.Message = strings.TrimSpace(first)
	if e.Message == "" {
		e.Message = "invalid module"
	}
	return e
}

// VerificationError is returned by Module.Verify for malformed IR.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return "llvm: module verification failed: " + strings.TrimSpace(e.Message)
}

// TargetError is returned when a target or target machine cannot be created.
type TargetError struct {
	Triple  string
	Message string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("llvm: target %q: %s", e.Triple, e.Message)
}

// CodeGenerationError is returned when a target machine fails to emit code.
type CodeGenerationError struct {
	Message string
}

func (e *CodeGenerationError) Error() string {
	return "llvm: code generation failed: " + e.Message
}
