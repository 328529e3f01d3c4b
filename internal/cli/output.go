package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	diag "llvmopt/internal/errors"
	"llvmopt/internal/driver"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The input was rejected (parse, verification, pipeline)
	ExitCommandError = 2 // Command error (flags, configuration, output, toolchain)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// diagnose turns an error of the driver or the llvm package into a
// diagnostic and the exit code it warrants.
func diagnose(err error) (diag.Diagnostic, int) {
	var (
		broken      *driver.BrokenModuleError
		inputErr    *driver.InputError
		outputErr   *driver.OutputError
		unsupported *driver.UnsupportedLLVMError
	)

	switch {
	case errors.As(err, &broken):
		return diag.PipelineBrokeModule(broken.Level, broken.Err), ExitFailure
	case errors.As(err, &inputErr):
		return diag.UnreadableInput(inputErr.Path, inputErr.Err), ExitCommandError
	case errors.As(err, &outputErr):
		return diag.WriteOutput(outputErr.Path, outputErr.Err), ExitCommandError
	case errors.As(err, &unsupported):
		return diag.UnsupportedLLVM(unsupported.Version.String(), unsupported.Constraint), ExitCommandError
	case errors.Is(err, driver.ErrNoTargetMachine):
		return diag.NewError(diag.ErrorTargetMachine, err.Error(), diag.Position{}).
			WithSuggestion("pass --target host, or a target triple").
			Build(), ExitCommandError
	}

	d := diag.FromError(err)
	if d.Code == diag.ErrorInvalidConfig || d.Code == diag.ErrorInvalidLevel || diag.GetErrorCategory(d.Code) == "Target" {
		return d, ExitCommandError
	}
	return d, ExitFailure
}

// report prints err as a diagnostic against the file at path and returns
// the ExitError the command should return.
func report(cmd *cobra.Command, path string, err error) *ExitError {
	d, code := diagnose(err)
	printDiagnostic(cmd.ErrOrStderr(), path, d)
	return WrapExitError(code, d.Message, err)
}

// printDiagnostic renders d, quoting the source of path when d has a
// position in it.
func printDiagnostic(w io.Writer, path string, d diag.Diagnostic) {
	var source string
	if d.Position.IsValid() && path != "" {
		if data, err := os.ReadFile(path); err == nil && !driver.IsBitcode(data) {
			source = string(data)
		}
	}

	fmt.Fprint(w, diag.NewReporter(path, source).Format(d))
}
