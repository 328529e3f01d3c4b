package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llvmopt/internal/driver"
)

const foldableIR = `define i32 @answer() {
entry:
  %sum = add i32 2, 3
  ret i32 %sum
}
`

func TestOptFoldsConstants(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	for _, args := range [][]string{
		{"opt", path},
		{"opt", "-O2", path},
		{"opt", "-O", "Os", path},
		{"opt", "--level", "default<Oz>", path},
		{"opt", "--level=-O3", path},
	} {
		code, stdout, stderr := execute(t, args...)
		require.Equal(t, ExitSuccess, code, stderr)
		assert.Contains(t, stdout, "ret i32 5")
	}
}

func TestOptO0KeepsInstructions(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, stdout, _ := execute(t, "opt", "-O0", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "%sum = add i32 2, 3")
}

func TestOptInvalidLevel(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, stdout, stderr := execute(t, "opt", "--level", "default<O9>", path)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid optimization level at column 9")
	assert.Contains(t, stderr, "^")
}

func TestOptParseError(t *testing.T) {
	path := writeFile(t, "broken.ll", "define i32 @f() {\nentry:\n  ret i32 %missing\n}\n")

	code, _, stderr := execute(t, "opt", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "error[E0001]")
	assert.Contains(t, stderr, "broken.ll:3:")
	assert.Contains(t, stderr, "  3 │   ret i32 %missing")
}

func TestOptVerificationError(t *testing.T) {
	path := writeFile(t, "bad.ll", `define i32 @f() {
entry:
  %x = add i32 %y, 1
  %y = add i32 %x, 1
  ret i32 %y
}
`)

	code, _, stderr := execute(t, "opt", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "error[E0003]: module is not valid LLVM IR")
	assert.Contains(t, stderr, "dominate")
}

func TestOptNoVerifyWarns(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, stdout, stderr := execute(t, "opt", "--no-verify", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ret i32 5")
	assert.Contains(t, stderr, "warning[W0001]: verification disabled")
}

func TestOptMissingInput(t *testing.T) {
	code, _, stderr := execute(t, "opt", filepath.Join(t.TempDir(), "missing.ll"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "error[E0004]")
}

func TestOptWritesBitcode(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)
	output := filepath.Join(t.TempDir(), "answer.bc")

	code, stdout, stderr := execute(t, "opt", "--emit", "bitcode", "-o", output, path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, driver.IsBitcode(data))
}

func TestOptBitcodeDefaultsToFileNextToInput(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, stdout, stderr := execute(t, "opt", "--emit", "bitcode", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(strings.TrimSuffix(path, ".ll") + ".bc")
	require.NoError(t, err)
	assert.True(t, driver.IsBitcode(data))
}

func TestOptMachineCodeNeedsTarget(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, _, stderr := execute(t, "opt", "--emit", "object", path)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "error[E0900]: emitting object needs a target")
}

func TestOptHostAssembly(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, stdout, stderr := execute(t, "opt", "--target", "host", "--emit", "assembly", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "answer")
}

func TestOptUnknownTarget(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)

	code, _, stderr := execute(t, "opt", "--target", "nonexistent-unknown-unknown", path)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "error[E0100]")
}

func TestOptConfigFile(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)
	cfg := writeFile(t, "run.yaml", "level: O0\nverify: true\n")

	code, stdout, _ := execute(t, "opt", "--config", cfg, path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "add i32 2, 3")

	// Flags win over the file.
	code, stdout, _ = execute(t, "opt", "--config", cfg, "-O1", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ret i32 5")
}

func TestOptInvalidConfigFile(t *testing.T) {
	path := writeFile(t, "answer.ll", foldableIR)
	cfg := writeFile(t, "run.yaml", "level: O1\nemitt: ir\n")

	code, _, stderr := execute(t, "opt", "--config", cfg, path)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "error[E0900]")
	assert.Contains(t, stderr, "run.yaml:2:1")
}
