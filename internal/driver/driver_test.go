package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llvmopt/internal/config"
	"llvmopt/internal/llvm"
)

const foldableIR = `define i32 @answer() {
entry:
  %sum = add i32 2, 3
  ret i32 %sum
}
`

// Parses, but %x is used before it is defined.
const undominatedIR = `define i32 @f() {
entry:
  %x = add i32 %y, 1
  %y = add i32 %x, 1
  ret i32 %y
}
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func withLevel(level string) *config.Config {
	cfg := config.Default()
	cfg.Level = level
	return cfg
}

func TestIsBitcode(t *testing.T) {
	assert.True(t, IsBitcode([]byte{'B', 'C', 0xc0, 0xde, 0x35}))
	assert.True(t, IsBitcode([]byte{0xde, 0xc0, 0x17, 0x0b, 0, 0}))
	assert.False(t, IsBitcode([]byte("define void @f()")))
	assert.False(t, IsBitcode([]byte{'B', 'C'}))
	assert.False(t, IsBitcode(nil))
}

func TestLoadTextualIR(t *testing.T) {
	path := writeFile(t, "answer.ll", []byte(foldableIR))

	u, err := New(nil).Load(path)
	require.NoError(t, err)
	defer u.Dispose()

	assert.Equal(t, path, u.Path)
	assert.Equal(t, foldableIR, string(u.Source))
	assert.False(t, u.Module.NamedFunction("answer").IsNil())
}

func TestLoadBitcode(t *testing.T) {
	d := New(nil)
	text, err := d.LoadBytes("answer.ll", []byte(foldableIR))
	require.NoError(t, err)
	defer text.Dispose()

	path := filepath.Join(t.TempDir(), "answer.bc")
	require.NoError(t, text.Module.WriteBitcodeToFile(path))

	u, err := d.Load(path)
	require.NoError(t, err)
	defer u.Dispose()

	assert.Nil(t, u.Source)
	assert.False(t, u.Module.NamedFunction("answer").IsNil())
}

func TestLoadErrors(t *testing.T) {
	d := New(nil)

	_, err := d.Load(filepath.Join(t.TempDir(), "missing.ll"))
	var ierr *InputError
	assert.ErrorAs(t, err, &ierr)

	_, err = d.LoadBytes("broken.ll", []byte("define i32 @f() {\n  ret i32 %missing\n}\n"))
	var perr *llvm.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestRunFoldsAboveO0(t *testing.T) {
	path := writeFile(t, "answer.ll", []byte(foldableIR))

	var out bytes.Buffer
	require.NoError(t, New(withLevel("O0")).Run(path, &out))
	assert.Contains(t, out.String(), "add i32 2, 3")

	for _, level := range []string{"O1", "-O2", "default<O3>", "Os", "Oz"} {
		t.Run(level, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, New(withLevel(level)).Run(path, &out))
			assert.Contains(t, out.String(), "ret i32 5")
			assert.NotContains(t, out.String(), "add i32")
		})
	}
}

func TestRunRejectsInvalidModule(t *testing.T) {
	path := writeFile(t, "bad.ll", []byte(undominatedIR))

	err := New(nil).Run(path, &bytes.Buffer{})
	var verr *llvm.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "dominate")

	// Rejected before the pipeline, not after.
	var broken *BrokenModuleError
	assert.False(t, errors.As(err, &broken))
}

func TestRunWritesOutputFile(t *testing.T) {
	path := writeFile(t, "answer.ll", []byte(foldableIR))
	output := filepath.Join(t.TempDir(), "answer.bc")

	cfg := withLevel("O2")
	cfg.Emit = config.EmitBitcode
	cfg.Output = output

	var stdout bytes.Buffer
	require.NoError(t, New(cfg).Run(path, &stdout))
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, IsBitcode(data))

	u, err := New(nil).LoadBytes(output, data)
	require.NoError(t, err)
	defer u.Dispose()
	assert.Contains(t, u.Module.String(), "ret i32 5")
}

func TestRunOutputError(t *testing.T) {
	path := writeFile(t, "answer.ll", []byte(foldableIR))

	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "dir", "out.ll")

	err := New(cfg).Run(path, &bytes.Buffer{})
	var oerr *OutputError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, cfg.Output, oerr.Path)
}

func TestRunWithHostTarget(t *testing.T) {
	path := writeFile(t, "answer.ll", []byte(foldableIR))

	cfg := withLevel("O2")
	cfg.Target.Triple = config.HostTriple
	cfg.Emit = config.EmitAssembly

	var out bytes.Buffer
	require.NoError(t, New(cfg).Run(path, &out))
	assert.Contains(t, out.String(), "answer")
}

func TestTargetMachine(t *testing.T) {
	tm, err := New(nil).TargetMachine()
	require.NoError(t, err)
	assert.Nil(t, tm)

	cfg := config.Default()
	cfg.Target.Triple = config.HostTriple
	tm, err = New(cfg).TargetMachine()
	require.NoError(t, err)
	require.NotNil(t, tm)
	defer tm.Dispose()
	assert.Equal(t, llvm.HostCPUName(), tm.CPU())

	cfg.Target.Triple = "nonexistent-unknown-unknown"
	_, err = New(cfg).TargetMachine()
	var terr *llvm.TargetError
	assert.ErrorAs(t, err, &terr)
}

func TestOptimizeSetsTargetFromMachine(t *testing.T) {
	cfg := config.Default()
	cfg.Target.Triple = config.HostTriple
	d := New(cfg)

	u, err := d.LoadBytes("answer.ll", []byte(foldableIR))
	require.NoError(t, err)
	defer u.Dispose()

	tm, err := d.TargetMachine()
	require.NoError(t, err)
	defer tm.Dispose()

	require.NoError(t, d.Optimize(u, tm))
	assert.Equal(t, tm.Triple(), u.Module.Target())
	assert.Equal(t, tm.DataLayout(), u.Module.DataLayout())
}

func TestEmitMachineCodeWithoutTarget(t *testing.T) {
	cfg := config.Default()
	cfg.Emit = config.EmitObject
	d := New(cfg)

	u, err := d.LoadBytes("answer.ll", []byte(foldableIR))
	require.NoError(t, err)
	defer u.Dispose()

	assert.ErrorIs(t, d.Emit(u, nil, &bytes.Buffer{}), ErrNoTargetMachine)
}
