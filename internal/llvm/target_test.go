package llvm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostTargetMachine(t *testing.T) *TargetMachine {
	t.Helper()

	tm, err := HostTargetMachine(CodeGenLevelNone)
	if err != nil {
		t.Skipf("no host target: %v", err)
	}
	t.Cleanup(tm.Dispose)
	return tm
}

func TestHostTarget(t *testing.T) {
	target, err := HostTarget()
	if err != nil {
		t.Skipf("no host target: %v", err)
	}

	assert.NotEmpty(t, target.Name())
	assert.NotEmpty(t, target.Description())
	assert.True(t, target.HasAsmBackend())
	assert.True(t, target.HasJIT())
	assert.Equal(t, DefaultTargetTriple(), target.Triple())
}

func TestUnknownTarget(t *testing.T) {
	_, err := TargetFromTriple("nonsense-unknown-nowhere")
	require.Error(t, err)

	var terr *TargetError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "nonsense-unknown-nowhere", terr.Triple)
}

func TestTargetMachineProperties(t *testing.T) {
	tm := hostTargetMachine(t)

	assert.Equal(t, DefaultTargetTriple(), tm.Triple())
	assert.Equal(t, HostCPUName(), tm.CPU())
	assert.Equal(t, HostCPUFeatures(), tm.Features())
	assert.NotEmpty(t, tm.DataLayout())
	assert.NotEmpty(t, tm.Target().Name())
}

func TestTargetMachineDispose(t *testing.T) {
	tm, err := HostTargetMachine(CodeGenLevelNone)
	if err != nil {
		t.Skipf("no host target: %v", err)
	}

	assert.False(t, tm.IsNil())
	tm.Dispose()
	assert.True(t, tm.IsNil())
	tm.Dispose()

	var missing *TargetMachine
	assert.True(t, missing.IsNil())
}

func TestEmitAssemblyAndObject(t *testing.T) {
	tm := hostTargetMachine(t)

	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("main")
	defer m.Dispose()

	i32 := ctx.Int32Type()
	fn := m.AddFunction("main", FunctionType(i32, nil, false))
	b := ctx.NewBuilder()
	defer b.Dispose()
	b.SetInsertPointAtEnd(ctx.AppendBasicBlock(fn, "entry"))
	b.CreateRet(ConstInt(i32, 0, false))
	require.NoError(t, m.Verify())

	asm, err := tm.Emit(m, AssemblyFile)
	require.NoError(t, err)
	assert.Contains(t, string(asm), "main")

	obj, err := tm.Emit(m, ObjectFile)
	require.NoError(t, err)
	assert.NotEmpty(t, obj)

	path := filepath.Join(t.TempDir(), "main.o")
	assert.NoError(t, tm.EmitToFile(m, path, ObjectFile))

	_, err = tm.Emit(Module{}, ObjectFile)
	assert.ErrorIs(t, err, ErrNilModule)
}

func TestNormalizeTargetTriple(t *testing.T) {
	assert.Equal(t, "x86_64-unknown-linux-gnu", NormalizeTargetTriple("x86_64-unknown-linux-gnu"))
}
