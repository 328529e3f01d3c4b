package llvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleName(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("foo")
	defer m.Dispose()

	assert.Equal(t, "foo", m.Name())
	m.SetName("bar")
	assert.Equal(t, "bar", m.Name())
}

func TestModuleTargetAndDataLayout(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("foo")
	defer m.Dispose()

	assert.Equal(t, "", m.Target())
	m.SetTarget("x86_64-unknown-linux-gnu")
	assert.Equal(t, "x86_64-unknown-linux-gnu", m.Target())

	m.SetDataLayout("e-m:e-i64:64-n32:64")
	assert.Equal(t, "e-m:e-i64:64-n32:64", m.DataLayout())
}

func TestModuleLookup(t *testing.T) {
	m := parseTestModule(t, sumIR)

	assert.False(t, m.NamedFunction("sum3").IsNil())
	assert.True(t, m.NamedFunction("missing").IsNil())
	assert.False(t, m.NamedGlobal("seed").IsNil())
	assert.True(t, m.NamedGlobal("missing").IsNil())

	var names []string
	for _, f := range m.Functions() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"sum3", "sink"}, names)
	assert.True(t, m.NamedFunction("sink").IsDeclaration())
	assert.Len(t, m.Globals(), 1)
}

func TestModuleVerify(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("foo")
	defer m.Dispose()

	assert.NoError(t, m.Verify())

	fn := m.AddFunction("fn", FunctionType(ctx.VoidType(), nil, false))
	ctx.AppendBasicBlock(fn, "entry")

	err := m.Verify()
	require.Error(t, err)
	var verr *VerificationError
	assert.ErrorAs(t, err, &verr)

	assert.ErrorIs(t, Module{}.Verify(), ErrNilModule)
}

func TestParseIRReportsLocation(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()

	_, err := ctx.ParseIR("broken.ll", []byte("define i32 @f() {\nentry:\n  ret i32 %missing\n}\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken.ll", perr.Filename)
	assert.Equal(t, 3, perr.Line)
	assert.Greater(t, perr.Column, 0)
	assert.Contains(t, perr.Message, "undefined value")
	assert.Contains(t, perr.Error(), "broken.ll:3:")
}

func TestNewParseErrorWithoutLocation(t *testing.T) {
	e := newParseError("x.bc", "Invalid bitcode signature\n")
	assert.Equal(t, 0, e.Line)
	assert.Equal(t, "Invalid bitcode signature", e.Message)
	assert.Equal(t, "llvm: x.bc: Invalid bitcode signature", e.Error())

	e = newParseError("x.ll", "")
	assert.Equal(t, "invalid module", e.Message)
}

func TestBitcodeRoundTrip(t *testing.T) {
	m := parseTestModule(t, sumIR)

	buf := m.Bitcode()
	defer buf.Dispose()
	require.Greater(t, buf.Len(), 4)
	assert.Equal(t, []byte{'B', 'C', 0xC0, 0xDE}, buf.Bytes()[:4])

	ctx := NewContext()
	defer ctx.Dispose()
	copied, err := ctx.ParseBitcode(buf)
	require.NoError(t, err)
	defer copied.Dispose()

	assert.False(t, copied.NamedFunction("sum3").IsNil())
	assert.NoError(t, copied.Verify())
}

func TestWriteBitcodeToFile(t *testing.T) {
	m := parseTestModule(t, sumIR)
	path := filepath.Join(t.TempDir(), "sum.bc")

	require.NoError(t, m.WriteBitcodeToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	ctx := NewContext()
	defer ctx.Dispose()
	reread, err := ctx.ParseIR(path, data)
	require.NoError(t, err)
	defer reread.Dispose()
	assert.Len(t, reread.NamedFunction("sum3").Params(), 3)
}

func TestMemoryBufferFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.ll")
	require.NoError(t, os.WriteFile(path, []byte(sumIR), 0o644))

	buf, err := NewMemoryBufferFromFile(path)
	require.NoError(t, err)
	defer buf.Dispose()
	assert.Equal(t, sumIR, string(buf.Bytes()))

	_, err = NewMemoryBufferFromFile(filepath.Join(t.TempDir(), "missing.ll"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	major, minor, patch := Version()
	assert.GreaterOrEqual(t, major, 16)
	assert.GreaterOrEqual(t, minor, 0)
	assert.GreaterOrEqual(t, patch, 0)
}

func TestIntegerTypes(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()

	tests := []struct {
		typ   Type
		width int
		text  string
	}{
		{ctx.Int1Type(), 1, "i1"},
		{ctx.Int8Type(), 8, "i8"},
		{ctx.Int32Type(), 32, "i32"},
		{ctx.Int64Type(), 64, "i64"},
		{ctx.IntType(17), 17, "i17"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.width, tt.typ.IntTypeWidth())
			assert.Equal(t, tt.text, tt.typ.String())
		})
	}
}

func TestConstantValues(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()

	minusOne := ConstInt(ctx.Int8Type(), ^uint64(0), true)
	require.True(t, minusOne.IsConstantInt())
	assert.Equal(t, int64(-1), minusOne.SExtValue())
	assert.Equal(t, uint64(0xff), minusOne.ZExtValue())

	seven := ConstInt(ctx.Int32Type(), 7, false)
	assert.Equal(t, int64(7), seven.SExtValue())
	assert.Equal(t, uint64(7), seven.ZExtValue())
}

func TestBuildVoidFunction(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("void")
	defer m.Dispose()

	fn := m.AddFunction("nop", FunctionType(ctx.VoidType(), []Type{ctx.Int1Type()}, false))
	b := ctx.NewBuilder()
	defer b.Dispose()
	b.SetInsertPointAtEnd(ctx.AppendBasicBlock(fn, "entry"))
	ret := b.CreateRetVoid()

	require.NoError(t, m.Verify())
	assert.True(t, ret.IsInstruction())
	assert.Equal(t, Ret, ret.Opcode())
	assert.Equal(t, 0, ret.OperandsCount())
	assert.Equal(t, ret, fn.EntryBasicBlock().Terminator())
}
