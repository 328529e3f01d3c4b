package llvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumIR = `
@seed = global i32 7

define i32 @sum3(i32 %a, i32 %b, i32 %c) {
entry:
  %ab = add i32 %a, %b
  %abc = add i32 %ab, %c
  ret i32 %abc
}

declare void @sink()
`

func TestArgumentIndexOfParameters(t *testing.T) {
	m := parseTestModule(t, sumIR)
	fn := m.NamedFunction("sum3")
	require.False(t, fn.IsNil())

	params := fn.Params()
	require.Len(t, params, 3)

	for i, p := range params {
		index, err := p.ArgumentIndex()
		require.NoError(t, err)
		assert.Equal(t, i, index, "parameter %s", p.Name())
	}
}

func TestArgumentIndexThroughOperands(t *testing.T) {
	m := parseTestModule(t, sumIR)
	insts := entryInstructions(t, m, "sum3")
	require.Len(t, insts, 3)

	ab := insts[0]
	lhs, err := ab.Operand(0).ArgumentIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, lhs)

	rhs, err := ab.Operand(1).ArgumentIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, rhs)

	// %abc = add i32 %ab, %c
	abc := insts[1]
	first, err := abc.Operand(0).ArgumentIndex()
	require.NoError(t, err)
	assert.Equal(t, NotAnArgument, first)

	second, err := abc.Operand(1).ArgumentIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestArgumentIndexOfNonArguments(t *testing.T) {
	m := parseTestModule(t, sumIR)
	ctx := m.Context()

	cases := map[string]Value{
		"instruction": entryInstructions(t, m, "sum3")[0],
		"function":    m.NamedFunction("sum3"),
		"declaration": m.NamedFunction("sink"),
		"global":      m.NamedGlobal("seed"),
		"constant":    ConstInt(ctx.Int32Type(), 42, false),
	}

	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			require.False(t, v.IsNil())
			index, err := v.ArgumentIndex()
			require.NoError(t, err)
			assert.Equal(t, NotAnArgument, index)

			_, ok := AsParameter(v)
			assert.False(t, ok)
		})
	}
}

func TestArgumentIndexOfNilValue(t *testing.T) {
	index, err := Value{}.ArgumentIndex()
	assert.ErrorIs(t, err, ErrNilValue)
	assert.Equal(t, NotAnArgument, index)
}

func TestAsParameter(t *testing.T) {
	m := parseTestModule(t, sumIR)
	fn := m.NamedFunction("sum3")

	p, ok := AsParameter(fn.Param(1))
	require.True(t, ok)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, "b", p.Name())
	assert.Equal(t, fn, p.Function())
}

func TestArgumentIndexOfBuiltFunction(t *testing.T) {
	ctx := NewContext()
	defer ctx.Dispose()
	m := ctx.NewModule("built")
	defer m.Dispose()

	i64 := ctx.Int64Type()
	fn := m.AddFunction("mix", FunctionType(i64, []Type{i64, i64, i64, i64}, false))

	b := ctx.NewBuilder()
	defer b.Dispose()
	b.SetInsertPointAtEnd(ctx.AppendBasicBlock(fn, "entry"))
	sum := b.CreateAdd(fn.Param(0), fn.Param(3), "sum")
	b.CreateRet(b.CreateMul(sum, fn.Param(2), "product"))

	require.NoError(t, m.Verify())
	for i := 0; i < fn.ParamsCount(); i++ {
		index, err := fn.Param(i).ArgumentIndex()
		require.NoError(t, err)
		assert.Equal(t, i, index)
	}

	index, err := sum.ArgumentIndex()
	require.NoError(t, err)
	assert.Equal(t, NotAnArgument, index)
}

func TestEntryBlockBoundaries(t *testing.T) {
	m := parseTestModule(t, sumIR)
	entry := m.NamedFunction("sum3").EntryBasicBlock()

	first := entry.FirstInstruction()
	require.False(t, first.IsNil())
	assert.Equal(t, "ab", first.Name())
	assert.Equal(t, Add, first.Opcode())

	term := entry.Terminator()
	require.False(t, term.IsNil())
	assert.Equal(t, Ret, term.Opcode())
	assert.Equal(t, m.NamedFunction("sum3"), entry.Parent())
}

func TestValueKinds(t *testing.T) {
	m := parseTestModule(t, sumIR)
	fn := m.NamedFunction("sum3")
	ab := entryInstructions(t, m, "sum3")[0]
	seven := ConstInt(m.Context().Int32Type(), 7, false)

	tests := []struct {
		name                                      string
		v                                         Value
		argument, instruction, constant, function bool
	}{
		{"parameter", fn.Param(0), true, false, false, false},
		{"instruction", ab, false, true, false, false},
		{"constant", seven, false, false, true, false},
		// Functions and globals are constants too.
		{"function", fn, false, false, true, true},
		{"nil", Value{}, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.argument, tt.v.IsArgument())
			assert.Equal(t, tt.instruction, tt.v.IsInstruction())
			assert.Equal(t, tt.constant, tt.v.IsConstant())
			assert.Equal(t, tt.function, tt.v.IsFunction())
		})
	}
}

func TestBasicBlocksInLayoutOrder(t *testing.T) {
	m := parseTestModule(t, `
define i32 @pick(i1 %c, i32 %a, i32 %b) {
entry:
  br i1 %c, label %then, label %else
then:
  ret i32 %a
else:
  ret i32 %b
}

declare void @sink()
`)
	fn := m.NamedFunction("pick")

	blocks := fn.BasicBlocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, fn.EntryBasicBlock(), blocks[0])
	assert.Equal(t, Br, blocks[0].Terminator().Opcode())
	for _, b := range blocks[1:] {
		assert.Equal(t, fn, b.Parent())
		assert.Equal(t, Ret, b.Terminator().Opcode())
	}

	// Declarations have no blocks.
	assert.Empty(t, m.NamedFunction("sink").BasicBlocks())
}
