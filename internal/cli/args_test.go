package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sumIR = `define i32 @sum3(i32 %a, i32 %b, i32 %c) {
entry:
  %ab = add i32 %a, %b
  %abc = add i32 %ab, %c
  ret i32 %abc
}

declare void @sink(i64)
`

func TestArgsListsParameters(t *testing.T) {
	path := writeFile(t, "sum.ll", sumIR)

	code, stdout, stderr := execute(t, "args", path, "sum3")
	assert.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "@sum3\n")
	assert.Contains(t, stdout, "  0   i32 %a\n")
	assert.Contains(t, stdout, "  1   i32 %b\n")
	assert.Contains(t, stdout, "  2   i32 %c\n")
	assert.Contains(t, stdout, "entry:\n")
}

func TestArgsReportsOperands(t *testing.T) {
	path := writeFile(t, "sum.ll", sumIR)

	_, stdout, _ := execute(t, "args", path, "sum3")

	assert.Regexp(t, `%ab = add i32 %a, %b\s+\[0 1\]`, stdout)
	assert.Regexp(t, `%abc = add i32 %ab, %c\s+\[- 2\]`, stdout)
	assert.Regexp(t, `ret i32 %abc\s+\[-\]`, stdout)
}

func TestArgsDeclaration(t *testing.T) {
	path := writeFile(t, "sum.ll", sumIR)

	code, stdout, stderr := execute(t, "args", path, "sink")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "  0   i64 <unnamed>\n")
	assert.NotContains(t, stdout, "entry:")
	assert.Contains(t, stderr, "warning[W0002]: function 'sink' is only declared")
}

func TestArgsUnknownFunction(t *testing.T) {
	path := writeFile(t, "sum.ll", sumIR)

	code, stdout, stderr := execute(t, "args", path, "sum4")
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error[E0005]: no function named 'sum4' in module")
	assert.Contains(t, stderr, "did you mean 'sum3'?")
}
