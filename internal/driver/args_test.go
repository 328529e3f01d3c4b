package driver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArguments(t *testing.T) {
	u, err := New(nil).LoadBytes("mix.ll", []byte(`define i32 @mix(i32 %x, i32 %y) {
entry:
  %p = mul i32 %y, 7
  %q = add i32 %p, %x
  ret i32 %q
}
`))
	require.NoError(t, err)
	defer u.Dispose()

	var buf bytes.Buffer
	WriteArguments(&buf, u.Module.NamedFunction("mix"))

	out := buf.String()
	assert.Contains(t, out, "@mix\n  0   i32 %x\n  1   i32 %y\nentry:\n")
	assert.Regexp(t, `%p = mul i32 %y, 7\s+\[1 -\]`, out)
	assert.Regexp(t, `%q = add i32 %p, %x\s+\[- 0\]`, out)
	assert.Regexp(t, `ret i32 %q\s+\[-\]`, out)
}
