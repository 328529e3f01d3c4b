package driver

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"llvmopt/internal/llvm"
)

// argumentIndex formats the argument index of v, or "-" for values that are
// not arguments. Null operands are not arguments either.
func argumentIndex(v llvm.Value) string {
	if !v.IsArgument() {
		return "-"
	}
	i, err := v.ArgumentIndex()
	if err != nil {
		return "-"
	}
	return strconv.Itoa(i)
}

// WriteArguments writes the argument index of each parameter of fn, then
// the argument indices of the operands of every instruction in its entry
// block. Operands that are not arguments are shown as "-".
func WriteArguments(w io.Writer, fn llvm.Value) {
	fmt.Fprintf(w, "@%s\n", fn.Name())

	for _, p := range fn.Params() {
		index := argumentIndex(p)
		fmt.Fprintf(w, "  %-3s %s %s\n", index, p.Type(), valueName(p))
	}

	if fn.IsDeclaration() {
		return
	}

	fmt.Fprintln(w, "entry:")
	for _, inst := range fn.EntryBasicBlock().Instructions() {
		var indices []string
		for i := 0; i < inst.OperandsCount(); i++ {
			indices = append(indices, argumentIndex(inst.Operand(i)))
		}
		fmt.Fprintf(w, "  %-40s [%s]\n", strings.TrimSpace(inst.String()), strings.Join(indices, " "))
	}
}

func valueName(v llvm.Value) string {
	if name := v.Name(); name != "" {
		return "%" + name
	}
	return "<unnamed>"
}
