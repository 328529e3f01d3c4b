package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"
import "unsafe"

// Value is any LLVM IR value: arguments, instructions, constants, functions
// and globals.
type Value struct {
	c C.LLVMValueRef
}

// Opcode identifies the operation of an instruction.
type Opcode C.LLVMOpcode

// Opcodes of the instructions the tools inspect.
const (
	Ret    Opcode = C.LLVMRet
	Br     Opcode = C.LLVMBr
	Add    Opcode = C.LLVMAdd
	Sub    Opcode = C.LLVMSub
	Mul    Opcode = C.LLVMMul
	Alloca Opcode = C.LLVMAlloca
	Load   Opcode = C.LLVMLoad
	Store  Opcode = C.LLVMStore
	Call   Opcode = C.LLVMCall
)

// IsNil reports whether the value is a null handle.
func (v Value) IsNil() bool { return v.c == nil }

// Type returns the type of the value.
func (v Value) Type() Type {
	return Type{c: C.LLVMTypeOf(v.c)}
}

// Name returns the name of the value, or "" for unnamed values.
func (v Value) Name() string {
	var n C.size_t
	s := C.LLVMGetValueName2(v.c, &n)

	return C.GoStringN(s, C.int(n))
}

// SetName renames the value.
func (v Value) SetName(name string) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	C.LLVMSetValueName2(v.c, cname, C.size_t(len(name)))
}

// String returns the textual IR of the value.
func (v Value) String() string {
	return takeMessage(C.LLVMPrintValueToString(v.c))
}

// IsArgument reports whether v is a formal parameter of a function.
func (v Value) IsArgument() bool {
	return !v.IsNil() && C.LLVMIsAArgument(v.c) != nil
}

// IsInstruction reports whether v is an instruction.
func (v Value) IsInstruction() bool {
	return !v.IsNil() && C.LLVMIsAInstruction(v.c) != nil
}

// IsConstant reports whether v is a constant.
func (v Value) IsConstant() bool {
	return !v.IsNil() && C.LLVMIsAConstant(v.c) != nil
}

// IsConstantInt reports whether v is an integer constant.
func (v Value) IsConstantInt() bool {
	return !v.IsNil() && C.LLVMIsAConstantInt(v.c) != nil
}

// IsFunction reports whether v is a function.
func (v Value) IsFunction() bool {
	return !v.IsNil() && C.LLVMIsAFunction(v.c) != nil
}

// ZExtValue returns the zero-extended value of an integer constant.
func (v Value) ZExtValue() uint64 {
	return uint64(C.LLVMConstIntGetZExtValue(v.c))
}

// SExtValue returns the sign-extended value of an integer constant.
func (v Value) SExtValue() int64 {
	return int64(C.LLVMConstIntGetSExtValue(v.c))
}

// OperandsCount returns the number of operands of a user value.
func (v Value) OperandsCount() int {
	return int(C.LLVMGetNumOperands(v.c))
}

// Operand returns the i-th operand of a user value.
func (v Value) Operand(i int) Value {
	return Value{c: C.LLVMGetOperand(v.c, C.uint(i))}
}

// Opcode returns the opcode of an instruction.
func (v Value) Opcode() Opcode {
	return Opcode(C.LLVMGetInstructionOpcode(v.c))
}
