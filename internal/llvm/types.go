package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"
import "unsafe"

// Type is an LLVM IR type.
type Type struct {
	c C.LLVMTypeRef
}

// FunctionType returns the type of functions taking params and returning
// ret.
func FunctionType(ret Type, params []Type, variadic bool) Type {
	var ptr *C.LLVMTypeRef
	if len(params) > 0 {
		ptr = (*C.LLVMTypeRef)(unsafe.Pointer(&params[0]))
	}

	return Type{c: C.LLVMFunctionType(ret.c, ptr, C.uint(len(params)), llvmBool(variadic))}
}

// IsNil reports whether the type is a null handle.
func (t Type) IsNil() bool { return t.c == nil }

// IntTypeWidth returns the bit width of an integer type.
func (t Type) IntTypeWidth() int {
	return int(C.LLVMGetIntTypeWidth(t.c))
}

// String returns the textual IR of the type.
func (t Type) String() string {
	return takeMessage(C.LLVMPrintTypeToString(t.c))
}

// ConstInt returns the integer constant v of type t.
func ConstInt(t Type, v uint64, signExtend bool) Value {
	return Value{c: C.LLVMConstInt(t.c, C.ulonglong(v), llvmBool(signExtend))}
}
