package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"
import "unsafe"

// Builder appends instructions to basic blocks.
//
// LLVM's builder folds instructions whose operands are all constants, so IR
// meant to survive until a pipeline runs is better produced with ParseIR.
type Builder struct {
	c C.LLVMBuilderRef
}

// Dispose frees the builder.
func (b Builder) Dispose() {
	C.LLVMDisposeBuilder(b.c)
}

// SetInsertPointAtEnd moves the builder to the end of block.
func (b Builder) SetInsertPointAtEnd(block BasicBlock) {
	C.LLVMPositionBuilderAtEnd(b.c, block.c)
}

// CreateAdd appends an integer addition.
func (b Builder) CreateAdd(lhs, rhs Value, name string) Value {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Value{c: C.LLVMBuildAdd(b.c, lhs.c, rhs.c, cname)}
}

// CreateMul appends an integer multiplication.
func (b Builder) CreateMul(lhs, rhs Value, name string) Value {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Value{c: C.LLVMBuildMul(b.c, lhs.c, rhs.c, cname)}
}

// CreateRet appends a return of v.
func (b Builder) CreateRet(v Value) Value {
	return Value{c: C.LLVMBuildRet(b.c, v.c)}
}

// CreateRetVoid appends a return without a value.
func (b Builder) CreateRetVoid() Value {
	return Value{c: C.LLVMBuildRetVoid(b.c)}
}
