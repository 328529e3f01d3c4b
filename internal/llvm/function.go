package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"
import "unsafe"

// ParamsCount returns the number of formal parameters of a function.
func (v Value) ParamsCount() int {
	return int(C.LLVMCountParams(v.c))
}

// Param returns the i-th formal parameter of a function.
func (v Value) Param(i int) Value {
	return Value{c: C.LLVMGetParam(v.c, C.uint(i))}
}

// Params returns the formal parameters of a function in declaration order.
func (v Value) Params() []Value {
	n := v.ParamsCount()
	if n == 0 {
		return nil
	}

	params := make([]Value, n)
	C.LLVMGetParams(v.c, (*C.LLVMValueRef)(unsafe.Pointer(&params[0])))

	return params
}

// ParamParent returns the function an argument belongs to.
func (v Value) ParamParent() Value {
	return Value{c: C.LLVMGetParamParent(v.c)}
}

// IsDeclaration reports whether a global value has no body in this module.
func (v Value) IsDeclaration() bool {
	return C.LLVMIsDeclaration(v.c) != 0
}

// BasicBlocks returns the basic blocks of a function in layout order.
func (v Value) BasicBlocks() []BasicBlock {
	var blocks []BasicBlock
	for b := C.LLVMGetFirstBasicBlock(v.c); b != nil; b = C.LLVMGetNextBasicBlock(b) {
		blocks = append(blocks, BasicBlock{c: b})
	}

	return blocks
}

// EntryBasicBlock returns the entry block of a function with a body.
func (v Value) EntryBasicBlock() BasicBlock {
	return BasicBlock{c: C.LLVMGetEntryBasicBlock(v.c)}
}

// AppendBasicBlock adds a new basic block called name at the end of a
// function.
func (c Context) AppendBasicBlock(fn Value, name string) BasicBlock {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return BasicBlock{c: C.LLVMAppendBasicBlockInContext(c.c, fn.c, cname)}
}

// BasicBlock is a straight-line sequence of instructions ending in a
// terminator.
type BasicBlock struct {
	c C.LLVMBasicBlockRef
}

// IsNil reports whether the block is a null handle.
func (b BasicBlock) IsNil() bool { return b.c == nil }

// Parent returns the function containing the block.
func (b BasicBlock) Parent() Value {
	return Value{c: C.LLVMGetBasicBlockParent(b.c)}
}

// Instructions returns the instructions of the block in order.
func (b BasicBlock) Instructions() []Value {
	var insts []Value
	for i := C.LLVMGetFirstInstruction(b.c); i != nil; i = C.LLVMGetNextInstruction(i) {
		insts = append(insts, Value{c: i})
	}

	return insts
}

// FirstInstruction returns the first instruction of the block, or a nil
// Value if the block is empty.
func (b BasicBlock) FirstInstruction() Value {
	return Value{c: C.LLVMGetFirstInstruction(b.c)}
}

// Terminator returns the terminator of the block, or a nil Value if the
// block is not terminated yet.
func (b BasicBlock) Terminator() Value {
	return Value{c: C.LLVMGetBasicBlockTerminator(b.c)}
}
