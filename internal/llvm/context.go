package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// Context owns the types and constants of the modules created in it.
type Context struct {
	c C.LLVMContextRef
}

// NewContext creates a new LLVM context.
func NewContext() Context {
	return Context{c: C.LLVMContextCreate()}
}

// IsNil reports whether the context is a null handle.
func (c Context) IsNil() bool { return c.c == nil }

// Dispose frees the context. Every module created in it must be disposed of
// first.
func (c Context) Dispose() {
	C.LLVMContextDispose(c.c)
}

// Int1Type returns the i1 type.
func (c Context) Int1Type() Type { return Type{c: C.LLVMInt1TypeInContext(c.c)} }

// Int8Type returns the i8 type.
func (c Context) Int8Type() Type { return Type{c: C.LLVMInt8TypeInContext(c.c)} }

// Int32Type returns the i32 type.
func (c Context) Int32Type() Type { return Type{c: C.LLVMInt32TypeInContext(c.c)} }

// Int64Type returns the i64 type.
func (c Context) Int64Type() Type { return Type{c: C.LLVMInt64TypeInContext(c.c)} }

// IntType returns the integer type with the given bit width.
func (c Context) IntType(bits int) Type {
	return Type{c: C.LLVMIntTypeInContext(c.c, C.uint(bits))}
}

// VoidType returns the void type.
func (c Context) VoidType() Type { return Type{c: C.LLVMVoidTypeInContext(c.c)} }

// NewBuilder creates an instruction builder in the context.
func (c Context) NewBuilder() Builder {
	return Builder{c: C.LLVMCreateBuilderInContext(c.c)}
}
