package llvm

/*
#include <stdlib.h>

#include "llvm-c/Analysis.h"
#include "llvm-c/BitReader.h"
#include "llvm-c/BitWriter.h"
#include "llvm-c/Core.h"
#include "llvm-c/IRReader.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Module is the top-level container of LLVM IR: functions, globals and
// metadata.
type Module struct {
	c C.LLVMModuleRef
}

// NewModule creates an empty module called name in the context.
func (c Context) NewModule(name string) Module {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Module{c: C.LLVMModuleCreateWithNameInContext(cname, c.c)}
}

// ParseIR reads a module from textual IR or bitcode. name is used as the
// buffer name and shows up in diagnostics.
func (c Context) ParseIR(name string, src []byte) (Module, error) {
	if c.IsNil() {
		return Module{}, ErrNilContext
	}

	// LLVMParseIRInContext takes ownership of the buffer.
	buf := NewMemoryBuffer(name, src)

	var m C.LLVMModuleRef
	var msg *C.char
	if C.LLVMParseIRInContext(c.c, buf.c, &m, &msg) != 0 {
		return Module{}, newParseError(name, takeMessage(msg))
	}

	return Module{c: m}, nil
}

// ParseBitcode reads a module from the bitcode in buf. The buffer is not
// consumed.
func (c Context) ParseBitcode(buf MemoryBuffer) (Module, error) {
	if c.IsNil() {
		return Module{}, ErrNilContext
	}

	var m C.LLVMModuleRef
	if C.LLVMParseBitcodeInContext2(c.c, buf.c, &m) != 0 {
		return Module{}, &ParseError{Filename: "<bitcode>", Message: "invalid bitcode"}
	}

	return Module{c: m}, nil
}

// IsNil reports whether the module is a null handle.
func (m Module) IsNil() bool { return m.c == nil }

// Dispose frees the module and everything it contains.
func (m Module) Dispose() {
	C.LLVMDisposeModule(m.c)
}

// Context returns the context owning the module.
func (m Module) Context() Context {
	return Context{c: C.LLVMGetModuleContext(m.c)}
}

// Name returns the module identifier.
func (m Module) Name() string {
	var n C.size_t
	s := C.LLVMGetModuleIdentifier(m.c, &n)

	return C.GoStringN(s, C.int(n))
}

// SetName changes the module identifier.
func (m Module) SetName(name string) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	C.LLVMSetModuleIdentifier(m.c, cname, C.size_t(len(name)))
}

// Target returns the target triple of the module, or "" if unset.
func (m Module) Target() string {
	return C.GoString(C.LLVMGetTarget(m.c))
}

// SetTarget sets the target triple of the module.
func (m Module) SetTarget(triple string) {
	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	C.LLVMSetTarget(m.c, ctriple)
}

// DataLayout returns the data layout string of the module.
func (m Module) DataLayout() string {
	return C.GoString(C.LLVMGetDataLayoutStr(m.c))
}

// SetDataLayout sets the data layout string of the module.
func (m Module) SetDataLayout(layout string) {
	clayout := C.CString(layout)
	defer C.free(unsafe.Pointer(clayout))

	C.LLVMSetDataLayout(m.c, clayout)
}

// Verify checks that the IR in m is well formed.
func (m Module) Verify() error {
	if m.IsNil() {
		return ErrNilModule
	}

	var msg *C.char
	broken := C.LLVMVerifyModule(m.c, C.LLVMReturnStatusAction, &msg)
	message := takeMessage(msg)
	if broken != 0 {
		return &VerificationError{Message: message}
	}

	return nil
}

// String returns the textual IR of the module.
func (m Module) String() string {
	return takeMessage(C.LLVMPrintModuleToString(m.c))
}

// WriteBitcodeToFile writes the bitcode of the module to path.
func (m Module) WriteBitcodeToFile(path string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	if C.LLVMWriteBitcodeToFile(m.c, cpath) != 0 {
		return fmt.Errorf("llvm: writing bitcode to %s failed", path)
	}

	return nil
}

// Bitcode returns the bitcode of the module. The caller owns the buffer.
func (m Module) Bitcode() MemoryBuffer {
	return MemoryBuffer{c: C.LLVMWriteBitcodeToMemoryBuffer(m.c)}
}

// NamedFunction returns the function called name, or a nil Value.
func (m Module) NamedFunction(name string) Value {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Value{c: C.LLVMGetNamedFunction(m.c, cname)}
}

// NamedGlobal returns the global variable called name, or a nil Value.
func (m Module) NamedGlobal(name string) Value {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Value{c: C.LLVMGetNamedGlobal(m.c, cname)}
}

// Functions returns the functions of the module in definition order.
func (m Module) Functions() []Value {
	var fns []Value
	for f := C.LLVMGetFirstFunction(m.c); f != nil; f = C.LLVMGetNextFunction(f) {
		fns = append(fns, Value{c: f})
	}

	return fns
}

// Globals returns the global variables of the module in definition order.
func (m Module) Globals() []Value {
	var globals []Value
	for g := C.LLVMGetFirstGlobal(m.c); g != nil; g = C.LLVMGetNextGlobal(g) {
		globals = append(globals, Value{c: g})
	}

	return globals
}

// AddFunction declares a function called name with type ft.
func (m Module) AddFunction(name string, ft Type) Value {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return Value{c: C.LLVMAddFunction(m.c, cname, ft.c)}
}
