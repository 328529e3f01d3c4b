// Package llvm is a thin cgo binding over the LLVM C API and the small C++
// boundary in shim.cpp that runs LLVM's default optimization pipelines.
//
// All handle types (Context, Module, Type, Value, BasicBlock, Builder,
// MemoryBuffer, Target, TargetMachine) are opaque, non-owning references to
// objects that live inside LLVM. Ownership stays with whoever created the
// object and is released with the matching Dispose method. None of the
// handles are safe for concurrent use: a Context and everything created in
// it must be confined to one goroutine at a time.
package llvm

/*
#include "llvm-c/Core.h"
*/
import "C"

// llvmBool converts a boolean value to an LLVMBool.
func llvmBool(v bool) C.LLVMBool {
	if v {
		return 1
	}

	return 0
}

// takeMessage converts an LLVM-allocated message to a Go string and disposes
// of it.
func takeMessage(msg *C.char) string {
	if msg == nil {
		return ""
	}
	defer C.LLVMDisposeMessage(msg)

	return C.GoString(msg)
}

// Version returns the version of the LLVM library the binary is linked
// against.
func Version() (major, minor, patch int) {
	var ma, mi, pa C.uint
	C.LLVMGetVersion(&ma, &mi, &pa)

	return int(ma), int(mi), int(pa)
}
