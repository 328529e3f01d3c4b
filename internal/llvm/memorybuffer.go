package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// MemoryBuffer is a read-only chunk of memory owned by LLVM.
type MemoryBuffer struct {
	c C.LLVMMemoryBufferRef
}

// NewMemoryBuffer copies data into a new buffer called name.
func NewMemoryBuffer(name string, data []byte) MemoryBuffer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var start *C.char
	if len(data) > 0 {
		start = (*C.char)(unsafe.Pointer(&data[0]))
	}

	return MemoryBuffer{c: C.LLVMCreateMemoryBufferWithMemoryRangeCopy(start, C.size_t(len(data)), cname)}
}

// NewMemoryBufferFromFile reads the file at path into a new buffer.
func NewMemoryBufferFromFile(path string) (MemoryBuffer, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var buf C.LLVMMemoryBufferRef
	var msg *C.char
	if C.LLVMCreateMemoryBufferWithContentsOfFile(cpath, &buf, &msg) != 0 {
		return MemoryBuffer{}, fmt.Errorf("llvm: reading %s: %s", path, takeMessage(msg))
	}

	return MemoryBuffer{c: buf}, nil
}

// IsNil reports whether the buffer is a null handle.
func (b MemoryBuffer) IsNil() bool { return b.c == nil }

// Len returns the size of the buffer in bytes.
func (b MemoryBuffer) Len() int {
	return int(C.LLVMGetBufferSize(b.c))
}

// Bytes returns a Go copy of the buffer contents.
func (b MemoryBuffer) Bytes() []byte {
	return C.GoBytes(unsafe.Pointer(C.LLVMGetBufferStart(b.c)), C.int(C.LLVMGetBufferSize(b.c)))
}

// Dispose frees the buffer.
func (b MemoryBuffer) Dispose() {
	C.LLVMDisposeMemoryBuffer(b.c)
}
