//go:build !byollvm && linux && !llvm17 && !llvm18 && !llvm20

package llvm

// LLVM 19 is the default when no llvmNN build tag is given.

// #cgo CPPFLAGS: -I/usr/lib/llvm-19/include -D_GNU_SOURCE -D__STDC_CONSTANT_MACROS -D__STDC_FORMAT_MACROS -D__STDC_LIMIT_MACROS
// #cgo CXXFLAGS: -std=c++17 -fno-exceptions -fno-rtti
// #cgo LDFLAGS: -L/usr/lib/llvm-19/lib -lLLVM-19
import "C"
