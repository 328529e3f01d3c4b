//go:build !byollvm && linux && llvm18

package llvm

// #cgo CPPFLAGS: -I/usr/lib/llvm-18/include -D_GNU_SOURCE -D__STDC_CONSTANT_MACROS -D__STDC_FORMAT_MACROS -D__STDC_LIMIT_MACROS
// #cgo CXXFLAGS: -std=c++17 -fno-exceptions -fno-rtti
// #cgo LDFLAGS: -L/usr/lib/llvm-18/lib -lLLVM-18
import "C"
