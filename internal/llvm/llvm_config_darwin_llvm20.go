//go:build !byollvm && darwin && llvm20

package llvm

// #cgo amd64 CPPFLAGS: -I/usr/local/opt/llvm@20/include
// #cgo amd64 LDFLAGS: -L/usr/local/opt/llvm@20/lib -Wl,-rpath,/usr/local/opt/llvm@20/lib -lLLVM
// #cgo arm64 CPPFLAGS: -I/opt/homebrew/opt/llvm@20/include
// #cgo arm64 LDFLAGS: -L/opt/homebrew/opt/llvm@20/lib -Wl,-rpath,/opt/homebrew/opt/llvm@20/lib -lLLVM
// #cgo CPPFLAGS: -D__STDC_CONSTANT_MACROS -D__STDC_FORMAT_MACROS -D__STDC_LIMIT_MACROS
// #cgo CXXFLAGS: -std=c++17 -fno-exceptions -fno-rtti
import "C"
