//go:build byollvm

package llvm

// With the byollvm tag the include and link flags come from the environment,
// typically:
//
//	CGO_CPPFLAGS="$(llvm-config --cppflags)" \
//	CGO_CXXFLAGS="-std=c++17 -fno-rtti" \
//	CGO_LDFLAGS="$(llvm-config --ldflags --libs all)" go build -tags byollvm

import "C"
