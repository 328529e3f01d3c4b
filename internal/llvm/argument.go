package llvm

/*
#include "shim.h"
*/
import "C"

// NotAnArgument is the index reported for values that are not function
// arguments. It can never be a valid position.
const NotAnArgument = -1

// ArgumentIndex returns the zero-based position of v among the formal
// parameters of its function, or NotAnArgument if v is any other kind of
// value.
func (v Value) ArgumentIndex() (int, error) {
	if v.IsNil() {
		return NotAnArgument, ErrNilValue
	}

	return int(C.LLVMOptGetArgumentIndex(v.c)), nil
}

// Parameter is a value known to be a formal parameter of a function.
type Parameter struct {
	Value

	// Index is the position of the parameter in its function.
	Index int
}

// AsParameter returns v as a Parameter, or false if v is not a function
// argument.
func AsParameter(v Value) (Parameter, bool) {
	i, err := v.ArgumentIndex()
	if err != nil || i == NotAnArgument {
		return Parameter{}, false
	}

	return Parameter{Value: v, Index: i}, true
}

// Function returns the function the parameter belongs to.
func (p Parameter) Function() Value {
	return p.ParamParent()
}
