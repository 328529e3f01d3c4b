package llvm

/*
#include "shim.h"
*/
import "C"
import "fmt"

// OptimizationLevel selects one of LLVM's default optimization pipelines.
//
// The ordinal values are stable and match LLVMOptPassOptimizationLevel in
// shim.h, so callers may marshal levels by number. Only the six declared
// levels are valid; any other value is a programming error and makes the
// functions of this package panic.
type OptimizationLevel int

const (
	O0 OptimizationLevel = iota // no optimization
	O1                          // light speed optimization
	O2                          // full speed optimization
	O3                          // aggressive speed optimization
	Os                          // optimize for size without hurting speed much
	Oz                          // optimize for size at any cost
)

var optimizationLevelNames = [...]string{
	O0: "O0",
	O1: "O1",
	O2: "O2",
	O3: "O3",
	Os: "Os",
	Oz: "Oz",
}

// OptimizationLevels returns the six levels in ordinal order.
func OptimizationLevels() []OptimizationLevel {
	return []OptimizationLevel{O0, O1, O2, O3, Os, Oz}
}

// Valid reports whether o is one of the six declared levels.
func (o OptimizationLevel) Valid() bool {
	return o >= O0 && o <= Oz
}

func (o OptimizationLevel) String() string {
	if !o.Valid() {
		return fmt.Sprintf("OptimizationLevel(%d)", int(o))
	}
	return optimizationLevelNames[o]
}

// Pipeline returns the textual name LLVM gives to the default pipeline of o,
// e.g. "default<O2>".
func (o OptimizationLevel) Pipeline() string {
	o.llvm()
	return "default<" + o.String() + ">"
}

// llvm translates o to the enumeration of the C boundary.
func (o OptimizationLevel) llvm() C.LLVMOptPassOptimizationLevel {
	switch o {
	case O0:
		return C.LLVMOptPassOptimizationLevelO0
	case O1:
		return C.LLVMOptPassOptimizationLevelO1
	case O2:
		return C.LLVMOptPassOptimizationLevelO2
	case O3:
		return C.LLVMOptPassOptimizationLevelO3
	case Os:
		return C.LLVMOptPassOptimizationLevelOs
	case Oz:
		return C.LLVMOptPassOptimizationLevelOz
	}
	panic(fmt.Sprintf("llvm: unhandled optimization level %d", int(o)))
}

// BackendLevel is the pair of knobs llvm::OptimizationLevel is made of.
type BackendLevel struct {
	Speedup int // 0 to 3
	Size    int // 0 to 2
}

// BackendLevel returns the llvm::OptimizationLevel o translates to.
func (o OptimizationLevel) BackendLevel() BackendLevel {
	var speedup, size C.uint
	C.LLVMOptTranslateOptimizationLevel(o.llvm(), &speedup, &size)

	return BackendLevel{Speedup: int(speedup), Size: int(size)}
}

// RunDefaultModulePasses runs the default pipeline for level over m, once,
// mutating the module in place.
//
// O0 runs LLVM's dedicated no-optimization pipeline; every other level runs
// the standard per-module pipeline. tm may be nil, in which case no
// target-specific optimizations are performed. The module is not verified
// before or after the pipeline runs.
//
// RunDefaultModulePasses panics if level is not one of the six declared
// levels, before touching the module.
func (m Module) RunDefaultModulePasses(tm *TargetMachine, level OptimizationLevel) error {
	o := level.llvm()

	if m.IsNil() {
		return ErrNilModule
	}

	var t C.LLVMTargetMachineRef
	if tm != nil {
		if tm.IsNil() {
			return ErrNilTargetMachine
		}
		t = tm.c
	}

	C.LLVMOptRunDefaultModulePasses(m.c, t, o)
	return nil
}
