package llvm

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
#include "llvm-c/Target.h"
#include "llvm-c/TargetMachine.h"
*/
import "C"
import (
	"sync"
	"unsafe"
)

var initTargets sync.Once

// initializeTargets registers every target LLVM was built with so that any
// triple can be looked up.
func initializeTargets() {
	initTargets.Do(func() {
		C.LLVMInitializeAllTargetInfos()
		C.LLVMInitializeAllTargets()
		C.LLVMInitializeAllTargetMCs()
		C.LLVMInitializeAllAsmParsers()
		C.LLVMInitializeAllAsmPrinters()
	})
}

// CodeGenOptLevel is the optimization level used by instruction selection
// and the rest of the code generator. It is unrelated to the optimization
// level of the IR pipeline.
type CodeGenOptLevel C.LLVMCodeGenOptLevel

const (
	CodeGenLevelNone       CodeGenOptLevel = C.LLVMCodeGenLevelNone
	CodeGenLevelLess       CodeGenOptLevel = C.LLVMCodeGenLevelLess
	CodeGenLevelDefault    CodeGenOptLevel = C.LLVMCodeGenLevelDefault
	CodeGenLevelAggressive CodeGenOptLevel = C.LLVMCodeGenLevelAggressive
)

// RelocMode is the relocation model of generated code.
type RelocMode C.LLVMRelocMode

const (
	RelocDefault RelocMode = C.LLVMRelocDefault
	RelocStatic  RelocMode = C.LLVMRelocStatic
	RelocPIC     RelocMode = C.LLVMRelocPIC
)

// CodeModel constrains the addressing of code and data.
type CodeModel C.LLVMCodeModel

const (
	CodeModelDefault    CodeModel = C.LLVMCodeModelDefault
	CodeModelJITDefault CodeModel = C.LLVMCodeModelJITDefault
	CodeModelTiny       CodeModel = C.LLVMCodeModelTiny
	CodeModelSmall      CodeModel = C.LLVMCodeModelSmall
	CodeModelKernel     CodeModel = C.LLVMCodeModelKernel
	CodeModelMedium     CodeModel = C.LLVMCodeModelMedium
	CodeModelLarge      CodeModel = C.LLVMCodeModelLarge
)

// CodeGenFileType is the kind of file produced by code generation.
type CodeGenFileType C.LLVMCodeGenFileType

const (
	AssemblyFile CodeGenFileType = C.LLVMAssemblyFile
	ObjectFile   CodeGenFileType = C.LLVMObjectFile
)

// DefaultTargetTriple returns the triple of the host.
func DefaultTargetTriple() string {
	return takeMessage(C.LLVMGetDefaultTargetTriple())
}

// NormalizeTargetTriple returns the canonical form of triple.
func NormalizeTargetTriple(triple string) string {
	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	return takeMessage(C.LLVMNormalizeTargetTriple(ctriple))
}

// Target describes a platform code can be generated for.
type Target struct {
	c      C.LLVMTargetRef
	triple string
}

// TargetFromTriple looks up the target for triple.
func TargetFromTriple(triple string) (Target, error) {
	initializeTargets()

	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))

	var t C.LLVMTargetRef
	var msg *C.char
	if C.LLVMGetTargetFromTriple(ctriple, &t, &msg) != 0 {
		return Target{}, &TargetError{Triple: triple, Message: takeMessage(msg)}
	}

	return Target{c: t, triple: triple}, nil
}

// HostTarget returns the target of the machine the program runs on.
func HostTarget() (Target, error) {
	return TargetFromTriple(DefaultTargetTriple())
}

// Triple returns the triple the target was looked up with.
func (t Target) Triple() string { return t.triple }

// Name returns the short name of the target, e.g. "x86-64".
func (t Target) Name() string {
	return C.GoString(C.LLVMGetTargetName(t.c))
}

// Description returns the human readable description of the target.
func (t Target) Description() string {
	return C.GoString(C.LLVMGetTargetDescription(t.c))
}

// HasJIT reports whether the target has a JIT.
func (t Target) HasJIT() bool {
	return C.LLVMTargetHasJIT(t.c) != 0
}

// HasAsmBackend reports whether the target has an assembly back end.
func (t Target) HasAsmBackend() bool {
	return C.LLVMTargetHasAsmBackend(t.c) != 0
}

// TargetMachineOptions configures CreateTargetMachine. The zero value asks
// for the generic CPU without extra features, no codegen optimization and
// the default relocation and code models.
type TargetMachineOptions struct {
	CPU       string
	Features  string
	OptLevel  CodeGenOptLevel
	Reloc     RelocMode
	CodeModel CodeModel
}

// TargetMachine holds everything needed to generate code for one target.
type TargetMachine struct {
	c C.LLVMTargetMachineRef
}

// CreateTargetMachine creates a target machine for t.
func (t Target) CreateTargetMachine(opts TargetMachineOptions) (*TargetMachine, error) {
	ctriple := C.CString(t.triple)
	defer C.free(unsafe.Pointer(ctriple))
	ccpu := C.CString(opts.CPU)
	defer C.free(unsafe.Pointer(ccpu))
	cfeatures := C.CString(opts.Features)
	defer C.free(unsafe.Pointer(cfeatures))

	tm := C.LLVMCreateTargetMachine(t.c, ctriple, ccpu, cfeatures,
		C.LLVMCodeGenOptLevel(opts.OptLevel),
		C.LLVMRelocMode(opts.Reloc),
		C.LLVMCodeModel(opts.CodeModel))
	if tm == nil {
		return nil, &TargetError{Triple: t.triple, Message: "cannot create target machine"}
	}

	return &TargetMachine{c: tm}, nil
}

// HostCPUName returns the name of the host CPU.
func HostCPUName() string {
	return takeMessage(C.LLVMGetHostCPUName())
}

// HostCPUFeatures returns the feature string of the host CPU.
func HostCPUFeatures() string {
	return takeMessage(C.LLVMGetHostCPUFeatures())
}

// HostTargetMachine creates a target machine for the host CPU and its
// features.
func HostTargetMachine(level CodeGenOptLevel) (*TargetMachine, error) {
	t, err := HostTarget()
	if err != nil {
		return nil, err
	}

	return t.CreateTargetMachine(TargetMachineOptions{
		CPU:      HostCPUName(),
		Features: HostCPUFeatures(),
		OptLevel: level,
	})
}

// IsNil reports whether tm is nil or has been disposed of.
func (tm *TargetMachine) IsNil() bool { return tm == nil || tm.c == nil }

// Dispose frees the target machine. Later calls on tm see a nil handle.
func (tm *TargetMachine) Dispose() {
	if tm.IsNil() {
		return
	}
	C.LLVMDisposeTargetMachine(tm.c)
	tm.c = nil
}

// Triple returns the triple of the machine.
func (tm *TargetMachine) Triple() string {
	return takeMessage(C.LLVMGetTargetMachineTriple(tm.c))
}

// CPU returns the CPU of the machine.
func (tm *TargetMachine) CPU() string {
	return takeMessage(C.LLVMGetTargetMachineCPU(tm.c))
}

// Features returns the feature string of the machine.
func (tm *TargetMachine) Features() string {
	return takeMessage(C.LLVMGetTargetMachineFeatureString(tm.c))
}

// Target returns the target of the machine.
func (tm *TargetMachine) Target() Target {
	return Target{c: C.LLVMGetTargetMachineTarget(tm.c), triple: tm.Triple()}
}

// DataLayout returns the data layout string the machine expects.
func (tm *TargetMachine) DataLayout() string {
	td := C.LLVMCreateTargetDataLayout(tm.c)
	defer C.LLVMDisposeTargetData(td)

	return takeMessage(C.LLVMCopyStringRepOfTargetData(td))
}

// Emit compiles m to assembly or an object file in memory.
func (tm *TargetMachine) Emit(m Module, ft CodeGenFileType) ([]byte, error) {
	if tm.IsNil() {
		return nil, ErrNilTargetMachine
	}
	if m.IsNil() {
		return nil, ErrNilModule
	}

	var buf C.LLVMMemoryBufferRef
	var msg *C.char
	if C.LLVMTargetMachineEmitToMemoryBuffer(tm.c, m.c, C.LLVMCodeGenFileType(ft), &msg, &buf) != 0 {
		return nil, &CodeGenerationError{Message: takeMessage(msg)}
	}

	mb := MemoryBuffer{c: buf}
	defer mb.Dispose()

	return mb.Bytes(), nil
}

// EmitToFile compiles m to assembly or an object file at path.
func (tm *TargetMachine) EmitToFile(m Module, path string, ft CodeGenFileType) error {
	if tm.IsNil() {
		return ErrNilTargetMachine
	}
	if m.IsNil() {
		return ErrNilModule
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var msg *C.char
	if C.LLVMTargetMachineEmitToFile(tm.c, m.c, cpath, C.LLVMCodeGenFileType(ft), &msg) != 0 {
		return &CodeGenerationError{Message: takeMessage(msg)}
	}

	return nil
}
