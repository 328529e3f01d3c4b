// Package driver runs the load, optimize and emit cycle of llvmopt over one
// input file.
package driver

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"

	"llvmopt/internal/config"
	"llvmopt/internal/llvm"
)

var log = commonlog.GetLogger("llvmopt.driver")

// ErrNoTargetMachine is returned when assembly or object code is requested
// from a run without a target.
var ErrNoTargetMachine = errors.New("emitting machine code needs a target machine")

// BrokenModuleError is returned when the verifier rejects a module the
// pipeline produced from a valid one.
type BrokenModuleError struct {
	Level llvm.OptimizationLevel
	Err   *llvm.VerificationError
}

func (e *BrokenModuleError) Error() string {
	return fmt.Sprintf("%s produced an invalid module: %s", e.Level.Pipeline(), e.Err)
}

func (e *BrokenModuleError) Unwrap() error { return e.Err }

// OutputError is returned when the output file cannot be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("writing %s: %s", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// InputError is returned when the input file cannot be read.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("reading %s: %s", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Unit is a module loaded from one file, in a context of its own.
type Unit struct {
	Path    string
	Context llvm.Context
	Module  llvm.Module

	// Source is the file content for textual IR and nil for bitcode.
	Source []byte
}

// Dispose frees the module and its context.
func (u *Unit) Dispose() {
	if !u.Module.IsNil() {
		u.Module.Dispose()
	}
	if !u.Context.IsNil() {
		u.Context.Dispose()
	}
}

// Driver runs the cycle described by its configuration. A Driver is not
// safe for concurrent use.
type Driver struct {
	Config *config.Config
}

// New returns a driver for cfg. A nil cfg means config.Default().
func New(cfg *config.Config) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Driver{Config: cfg}
}

const (
	bitcodeMagic        = 0xdec04342 // 'B' 'C' 0xC0DE
	bitcodeWrapperMagic = 0x0b17c0de
)

// IsBitcode reports whether data starts with the raw or the wrapped bitcode
// magic number.
func IsBitcode(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	magic := binary.LittleEndian.Uint32(data)
	return magic == bitcodeMagic || magic == bitcodeWrapperMagic
}

// Load reads path as textual IR or bitcode.
func (d *Driver) Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	return d.LoadBytes(path, data)
}

// LoadBytes is Load for data that has already been read.
func (d *Driver) LoadBytes(path string, data []byte) (*Unit, error) {
	u := &Unit{Path: path, Context: llvm.NewContext()}
	if !IsBitcode(data) {
		u.Source = data
	}

	m, err := u.Context.ParseIR(filepath.Base(path), data)
	if err != nil {
		u.Dispose()
		return nil, err
	}
	u.Module = m

	log.Debugf("loaded %s (%d bytes, bitcode: %t)", path, len(data), u.Source == nil)
	return u, nil
}

// TargetMachine creates the target machine the configuration asks for, or
// returns nil when it asks for none. The caller disposes of it.
func (d *Driver) TargetMachine() (*llvm.TargetMachine, error) {
	triple := d.Config.Target.Triple
	if triple == "" {
		return nil, nil
	}

	opts, err := d.Config.TargetMachineOptions()
	if err != nil {
		return nil, err
	}

	var target llvm.Target
	if triple == config.HostTriple {
		target, err = llvm.HostTarget()
		if opts.CPU == "" && opts.Features == "" {
			opts.CPU = llvm.HostCPUName()
			opts.Features = llvm.HostCPUFeatures()
		}
	} else {
		target, err = llvm.TargetFromTriple(llvm.NormalizeTargetTriple(triple))
	}
	if err != nil {
		return nil, err
	}

	tm, err := target.CreateTargetMachine(opts)
	if err != nil {
		return nil, err
	}

	log.Debugf("target machine %s (cpu %q)", tm.Triple(), tm.CPU())
	return tm, nil
}

// Optimize runs the configured default pipeline over u. tm may be nil.
//
// With verification enabled the module is verified before the pipeline, so
// that invalid input never reaches it, and again afterwards.
func (d *Driver) Optimize(u *Unit, tm *llvm.TargetMachine) error {
	level, err := d.Config.OptimizationLevel()
	if err != nil {
		return err
	}

	verify := d.Config.ShouldVerify()
	if verify {
		if err := u.Module.Verify(); err != nil {
			return fmt.Errorf("%s: %w", u.Path, err)
		}
	}

	if tm != nil && u.Module.Target() == "" {
		u.Module.SetTarget(tm.Triple())
		u.Module.SetDataLayout(tm.DataLayout())
	}

	log.Infof("running %s over %s", level.Pipeline(), u.Path)
	start := time.Now()
	if err := u.Module.RunDefaultModulePasses(tm, level); err != nil {
		return err
	}
	log.Debugf("%s finished in %s", level.Pipeline(), time.Since(start))

	if verify {
		var verr *llvm.VerificationError
		if err := u.Module.Verify(); errors.As(err, &verr) {
			return &BrokenModuleError{Level: level, Err: verr}
		} else if err != nil {
			return err
		}
	}

	return nil
}

// Emit writes u to w in the configured format.
func (d *Driver) Emit(u *Unit, tm *llvm.TargetMachine, w io.Writer) error {
	switch emit := d.Config.Emit; emit {
	case config.EmitIR:
		_, err := io.WriteString(w, u.Module.String())
		return err

	case config.EmitBitcode:
		buf := u.Module.Bitcode()
		defer buf.Dispose()
		_, err := w.Write(buf.Bytes())
		return err

	case config.EmitAssembly, config.EmitObject:
		if tm == nil {
			return ErrNoTargetMachine
		}
		ft := llvm.AssemblyFile
		if emit == config.EmitObject {
			ft = llvm.ObjectFile
		}
		code, err := tm.Emit(u.Module, ft)
		if err != nil {
			return err
		}
		_, err = w.Write(code)
		return err

	default:
		return fmt.Errorf("unknown emit kind %q", emit)
	}
}

// Run loads path, optimizes it and writes the result to the configured
// output, next to path for binary formats, or else to stdout.
func (d *Driver) Run(path string, stdout io.Writer) error {
	u, err := d.Load(path)
	if err != nil {
		return err
	}
	defer u.Dispose()

	tm, err := d.TargetMachine()
	if err != nil {
		return err
	}
	if tm != nil {
		defer tm.Dispose()
	}

	if err := d.Optimize(u, tm); err != nil {
		return err
	}

	output := d.Config.OutputPath(path)
	if output == "" || output == "-" {
		return d.Emit(u, tm, stdout)
	}

	// Emit to memory first so a failed run never truncates the output.
	var buf bytes.Buffer
	if err := d.Emit(u, tm, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return &OutputError{Path: output, Err: err}
	}

	log.Infof("wrote %s", output)
	return nil
}
