package driver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"llvmopt/internal/llvm"
)

// SupportedLLVM is the range of LLVM releases the bindings are written for.
const SupportedLLVM = ">= 16.0.0"

// UnsupportedLLVMError is returned by CheckVersion.
type UnsupportedLLVMError struct {
	Version    *semver.Version
	Constraint string
}

func (e *UnsupportedLLVMError) Error() string {
	return fmt.Sprintf("LLVM %s does not satisfy %s", e.Version, e.Constraint)
}

// LLVMVersion returns the version of the linked LLVM.
func LLVMVersion() *semver.Version {
	major, minor, patch := llvm.Version()
	return semver.New(uint64(major), uint64(minor), uint64(patch), "", "")
}

// CheckVersion checks the linked LLVM against SupportedLLVM.
func CheckVersion() error {
	return checkVersion(LLVMVersion(), SupportedLLVM)
}

func checkVersion(v *semver.Version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	if !c.Check(v) {
		return &UnsupportedLLVMError{Version: v, Constraint: constraint}
	}
	return nil
}
