// Package config describes one optimization run: the level, the optional
// target machine and what to emit. Runs are read from YAML files and
// overridden from the command line.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"llvmopt/grammar"
	"llvmopt/internal/errors"
	"llvmopt/internal/llvm"
)

// HostTriple requests a target machine for the machine llvmopt runs on.
const HostTriple = "host"

// Emit selects the output format.
type Emit string

const (
	EmitIR       Emit = "ir"
	EmitBitcode  Emit = "bitcode"
	EmitAssembly Emit = "assembly"
	EmitObject   Emit = "object"
)

// Emits returns the accepted output formats.
func Emits() []Emit {
	return []Emit{EmitIR, EmitBitcode, EmitAssembly, EmitObject}
}

// NeedsTargetMachine reports whether e can only be produced by a target
// machine.
func (e Emit) NeedsTargetMachine() bool {
	return e == EmitAssembly || e == EmitObject
}

// Binary reports whether e is a binary format, which is never written to
// stdout by default.
func (e Emit) Binary() bool {
	return e == EmitBitcode || e == EmitObject
}

// Extension returns the conventional file extension of e.
func (e Emit) Extension() string {
	switch e {
	case EmitBitcode:
		return ".bc"
	case EmitAssembly:
		return ".s"
	case EmitObject:
		return ".o"
	default:
		return ".ll"
	}
}

// Config is one optimization run.
type Config struct {
	// Level is an optimization level in any of the forms the grammar
	// package accepts ("O2", "-O2", "default<O2>").
	Level string `yaml:"level,omitempty"`

	// Target selects the target machine handed to the pipeline. An empty
	// triple runs the pipeline without one.
	Target Target `yaml:"target,omitempty"`

	Emit Emit `yaml:"emit,omitempty"`

	// Verify runs the verifier before and after the pipeline. nil means
	// "not set" so that merging can tell it apart from false.
	Verify *bool `yaml:"verify,omitempty"`

	// Output is the output path; empty or "-" writes to stdout.
	Output string `yaml:"output,omitempty"`
}

// Target describes the target machine of a run.
type Target struct {
	Triple     string `yaml:"triple,omitempty"`
	CPU        string `yaml:"cpu,omitempty"`
	Features   string `yaml:"features,omitempty"`
	CodeGen    string `yaml:"codegen,omitempty"`
	Relocation string `yaml:"relocation,omitempty"`
	CodeModel  string `yaml:"code_model,omitempty"`
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	verify := true
	return &Config{
		Level:  llvm.O2.String(),
		Emit:   EmitIR,
		Verify: &verify,
	}
}

// yamlLine extracts the line number from yaml.v3 error messages, e.g.
// "yaml: line 3: did not find expected key".
var yamlLine = regexp.MustCompile(`line (\d+):`)

// Load reads a configuration file, rejecting unknown fields, and validates
// it. Fields the file leaves out keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(path, data)
}

// Parse is Load for data that has already been read.
func Parse(path string, data []byte) (*Config, error) {
	var file Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		line := 0
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, fmt.Errorf("%s: %w", path, errors.InvalidConfig(err.Error(), line))
	}

	cfg := Default()
	cfg.Merge(&file)

	if err := cfg.Validate(); err != nil {
		var d errors.Diagnostic
		if stderrors.As(err, &d) && d.Code == errors.ErrorInvalidLevel {
			if node := valueNode(data, "level"); node != nil {
				d.Position = errors.Position{Line: node.Line, Column: node.Column}
				d.Length = len(node.Value)
				err = d
			}
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// valueNode returns the value of a top-level key of the YAML document, or
// nil when the document has no such key.
func valueNode(data []byte, key string) *yaml.Node {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return root.Content[i+1]
		}
	}
	return nil
}

// OutputPath returns the file a run over input writes to, or "" for stdout.
// Binary formats default to input with the extension of the format, e.g.
// "add.ll" becomes "add.bc".
func (c *Config) OutputPath(input string) string {
	if c.Output != "" || !c.Emit.Binary() {
		return c.Output
	}

	stem := strings.TrimSuffix(input, filepath.Ext(input))
	output := stem + c.Emit.Extension()
	if output == input {
		output = stem + ".opt" + c.Emit.Extension()
	}
	return output
}

// Merge overrides the fields of c with the fields set in other.
func (c *Config) Merge(other *Config) {
	if other.Level != "" {
		c.Level = other.Level
	}
	if other.Emit != "" {
		c.Emit = other.Emit
	}
	if other.Verify != nil {
		verify := *other.Verify
		c.Verify = &verify
	}
	if other.Output != "" {
		c.Output = other.Output
	}

	t := other.Target
	if t.Triple != "" {
		c.Target.Triple = t.Triple
	}
	if t.CPU != "" {
		c.Target.CPU = t.CPU
	}
	if t.Features != "" {
		c.Target.Features = t.Features
	}
	if t.CodeGen != "" {
		c.Target.CodeGen = t.CodeGen
	}
	if t.Relocation != "" {
		c.Target.Relocation = t.Relocation
	}
	if t.CodeModel != "" {
		c.Target.CodeModel = t.CodeModel
	}
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := c.OptimizationLevel(); err != nil {
		// The level may come from a flag or a file; Parse locates it.
		d := errors.InvalidLevel(c.Level, 1)
		d.Position = errors.Position{}
		return d
	}

	if !slices.Contains(Emits(), c.Emit) {
		var names []string
		for _, e := range Emits() {
			names = append(names, string(e))
		}
		return errors.NewError(errors.ErrorInvalidConfig, fmt.Sprintf("unknown emit kind '%s'", c.Emit), errors.Position{}).
			WithHelp("emit must be one of: " + strings.Join(names, ", ")).
			Build()
	}

	if c.Emit.NeedsTargetMachine() && c.Target.Triple == "" {
		return errors.NewError(errors.ErrorInvalidConfig, fmt.Sprintf("emitting %s needs a target", c.Emit), errors.Position{}).
			WithSuggestion("set target.triple, or use 'host'").
			Build()
	}

	if _, err := c.CodeGenOptLevel(); err != nil {
		return err
	}
	if _, err := c.RelocMode(); err != nil {
		return err
	}
	if _, err := c.CodeModel(); err != nil {
		return err
	}

	return nil
}

// ShouldVerify reports whether the verifier runs.
func (c *Config) ShouldVerify() bool {
	return c.Verify == nil || *c.Verify
}

// OptimizationLevel parses Level.
func (c *Config) OptimizationLevel() (llvm.OptimizationLevel, error) {
	return grammar.ParseLevel(c.Level)
}

var codeGenOptLevels = map[string]llvm.CodeGenOptLevel{
	"":           llvm.CodeGenLevelDefault,
	"none":       llvm.CodeGenLevelNone,
	"less":       llvm.CodeGenLevelLess,
	"default":    llvm.CodeGenLevelDefault,
	"aggressive": llvm.CodeGenLevelAggressive,
}

var relocModes = map[string]llvm.RelocMode{
	"":        llvm.RelocDefault,
	"default": llvm.RelocDefault,
	"static":  llvm.RelocStatic,
	"pic":     llvm.RelocPIC,
}

var codeModels = map[string]llvm.CodeModel{
	"":            llvm.CodeModelDefault,
	"default":     llvm.CodeModelDefault,
	"jit-default": llvm.CodeModelJITDefault,
	"tiny":        llvm.CodeModelTiny,
	"small":       llvm.CodeModelSmall,
	"kernel":      llvm.CodeModelKernel,
	"medium":      llvm.CodeModelMedium,
	"large":       llvm.CodeModelLarge,
}

// CodeGenOptLevel maps Target.CodeGen to the backend code generation level.
func (c *Config) CodeGenOptLevel() (llvm.CodeGenOptLevel, error) {
	return lookup(codeGenOptLevels, "codegen", c.Target.CodeGen)
}

// RelocMode maps Target.Relocation to the relocation model.
func (c *Config) RelocMode() (llvm.RelocMode, error) {
	return lookup(relocModes, "relocation", c.Target.Relocation)
}

// CodeModel maps Target.CodeModel to the code model.
func (c *Config) CodeModel() (llvm.CodeModel, error) {
	return lookup(codeModels, "code_model", c.Target.CodeModel)
}

func lookup[T any](values map[string]T, field, name string) (T, error) {
	if v, ok := values[name]; ok {
		return v, nil
	}

	var zero T
	return zero, errors.NewError(errors.ErrorInvalidConfig, fmt.Sprintf("unknown target.%s '%s'", field, name), errors.Position{}).
		WithHelp(fmt.Sprintf("target.%s must be one of: %s", field, keys(values))).
		Build()
}

func keys[T any](values map[string]T) string {
	var names []string
	for name := range values {
		if name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// TargetMachineOptions returns the options of the target machine the run
// asks for.
func (c *Config) TargetMachineOptions() (llvm.TargetMachineOptions, error) {
	level, err := c.CodeGenOptLevel()
	if err != nil {
		return llvm.TargetMachineOptions{}, err
	}
	reloc, err := c.RelocMode()
	if err != nil {
		return llvm.TargetMachineOptions{}, err
	}
	model, err := c.CodeModel()
	if err != nil {
		return llvm.TargetMachineOptions{}, err
	}

	return llvm.TargetMachineOptions{
		CPU:       c.Target.CPU,
		Features:  c.Target.Features,
		OptLevel:  level,
		Reloc:     reloc,
		CodeModel: model,
	}, nil
}
