// SPDX-License-Identifier: Apache-2.0

// Package repl is an interactive session over one module at a time.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"llvmopt/grammar"
	"llvmopt/internal/config"
	diag "llvmopt/internal/errors"
	"llvmopt/internal/driver"
	"llvmopt/internal/llvm"
)

const PROMPT = ">> "

const help = `commands:
  load <file>      read textual IR or bitcode
  opt [level]      run the default pipeline (O2 when no level is given)
  print            print the module as textual IR
  verify           run the verifier
  args <function>  show the argument indices of a function
  levels           list the optimization levels
  help             show this text
  quit             leave the session`

// moduleCommands operate on the loaded module.
var moduleCommands = map[string]bool{
	"opt":    true,
	"print":  true,
	"verify": true,
	"args":   true,
}

type session struct {
	out  io.Writer
	unit *driver.Unit
}

// Start reads commands from in until it is exhausted or "quit" is entered,
// and writes the results to out.
func Start(in io.Reader, out io.Writer) {
	s := &session{out: out}
	defer s.close()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}

		if err := s.execute(fields[0], fields[1:]); err != nil {
			s.report(s.subject(fields[0], fields[1:]), err)
		}
	}
}

func (s *session) execute(command string, args []string) error {
	switch command {
	case "help":
		fmt.Fprintln(s.out, help)
		return nil
	case "levels":
		for _, level := range llvm.OptimizationLevels() {
			fmt.Fprintf(s.out, "%d  %-2s  %s\n", int(level), level, level.Pipeline())
		}
		return nil
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load <file>")
		}
		return s.load(args[0])
	}

	if !moduleCommands[command] {
		return fmt.Errorf("unknown command %q, try: help", command)
	}
	if s.unit == nil {
		return fmt.Errorf("no module loaded, use: load <file>")
	}

	switch command {
	case "opt":
		level := llvm.O2.String()
		if len(args) > 0 {
			level = strings.Join(args, "")
		}
		return s.optimize(level)
	case "print":
		fmt.Fprint(s.out, s.unit.Module.String())
		return nil
	case "verify":
		if err := s.unit.Module.Verify(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, color.GreenString("module is valid"))
		return nil
	case "args":
		if len(args) != 1 {
			return fmt.Errorf("usage: args <function>")
		}
		fn := s.unit.Module.NamedFunction(strings.TrimPrefix(args[0], "@"))
		if fn.IsNil() {
			var names []string
			for _, f := range s.unit.Module.Functions() {
				names = append(names, f.Name())
			}
			return diag.UndefinedFunction(args[0], names)
		}
		driver.WriteArguments(s.out, fn)
	}
	return nil
}

func (s *session) load(path string) error {
	u, err := driver.New(nil).Load(path)
	if err != nil {
		return err
	}

	s.close()
	s.unit = u
	fmt.Fprintf(s.out, "loaded %s (%d functions)\n", path, len(u.Module.Functions()))
	return nil
}

func (s *session) optimize(text string) error {
	level, err := grammar.ParseLevel(text)
	if err != nil {
		grammar.ReportLevelError(s.out, text, err)
		return nil
	}

	cfg := config.Default()
	cfg.Level = level.String()
	if err := driver.New(cfg).Optimize(s.unit, nil); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "ran %s\n", level.Pipeline())
	return nil
}

// subject is the file a failing command was about: the file being loaded,
// or the module already in the session.
func (s *session) subject(command string, args []string) string {
	if command == "load" && len(args) == 1 {
		return args[0]
	}
	if s.unit != nil {
		return s.unit.Path
	}
	return ""
}

func (s *session) report(path string, err error) {
	fmt.Fprint(s.out, diag.NewReporter(path, "").Format(diag.FromError(err)))
}

func (s *session) close() {
	if s.unit != nil {
		s.unit.Dispose()
		s.unit = nil
	}
}
