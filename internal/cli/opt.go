package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llvmopt/grammar"
	"llvmopt/internal/config"
	diag "llvmopt/internal/errors"
	"llvmopt/internal/driver"
)

// OptOptions holds the flags of the opt command.
type OptOptions struct {
	Level    string
	Output   string
	Emit     string
	Target   string
	CPU      string
	Features string
	NoVerify bool
	Config   string
	Watch    bool
}

// NewOptCommand creates the opt command.
func NewOptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptOptions{}

	cmd := &cobra.Command{
		Use:   "opt <input>",
		Short: "Run a default optimization pipeline over a module",
		Long: `Run LLVM's default module pass pipeline over textual IR (.ll) or
bitcode (.bc) and write the optimized module.

O0 runs the dedicated no-optimization pipeline. Every other level runs the
standard per-module pipeline. Flags override the values of --config.`,
		Example: `  llvmopt opt -O3 input.ll
  llvmopt opt --level 'default<Oz>' --emit bitcode -o out.bc input.ll
  llvmopt opt --target host --emit assembly input.ll`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpt(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Level, "level", "O", "", "optimization level (O0, O1, O2, O3, Os, Oz) [default O2]")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout, or <input>.bc / <input>.o for binary formats)")
	cmd.Flags().StringVar(&opts.Emit, "emit", "", "output format (ir|bitcode|assembly|object) [default ir]")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target triple for the target machine, or 'host'")
	cmd.Flags().StringVar(&opts.CPU, "cpu", "", "target CPU")
	cmd.Flags().StringVar(&opts.Features, "features", "", "target features, e.g. +avx2,-sse4a")
	cmd.Flags().BoolVar(&opts.NoVerify, "no-verify", false, "do not verify the module before and after the pipeline")
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML file describing the run")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "run again whenever the input changes")

	return cmd
}

// resolveConfig loads --config, if any, and applies the flags over it.
func resolveConfig(opts *OptOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			d, _ := diagnose(err)
			printDiagnostic(cmd.ErrOrStderr(), opts.Config, d)
			return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
		}
		cfg = loaded
	}

	// -O2 reaches us as "2".
	if len(opts.Level) == 1 {
		opts.Level = "O" + opts.Level
	}

	if opts.Level != "" {
		if _, err := grammar.ParseLevel(opts.Level); err != nil {
			grammar.ReportLevelError(cmd.ErrOrStderr(), opts.Level, err)
			return nil, WrapExitError(ExitCommandError, "invalid optimization level", err)
		}
	}

	overrides := &config.Config{
		Level:  opts.Level,
		Emit:   config.Emit(opts.Emit),
		Output: opts.Output,
		Target: config.Target{
			Triple:   opts.Target,
			CPU:      opts.CPU,
			Features: opts.Features,
		},
	}
	if opts.NoVerify {
		verify := false
		overrides.Verify = &verify
	}
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		d, _ := diagnose(err)
		printDiagnostic(cmd.ErrOrStderr(), "", d)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	return cfg, nil
}

func runOpt(rootOpts *RootOptions, opts *OptOptions, input string, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return err
	}

	if !cfg.ShouldVerify() {
		printDiagnostic(cmd.ErrOrStderr(), "", diag.Unverified())
	}

	d := driver.New(cfg)
	run := func() error {
		start := time.Now()
		if err := d.Run(input, cmd.OutOrStdout()); err != nil {
			return report(cmd, input, err)
		}

		if rootOpts.Verbose > 0 || opts.Watch {
			fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("Optimized %s at %s in %s", input, cfg.Level, formatDuration(time.Since(start))))
		}
		return nil
	}

	if !opts.Watch {
		return run()
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	log.Infof("watching %s, press Ctrl+C to stop", input)
	if err := driver.Watch(ctx, input, run); err != nil {
		return report(cmd, input, err)
	}
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
