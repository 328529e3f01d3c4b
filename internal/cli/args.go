package cli

import (
	"github.com/spf13/cobra"

	diag "llvmopt/internal/errors"
	"llvmopt/internal/driver"
)

// NewArgsCommand creates the args command.
func NewArgsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "args <input> <function>",
		Short: "Show the argument index of a function's parameters",
		Long: `Show the zero-based argument index of each parameter of a function,
then the argument index of every operand in its entry block. Operands that
are not arguments of the function are shown as '-'.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArgs(args[0], args[1], cmd)
		},
	}
}

func runArgs(input, name string, cmd *cobra.Command) error {
	u, err := driver.New(nil).Load(input)
	if err != nil {
		return report(cmd, input, err)
	}
	defer u.Dispose()

	fn := u.Module.NamedFunction(name)
	if fn.IsNil() {
		var names []string
		for _, f := range u.Module.Functions() {
			names = append(names, f.Name())
		}
		d := diag.UndefinedFunction(name, names)
		printDiagnostic(cmd.ErrOrStderr(), input, d)
		return WrapExitError(ExitFailure, d.Message, d)
	}

	driver.WriteArguments(cmd.OutOrStdout(), fn)

	if fn.IsDeclaration() {
		printDiagnostic(cmd.ErrOrStderr(), "", diag.DeclarationOnly(name))
	}
	return nil
}
