package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llvmopt/internal/driver"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the llvmopt and LLVM versions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "llvmopt %s\n", Version)
			fmt.Fprintf(w, "LLVM %s\n", driver.LLVMVersion())

			if err := driver.CheckVersion(); err != nil {
				fmt.Fprintln(w, color.RedString("unsupported (requires LLVM %s)", driver.SupportedLLVM))
				return report(cmd, "", err)
			}
			fmt.Fprintln(w, color.GreenString("supported (requires LLVM %s)", driver.SupportedLLVM))
			return nil
		},
	}
}
