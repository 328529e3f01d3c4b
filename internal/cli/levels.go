package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"llvmopt/internal/llvm"
)

// NewLevelsCommand creates the levels command.
func NewLevelsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "levels",
		Short:         "List the optimization levels",
		Long:          "List the six optimization levels with their ordinal, pipeline name and the speedup and size knobs LLVM derives from them.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeLevels(cmd.OutOrStdout())
			return nil
		},
	}
}

const levelsRow = "%-8s %-5s %-12s %-8s %s\n"

func writeLevels(w io.Writer) {
	fmt.Fprintf(w, levelsRow, "ORDINAL", "NAME", "PIPELINE", "SPEEDUP", "SIZE")
	for _, level := range llvm.OptimizationLevels() {
		backend := level.BackendLevel()
		fmt.Fprintf(w, levelsRow,
			strconv.Itoa(int(level)),
			level.String(),
			level.Pipeline(),
			strconv.Itoa(backend.Speedup),
			strconv.Itoa(backend.Size))
	}
}
