// Package cli implements the slotaxis command-line interface.
//
// Every command loads an axis config, applies one operation to a fresh axis
// and prints the resulting state as YAML:
//   - snapshot: positioning data and handlers
//   - move: request a relative position for a handler
//   - add: add a handler near an item index
//   - remove: remove a handler
//   - bounds: change min, max or step and re-quantize the handlers
package cli

import (
	"context"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the slotaxis CLI.
func Execute() error {
	return newRootCmd(os.Stderr).ExecuteContext(context.Background())
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "slotaxis",
		Short:        "slotaxis places slider handlers on a quantized axis",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringP("config", "c", "", "axis config file (.yaml, .yml or .toml)")
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newMoveCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newBoundsCmd())

	return root
}
