package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionVerbose {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		return nil
	},
}

var versionVerbose bool

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "Print every build detail")
}
