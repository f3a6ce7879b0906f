package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of uimpit.`,
	Example: `  uimpit version
  uimpit --version`,
	Args: userArgs(cobra.NoArgs),
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "uimpit version %s\n", cmd.Version)
		fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
		fmt.Fprintf(w, "  go:     %s\n", runtime.Version())
	},
}
