package cmd

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/relloyd/costpipe/actions"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version and supported connection types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "version\t%v\n", version)
		fmt.Fprintf(w, "build date\t%v\n", buildDate)
		fmt.Fprintf(w, "go\t%v %v/%v\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(w, "connections\t%v\n", actions.GetSupportedConnectionTypes())
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
