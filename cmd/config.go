package cmd

import (
	"fmt"

	"github.com/relloyd/costpipe/config"
	c "github.com/relloyd/costpipe/constants"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage connections and flag defaults",
	Long: fmt.Sprintf(`Manage the named connections used by run, extract, serve and schedule,
and the default flag values those commands pick up.

Connections live in %q.
Defaults live in %q.

In 12 factor mode neither file is read: use %v_<NAME>_DSN and %v_<FLAG> instead.`,
		config.Connections.FullPath, config.Main.FullPath, c.EnvVarPrefix, c.EnvVarPrefix),
}

func init() {
	rootCmd.AddCommand(configCmd)
}
