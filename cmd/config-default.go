package cmd

import (
	"fmt"
	"sort"

	"github.com/relloyd/costpipe/actions"
	"github.com/relloyd/costpipe/config"
	"github.com/spf13/cobra"
)

var (
	defaultAddCfg    = actions.DefaultAddConfig{}
	defaultRemoveCfg = actions.DefaultRemoveConfig{}
)

var defaultCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Set default values for command flags",
	Long: fmt.Sprintf(`Set default values for command flags, for example the target schema or batch size.
A default is used whenever the flag is not given on the command line.

Defaults are stored in %q.`, config.Main.FullPath),
}

var defaultAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a flag default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if !switches.hasFlagName(defaultAddCfg.Key) {
			return fmt.Errorf("unknown flag %q, expected one of: %v", defaultAddCfg.Key, switches.flagNames())
		}
		defaultAddCfg.ConfigFile = config.Main
		defaultAddCfg.Output = cmd.OutOrStdout()
		return actions.RunDefaultAdd(&defaultAddCfg)
	},
}

var defaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all flag defaults as key=value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunDefaultList(config.Main, cmd.OutOrStdout())
	},
}

var defaultRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a flag default",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		defaultRemoveCfg.ConfigFile = config.Main
		defaultRemoveCfg.Output = cmd.OutOrStdout()
		return actions.RunDefaultRemove(&defaultRemoveCfg)
	},
}

func init() {
	configCmd.AddCommand(defaultCmd)
	defaultCmd.AddCommand(defaultAddCmd, defaultListCmd, defaultRemoveCmd)
	defaultAddCmd.Flags().SortFlags = false
	defaultAddCmd.Flags().StringVarP(&defaultAddCfg.Key, "key", "k", "", "* Name of the flag e.g. batch-size")
	defaultAddCmd.Flags().StringVarP(&defaultAddCfg.Value, "value", "v", "", "* The default value")
	defaultAddCmd.Flags().BoolVarP(&defaultAddCfg.Force, "force", "f", false, "Replace an existing default")
	_ = defaultAddCmd.MarkFlagRequired("key")
	_ = defaultAddCmd.MarkFlagRequired("value")
	defaultRemoveCmd.Flags().StringVarP(&defaultRemoveCfg.Key, "key", "k", "", "* Name of the flag")
	_ = defaultRemoveCmd.MarkFlagRequired("key")
}

// hasFlagName reports whether name is the long name of a registered flag, and so can carry a default.
func (f cliFlags) hasFlagName(name string) bool {
	for _, s := range f {
		if s.name == name {
			return true
		}
	}
	return false
}

// flagNames returns the sorted, distinct long names of all registered flags except mock.
func (f cliFlags) flagNames() []string {
	seen := make(map[string]struct{}, len(f))
	names := make([]string, 0, len(f))
	for _, s := range f {
		if _, ok := seen[s.name]; ok || s.name == "mock" {
			continue
		}
		seen[s.name] = struct{}{}
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names
}
