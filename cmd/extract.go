package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/relloyd/costpipe/actions"
	c "github.com/relloyd/costpipe/constants"
	"github.com/spf13/cobra"
)

const extractArgsDefinitionTxt = "<connection>.[<schema>.]<table>"

var extractCmd = &cobra.Command{
	Use:   c.ActionFuncsCommandExtract + " " + extractArgsDefinitionTxt,
	Short: "Extract a single table to a file, S3 or STDOUT",
	Long: `Extract rows from one table of a configured connection.
The output format follows the file extension: .json writes an array of records,
.csv writes a header plus rows and .yaml writes a list of records.
Use s3://<bucket>/<key> to upload the result or "stdout" to print JSON.
Rows may be filtered with a JSON Logic rule supplied inline or via a file.`,
	Args: getConnectionArgsFunc(&extractCfg.SourceString, "requires one "+extractArgsDefinitionTxt),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		res, err := runExtract(ctx)
		if err != nil {
			return err
		}
		// Keep STDOUT free for the rows themselves.
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, string(b))
		return nil
	},
}

var extractCfg = actions.ExtractTableConfig{}

func runExtract(ctx context.Context) (actions.ExtractResult, error) {
	extractCfg.Connections = getConnectionLoader()
	extractCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunExtractTable(ctx, &extractCfg)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().SortFlags = false
	switches.addFlag(extractCmd, &extractCfg.Output, "output", "", false, "")
	switches.addFlag(extractCmd, &extractCfg.RowLimit, "row-limit", strconv.Itoa(c.ExtractTableDefaultRowLimit), false, "")
	switches.addFlag(extractCmd, &extractCfg.Filter, "filter", "", false, "")
	switches.addFlag(extractCmd, &extractCfg.S3Region, "s3-region", "", false, "")
	switches.addFlag(extractCmd, &extractCfg.LogLevel, "log-level", "warn", false, "")
}
