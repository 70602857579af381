package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/relloyd/costpipe/costbyeq"
)

// PrintSummary writes s to stdout as aligned text when stdout is a terminal, else as JSON.
func PrintSummary(s costbyeq.Summary) error {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return WriteSummary(os.Stdout, s, !tty)
}

func WriteSummary(w io.Writer, s costbyeq.Summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(s)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run_id\t%v\n", s.RunID)
	fmt.Fprintf(tw, "rows_extracted\t%v\n", s.RowsExtracted)
	fmt.Fprintf(tw, "rows_loaded\t%v\n", s.RowsLoaded)
	fmt.Fprintf(tw, "destination\t%v\n", s.Destination)
	fmt.Fprintf(tw, "truncate_before_load\t%v\n", s.TruncateBeforeLoad)
	fmt.Fprintf(tw, "duration\t%v\n", s.Duration)
	return tw.Flush()
}
