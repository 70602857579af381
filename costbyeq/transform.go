package costbyeq

import (
	"errors"
	"strings"

	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/table"
)

// OutputColumns are the columns of the transformed table, in order.
var OutputColumns = []string{
	"date",
	"year",
	"month",
	"site_no",
	"wo_count",
	"eq_no",
	"eq_code",
	"eq_name",
	"mh_cost",
	"sparepart_cost",
	"outsource_cost",
	"main_cost",
	"wo_type_group_no",
}

var renameMap = map[string]string{
	"eqno":          "eq_no",
	"eqname":        "eq_name",
	"eqcode":        "eq_code",
	"siteno":        "site_no",
	"wotypegroupno": "wo_type_group_no",
	"mhcost":        "mh_cost",
	"sparepartcost": "sparepart_cost",
	"outsourcecost": "outsource_cost",
	"maincost":      "main_cost",
	"wodate":        "wodate",
}

var numericColumns = []string{
	"year",
	"month",
	"site_no",
	"wo_count",
	"eq_no",
	"mh_cost",
	"sparepart_cost",
	"outsource_cost",
	"main_cost",
	"wo_type_group_no",
}

var textColumns = []string{"date", "eq_code", "eq_name"}

const workOrderDateColumn = "wodate"

// Transform reshapes extracted rows into the destination layout.
// An empty input is returned unchanged. The input table is not modified.
func Transform(log logger.Logger, in *table.Table) (*table.Table, error) {
	if in.IsEmpty() {
		log.Warn("No rows returned from source; skipping transformations")
		return in, nil
	}
	out := in.Clone()
	out.Rename(func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	out.RenameWithMap(renameMap)
	// Derive the date parts.
	wodate, ok := out.Column(workOrderDateColumn)
	if !ok {
		return nil, &SchemaError{Stage: StageTransform, Missing: []string{workOrderDateColumn}}
	}
	n := out.NumRows()
	dates := make([]interface{}, n)
	years := make([]interface{}, n)
	months := make([]interface{}, n)
	for idx, v := range wodate {
		d, ok := toDate(v)
		if !ok { // if the date is null or unparseable...
			continue // leave nils in place.
		}
		dates[idx] = d.Format(constants.DateFormatISO)
		years[idx] = int64(d.Year())
		months[idx] = int64(d.Month())
	}
	for _, c := range []struct {
		name   string
		values []interface{}
	}{{"date", dates}, {"year", years}, {"month", months}} {
		if err := out.SetColumn(c.name, c.values); err != nil {
			return nil, err
		}
	}
	// Collapse numeric columns to whole numbers.
	for _, c := range numericColumns {
		if err := mapColumn(out, c, func(v interface{}) interface{} { return toWholeNumber(v) }); err != nil {
			return nil, err
		}
	}
	for _, c := range textColumns {
		if err := mapColumn(out, c, func(v interface{}) interface{} { return toText(v) }); err != nil {
			return nil, err
		}
	}
	retval, err := out.Select(OutputColumns...)
	if err != nil {
		var mce *table.MissingColumnsError
		if errors.As(err, &mce) {
			return nil, &SchemaError{Stage: StageTransform, Missing: mce.Columns}
		}
		return nil, err
	}
	log.Info("Transformed ", retval.NumRows(), " rows")
	return retval, nil
}

// mapColumn replaces the values of column name with fn applied to each value.
// Missing columns are skipped.
func mapColumn(t *table.Table, name string, fn func(interface{}) interface{}) error {
	src, ok := t.Column(name)
	if !ok {
		return nil
	}
	dst := make([]interface{}, len(src))
	for idx, v := range src {
		dst[idx] = fn(v)
	}
	return t.SetColumn(name, dst)
}
