package shared

import (
	om "github.com/cevaris/ordered_map"
	"github.com/relloyd/costpipe/logger"
)

// DmlGeneratorTxtBatch creates SQL text batches that bind variables using the Dialect.
type DmlGeneratorTxtBatch struct {
	Dialect Dialect
}

type SqlStatementGeneratorConfig struct {
	Log             logger.Logger
	OutputSchema    string
	SchemaSeparator string
	OutputTable     string
	TargetKeyCols   *om.OrderedMap // ordered map of: key = table field name; value = target table column name
	TargetOtherCols *om.OrderedMap // ordered map of: key = table field name; value = target table column name
}

type sqlCoreCfg struct {
	sqlStmt                string
	sqlStmtTemplate        string
	sqlValues              []interface{} // slice to hold data values for all rows in batch
	batchSize              int
	rowsInBatch            int
	previousNumRowsInBatch int
}
