package constants

// General

const (
	AppName                    = "costpipe"
	TimeFormatYearSeconds      = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	DateFormatISO              = "2006-01-02" // calendar dates written to the destination
	EmojiBang                  = "\U0001F4A5"
	EnvVarPrefix               = "CP" // prefixed for environment variables in twelveFactorMode
)

// Connections

const (
	ConnectionNameSource      = "SOURCE"
	ConnectionNameTarget      = "TARGET"
	ConnectionTypeSqlServer   = "sqlserver"
	ConnectionTypeMsSql       = "mssql" // legacy go-mssqldb driver name which uses '?' binds.
	ConnectionTypePostgres    = "postgres"
	ConnectionTypeSqlite      = "sqlite3"
	ConnectionTypeSnowflake   = "snowflake"
	ConnectionTypeS3          = "s3"
	ConnectionTypeStdout      = "stdout"
	SqlServerDefaultSchema    = "dbo"
	SqlServerMaxBindVariables = 2100
	PostgresMaxBindVariables  = 65535
	SqliteMaxBindVariables    = 32766
	SnowflakeMaxBindVariables = 16384
	SqlServerMaxRowsPerInsert = 1000 // row value expressions allowed in one INSERT ... VALUES
)

// Cost by equipment pipeline

const (
	CostByEqDefaultTable        = "cost_by_eq"
	CostByEqDefaultBatchSize    = 1000
	CostByEqNotifySubject       = "costpipe.runs.cost_by_eq"
	ExtractTableDefaultRowLimit = 1000
)

// Actions

const (
	ActionFuncsCommandRun         = "run"
	ActionFuncsCommandExtract     = "extract"
	ActionFuncsSubCommandCostByEq = "cost-by-eq"
)
