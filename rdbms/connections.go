package rdbms

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms/shared"
	"github.com/xo/dburl"
)

// supportedDsnConnectionTypes is a map where keys are the supported connections based on values in module constants.
// Snowflake connections are handled explicitly so do not need to be here.
var supportedDsnConnectionTypes = map[string]struct{}{
	constants.ConnectionTypeSqlServer: {},
	constants.ConnectionTypeMsSql:     {},
	constants.ConnectionTypePostgres:  {},
	constants.ConnectionTypeSqlite:    {},
}

// isSupportedConnection returns true if it can look up the supplied connection type t in map of supported
// connections supportedDsnConnectionTypes.
func isSupportedConnection(connectionType string) bool {
	_, ok := supportedDsnConnectionTypes[connectionType]
	return ok
}

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch {
	case c.Type == constants.ConnectionTypeSnowflake:
		db, err = newSnowflakeConnection(log, shared.GetDsnConnectionDetails(&c))
	case isSupportedConnection(c.Type):
		db, err = newConnectionWithDsn(log, shared.GetDsnConnectionDetails(&c))
	default: // else we have an unsupported database...
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}

// ConnectionTypeFromDsn returns the connection type implied by the scheme of dsn.
func ConnectionTypeFromDsn(dsn string) (string, error) {
	u, err := dburl.Parse(dsn)
	if err != nil {
		return "", errors.Wrap(err, "error parsing DSN")
	}
	t, _ := typeAndDriver(u)
	if t != constants.ConnectionTypeSnowflake && !isSupportedConnection(t) {
		return "", fmt.Errorf("unsupported database type, %q", u.OriginalScheme)
	}
	return t, nil
}

// typeAndDriver returns the connection type and database/sql driver name for u.
// dburl reports Driver "mssql" for every SQL Server scheme, so the scheme the DSN was written with decides:
// mssql:// keeps the legacy driver and its '?' binds; sqlserver:// and ms:// use the sqlserver driver with @pN binds.
func typeAndDriver(u *dburl.URL) (dbType string, driver string) {
	scheme := strings.ToLower(u.OriginalScheme)
	if i := strings.IndexAny(scheme, "+:"); i >= 0 {
		scheme = scheme[:i]
	}
	switch {
	case scheme == constants.ConnectionTypeMsSql:
		return constants.ConnectionTypeMsSql, constants.ConnectionTypeMsSql
	case scheme == constants.ConnectionTypeSqlServer, scheme == "ms",
		u.Driver == constants.ConnectionTypeMsSql, u.Driver == constants.ConnectionTypeSqlServer:
		return constants.ConnectionTypeSqlServer, constants.ConnectionTypeSqlServer
	}
	return shared.GetDialect(u.Driver).Name, u.Driver
}

func newConnectionWithDsn(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	log.Info("Opening database connection: ", d)
	u, err := d.Parse()
	if err != nil { // if the DSN could not be parsed...
		return nil, err
	}
	dbType, driver := typeAndDriver(u)
	// Open the connection.
	db, err := sql.Open(driver, u.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening connection to %v", d)
	}
	// Test the connection.
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "error connecting to %v", d)
	}
	log.Info("Successful connection to: ", d)
	return shared.NewHpConnection(db, dbType), nil
}
