package actions

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/aws/s3"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/file"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/table"
)

type ExtractTableConfig struct {
	Connections      ConnectionLoader
	SourceString     ConnectionObject
	Output           string // file path, s3://<bucket>/<key> or stdout; defaults to <table>.json
	RowLimit         int    // 0 applies the default and a negative value fetches all rows
	Filter           string // JSON Logic rule, or a file or s3 URL containing one
	S3Region         string
	S3ClientFactory  func(bucket s3.AwsS3Bucket) (s3.BasicClient, error)
	LogLevel         string
	StackDumpOnPanic bool
	Log              logger.Logger
}

type ExtractResult struct {
	Table   string   `json:"table"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Output  string   `json:"output"`
}

func defaultS3ClientFactory(b s3.AwsS3Bucket) (s3.BasicClient, error) {
	return s3.NewBasicClient(b.Name, b.Region, "")
}

// RunExtractTable reads one table from the source connection and saves it to a file, S3 or stdout.
func RunExtractTable(ctx context.Context, cfg *ExtractTableConfig) (ExtractResult, error) {
	res := ExtractResult{}
	if cfg.Connections == nil {
		return res, errors.New("no connection loader supplied")
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return res, err
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewLogger(constants.AppName, logLevelOrDefault(cfg.LogLevel, "info"), cfg.StackDumpOnPanic)
	}
	newClient := cfg.S3ClientFactory
	if newClient == nil {
		newClient = defaultS3ClientFactory
	}
	region := cfg.S3Region
	if region == "" {
		region = helper.ReadValueFromEnvWithDefault("AWS_REGION", "")
	}
	object := cfg.SourceString.GetObject()
	if object == "" {
		return res, errors.New("please supply a table name as <connection>.[<schema>.]<table>")
	}
	st := cfg.SourceString.GetSchemaTable()
	res.Table = st.GetTableName()
	// Resolve the filter before touching the database.
	var filter *RowFilter
	if cfg.Filter != "" {
		rule, err := LoadFilterRule(ctx, cfg.Filter, func(b s3.AwsS3Bucket) (s3.Getter, error) {
			return newClient(b)
		}, region)
		if err != nil {
			return res, err
		}
		if filter, err = NewRowFilter(rule); err != nil {
			return res, err
		}
	}
	conn, err := cfg.Connections.LoadConnection(cfg.SourceString.GetConnectionName())
	if err != nil {
		return res, err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return res, err
	}
	defer db.Close()
	limit := cfg.RowLimit
	if limit == 0 {
		limit = constants.ExtractTableDefaultRowLimit
	}
	sql := db.GetDialect().SelectAllSql(st.Qualify(db.GetDialect()), limit)
	log.Debug("extract query: ", sql)
	t, err := rdbms.QueryTable(ctx, log, db, sql)
	if err != nil {
		return res, errors.Wrapf(err, "unable to extract table %v", object)
	}
	if filter != nil {
		if t, err = filter.Apply(t); err != nil {
			return res, err
		}
	}
	res.Rows = t.NumRows()
	res.Columns = t.Columns()
	res.Output = cfg.Output
	if res.Output == "" {
		res.Output = res.Table + ".json"
	}
	switch {
	case strings.ToLower(res.Output) == constants.ConnectionTypeStdout || res.Output == "-":
		f, useGzip := file.FormatForPath(res.Table + ".json")
		err = file.WriteTable(os.Stdout, t, f, useGzip)
	case s3.IsURL(res.Output):
		err = putTableToS3(ctx, log, newClient, res.Output, region, t)
	default:
		err = file.WriteTableToFile(log, filepath.Clean(res.Output), t)
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

func putTableToS3(ctx context.Context, log logger.Logger, newClient func(s3.AwsS3Bucket) (s3.BasicClient, error), url string, region string, t *table.Table) error {
	b, err := s3.ParseDSN(url, region)
	if err != nil {
		return err
	}
	if b.Prefix == "" {
		return errors.Errorf("missing object key in %v", url)
	}
	data, err := file.EncodeTable(b.Prefix, t)
	if err != nil {
		return errors.Wrapf(err, "unable to encode table for %v", url)
	}
	c, err := newClient(b)
	if err != nil {
		return err
	}
	if err = c.Put(ctx, b.Prefix, data, file.ContentType(b.Prefix)); err != nil {
		return errors.Wrapf(err, "unable to upload %v", url)
	}
	log.Info("Saved ", t.NumRows(), " rows to ", url)
	return nil
}
