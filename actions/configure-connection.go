package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/aws/s3"
	"github.com/relloyd/costpipe/config"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/rdbms"
	"github.com/relloyd/costpipe/rdbms/shared"
)

type ConnectionConfig struct {
	ConfigFile  ConnectionGetterSetter
	LogicalName string `errorTxt:"connection name" mandatory:"yes"`
	ConnDetails ConnectionValidator
	Force       bool
	Output      io.Writer
}

// DsnConnection adapts shared.DsnConnectionDetails so the connection type is taken from the DSN scheme.
type DsnConnection struct {
	shared.DsnConnectionDetails
}

func (d *DsnConnection) GetScheme() (string, error) {
	return rdbms.ConnectionTypeFromDsn(d.Dsn)
}

// S3Connection describes a bucket using a DSN of the form s3://<bucket>/<prefix> and a region.
type S3Connection struct {
	Dsn    string `errorTxt:"s3://<bucket>/<prefix>" mandatory:"yes"`
	Region string `errorTxt:"bucket region" mandatory:"yes"`
	bucket s3.AwsS3Bucket
}

func (c *S3Connection) GetScheme() (string, error) {
	b, err := s3.ParseDSN(c.Dsn, c.Region)
	if err != nil {
		return "", err
	}
	c.bucket = b
	return constants.ConnectionTypeS3, nil
}

func (c *S3Connection) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m["name"] = c.bucket.Name
	m["prefix"] = c.bucket.Prefix
	m["region"] = c.bucket.Region
	return m
}

// BucketFromConnection converts saved S3 connection details back into a bucket.
func BucketFromConnection(d shared.ConnectionDetails) (s3.AwsS3Bucket, error) {
	if d.Type != constants.ConnectionTypeS3 {
		return s3.AwsS3Bucket{}, fmt.Errorf("connection %q must be of type %v, got %q", d.LogicalName, constants.ConnectionTypeS3, d.Type)
	}
	b := s3.AwsS3Bucket{Name: d.Data["name"], Prefix: d.Data["prefix"], Region: d.Data["region"]}
	if err := helper.ValidateStructIsPopulated(b); err != nil {
		return b, errors.Wrapf(err, "invalid bucket for connection %q", d.LogicalName)
	}
	return b, nil
}

func RunConnectionAdd(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if cfg.ConnDetails == nil {
		return errors.New("please supply connection details")
	}
	// Validate connection name.
	if strings.Contains(cfg.LogicalName, ".") {
		return fmt.Errorf("connection name cannot contain period characters '.' as they're used to split data sources e.g. <connection>.[<schema>.]<table>")
	}
	connType, err := cfg.ConnDetails.GetScheme()
	if err != nil {
		return errors.Wrap(err, "unable to create connection")
	}
	if !IsSupportedConnectionType(connType) {
		return fmt.Errorf("%v is an unsupported connection type, please use one of these: %v", connType, GetSupportedConnectionTypes())
	}
	connection := shared.ConnectionDetails{
		LogicalName: cfg.LogicalName,
		Type:        connType,
		Data:        cfg.ConnDetails.GetMap(make(map[string]string)),
	}
	// Check for an existing saved connection.
	tmpConn := shared.ConnectionDetails{}
	err = cfg.ConfigFile.Get(cfg.LogicalName, &tmpConn)
	if err == nil && !cfg.Force { // if the connection exists, but we are not allowed to overwrite it...
		return fmt.Errorf("connection exists, use force to update the connection or remove it first")
	} else if err != nil {
		var k config.KeyNotFoundError
		var f config.FileNotFoundError
		if !errors.As(err, &k) && !errors.As(err, &f) { // if the error is real...
			return err
		}
	}
	// Set config (creates the file if missing).
	if err = cfg.ConfigFile.Set(cfg.LogicalName, &connection); err != nil {
		return errors.Wrap(err, "error writing connections config file after adding")
	}
	fmt.Fprintf(outputOrStdout(cfg.Output), "Connection %q added\n", cfg.LogicalName)
	return nil
}

func RunConnectionRemove(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if err := cfg.ConfigFile.Delete(cfg.LogicalName); err != nil {
		return fmt.Errorf("unable to delete connection %q from config: %v", cfg.LogicalName, err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Output), "Connection %q removed\n", cfg.LogicalName)
	return nil
}

// RunConnectionList prints every saved connection with passwords redacted.
func RunConnectionList(c ConnectionLister, w io.Writer) error {
	keys, err := c.GetAllKeys()
	if err != nil {
		return err
	}
	w = outputOrStdout(w)
	for _, k := range keys { // for each connection...
		conn, err := c.LoadConnection(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v:\n%v\n", k, conn)
	}
	return nil
}

func outputOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
