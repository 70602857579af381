package file

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	h "github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/table"
	"gopkg.in/yaml.v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath chooses the output format from the extension of p.
// A trailing .gz means the output should be gzipped and the extension before it decides the format.
func FormatForPath(p string) (f Format, useGzip bool) {
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, ".gz") {
		useGzip = true
		lower = strings.TrimSuffix(lower, ".gz")
	}
	switch filepath.Ext(lower) {
	case ".json":
		f = FormatJSON
	case ".yaml", ".yml":
		f = FormatYAML
	default:
		f = FormatCSV
	}
	return
}

// ContentType returns the MIME type of the data EncodeTable produces for p.
func ContentType(p string) string {
	f, useGzip := FormatForPath(p)
	if useGzip {
		return "application/gzip"
	}
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/x-yaml"
	}
	return "text/csv"
}

// WriteTable writes t to w in format f, optionally gzipped.
func WriteTable(w io.Writer, t *table.Table, f Format, useGzip bool) (err error) {
	var gzWriter *gzip.Writer
	if useGzip { // if we should compress the output...
		gzWriter = gzip.NewWriter(w)
		w = gzWriter
		defer func() {
			if e := gzWriter.Close(); e != nil && err == nil {
				err = e
			}
		}()
	}
	bw := bufio.NewWriter(w)
	switch f {
	case FormatJSON:
		err = writeJSON(bw, t)
	case FormatYAML:
		err = writeYAML(bw, t)
	default:
		err = writeCSV(bw, t)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// EncodeTable returns t encoded for output path p.
func EncodeTable(p string, t *table.Table) ([]byte, error) {
	f, useGzip := FormatForPath(p)
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, t, f, useGzip); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTableToFile writes t to the OS file at p, creating parent directories as needed.
func WriteTableToFile(log logger.Logger, p string, t *table.Table) (err error) {
	if err = os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, "unable to create directory for %v", p)
	}
	fh, err := os.Create(p)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %v", p)
	}
	defer func() {
		if e := fh.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "unable to close file %v", p)
		}
	}()
	f, useGzip := FormatForPath(p)
	if err = WriteTable(fh, t, f, useGzip); err != nil {
		return errors.Wrapf(err, "unable to write file %v", p)
	}
	log.Info("Saved ", t.NumRows(), " rows to ", p, " (", f, " format)")
	return nil
}

func writeCSV(w io.Writer, t *table.Table) error {
	c := csv.NewWriter(w)
	if err := c.Write(t.Columns()); err != nil {
		return err
	}
	for idx := 0; idx < t.NumRows(); idx++ {
		if err := c.Write(h.InterfaceToString(t.Row(idx))); err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}

// JSONValue converts database values into something that marshals cleanly.
func JSONValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// writeJSON writes an indented array of records with keys in column order.
func writeJSON(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	keys := make([][]byte, len(cols))
	for idx, c := range cols {
		b, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[idx] = b
	}
	buf := &bytes.Buffer{}
	buf.WriteString("[")
	for i := 0; i < t.NumRows(); i++ { // for each row...
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for idx, v := range t.Row(i) { // for each value...
			if idx > 0 {
				buf.WriteString(",")
			}
			b, err := json.Marshal(JSONValue(v))
			if err != nil {
				return errors.Wrapf(err, "unable to encode column %v", cols[idx])
			}
			buf.WriteString("\n    ")
			buf.Write(keys[idx])
			buf.WriteString(": ")
			buf.Write(b)
		}
		buf.WriteString("\n  }")
		if buf.Len() > 64*1024 { // flush large buffers as we go.
			if _, err := w.Write(buf.Bytes()); err != nil {
				return err
			}
			buf.Reset()
		}
	}
	if t.NumRows() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// writeYAML writes a list of mappings with keys in column order.
func writeYAML(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	records := make([]yaml.MapSlice, t.NumRows())
	for i := range records {
		row := t.Row(i)
		m := make(yaml.MapSlice, len(cols))
		for idx, c := range cols {
			m[idx] = yaml.MapItem{Key: c, Value: JSONValue(row[idx])}
		}
		records[i] = m
	}
	b, err := yaml.Marshal(records)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
