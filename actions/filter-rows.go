package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/diegoholiveira/jsonlogic"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/aws/s3"
	"github.com/relloyd/costpipe/file"
	"github.com/relloyd/costpipe/table"
)

// RowFilter keeps the rows of a table for which a JSON Logic rule is true.
type RowFilter struct {
	rule string
}

func NewRowFilter(rule []byte) (*RowFilter, error) {
	r := strings.TrimSpace(string(rule))
	if !jsonlogic.IsValid(strings.NewReader(r)) {
		return nil, fmt.Errorf("invalid JSON Logic rule: %v", r)
	}
	return &RowFilter{rule: r}, nil
}

// Apply returns a new table holding the rows of t that pass the rule.
func (f *RowFilter) Apply(t *table.Table) (*table.Table, error) {
	var result bytes.Buffer
	cols := t.Columns()
	return t.Filter(func(i int) (bool, error) {
		row := t.Row(i)
		m := make(map[string]interface{}, len(cols))
		for idx, c := range cols {
			m[c] = file.JSONValue(row[idx])
		}
		data, err := json.Marshal(m)
		if err != nil {
			return false, errors.Wrap(err, "error marshalling data before applying JSON logic")
		}
		result.Reset()
		if err = jsonlogic.Apply(strings.NewReader(f.rule), bytes.NewReader(data), &result); err != nil {
			return false, errors.Wrap(err, "error applying JSON logic")
		}
		return strings.TrimSpace(result.String()) == "true", nil
	})
}

// LoadFilterRule returns the JSON Logic rule described by ruleSource, which is either the rule itself,
// a local .json/.yaml file or an s3://<bucket>/<key> URL fetched with getter.
// YAML rules are converted to JSON.
func LoadFilterRule(ctx context.Context, ruleSource string, getter func(bucket s3.AwsS3Bucket) (s3.Getter, error), region string) ([]byte, error) {
	ruleSource = strings.TrimSpace(ruleSource)
	if strings.HasPrefix(ruleSource, "{") { // if the rule was supplied inline...
		return []byte(ruleSource), nil
	}
	var raw []byte
	var err error
	if s3.IsURL(ruleSource) {
		b, err := s3.ParseDSN(ruleSource, region)
		if err != nil {
			return nil, err
		}
		g, err := getter(b)
		if err != nil {
			return nil, err
		}
		if raw, err = g.Get(ctx, b.Prefix); err != nil {
			return nil, errors.Wrapf(err, "unable to fetch filter rule %v", ruleSource)
		}
	} else if raw, err = ioutil.ReadFile(ruleSource); err != nil {
		return nil, errors.Wrapf(err, "unable to read filter rule file %v", ruleSource)
	}
	switch strings.ToLower(filepath.Ext(ruleSource)) {
	case ".yaml", ".yml":
		j, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to convert filter rule %v to JSON", ruleSource)
		}
		return j, nil
	}
	return raw, nil
}
