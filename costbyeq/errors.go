package costbyeq

import (
	"fmt"
	"strings"
)

// Stages reported by errors.
const (
	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
)

func formatStageError(stage string, kind string, detail string, cause error) string {
	parts := []string{stage, kind}
	if detail != "" {
		parts = append(parts, detail)
	}
	if cause != nil {
		parts = append(parts, cause.Error())
	}
	return strings.Join(parts, ": ")
}

// ConnectionError is returned when the source or destination cannot be reached.
type ConnectionError struct {
	Stage  string
	Detail string
	Cause  error
}

func (e *ConnectionError) Error() string {
	return formatStageError(e.Stage, "connection error", e.Detail, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// QueryError is returned when the source rejects the aggregation query.
type QueryError struct {
	Stage  string
	Detail string
	Cause  error
}

func (e *QueryError) Error() string {
	return formatStageError(e.Stage, "query error", e.Detail, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// SchemaError is returned when required columns are missing.
type SchemaError struct {
	Stage   string
	Missing []string
	Cause   error
}

func (e *SchemaError) Error() string {
	return formatStageError(e.Stage, "schema error", fmt.Sprintf("missing required columns [%v]", strings.Join(e.Missing, ", ")), e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// WriteError is returned when the destination rejects a truncate, insert or commit.
// Step names the statement that failed e.g. "insert batch 2".
type WriteError struct {
	Stage string
	Step  string
	Table string
	Cause error
}

func (e *WriteError) Error() string {
	return formatStageError(e.Stage, "write error", fmt.Sprintf("%v on %v", e.Step, e.Table), e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
