package actions

import (
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/rdbms/shared"
)

type ConnectionLoader interface {
	LoadConnection(connectionName string) (shared.ConnectionDetails, error)
}

type ConnectionGetterSetter interface {
	Get(key string, out interface{}) error
	Set(key string, val interface{}) error
	Delete(key string) error
}

type ConnectionLister interface {
	GetAllKeys() ([]string, error)
	LoadConnection(connectionName string) (shared.ConnectionDetails, error)
}

// ConnectionValidator is satisfied by the connection details accepted by RunConnectionAdd.
type ConnectionValidator interface {
	GetMap(m map[string]string) map[string]string
	GetScheme() (string, error)
}

// RunNotifier is told about the outcome of every cost by equipment run.
type RunNotifier interface {
	NotifyRun(s costbyeq.Summary, runErr error) error
	Close()
}
