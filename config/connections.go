package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/rdbms/shared"
)

// GetConnectionType returns the type saved for connectionName.
func (c *File) GetConnectionType(connectionName string) (connectionType string, err error) {
	if strings.ToLower(connectionName) == constants.ConnectionTypeStdout { // if the connection name is special stdout...
		return constants.ConnectionTypeStdout, nil
	}
	d, err := c.LoadConnection(connectionName)
	if err != nil {
		return "", err
	}
	return d.Type, nil
}

// LoadConnection fetches the connection details saved under connectionName.
// An error is returned if the connection is not found or has no type.
func (c *File) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d := shared.ConnectionDetails{}
	if err := c.Get(connectionName, &d); err != nil {
		var k KeyNotFoundError
		if errors.As(err, &k) {
			return d, fmt.Errorf("connection %q is not configured: use 'config connections add' to create it", connectionName)
		}
		return d, err
	}
	if d.Type == "" {
		return d, fmt.Errorf("unknown type for connection %q", connectionName)
	}
	return d, nil
}
