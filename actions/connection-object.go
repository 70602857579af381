package actions

import (
	"strings"
	"sync"

	"github.com/relloyd/costpipe/rdbms"
)

// ConnectionObject should be constructed with public property ConnectionObject set using format:
// <connection>.[<schema>.]<table>
type ConnectionObject struct {
	ConnectionObject string `errorTxt:"<connection>.[<schema>.]<table>" mandatory:"yes"`
	connection       string
	object           string
	done             bool
	mu               sync.Mutex
}

func (c *ConnectionObject) GetConnectionName() string {
	c.splitConnectString()
	return c.connection
}

// GetObject returns everything after the connection name, including any schema.
func (c *ConnectionObject) GetObject() string {
	c.splitConnectString()
	return c.object
}

func (c *ConnectionObject) GetSchemaTable() rdbms.SchemaTable {
	return rdbms.SchemaTable{SchemaTable: c.GetObject()}
}

// splitConnectString splits on the first period only so quoted or schema qualified objects stay intact.
// Without a period the whole string is the connection.
func (c *ConnectionObject) splitConnectString() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	if i := strings.Index(c.ConnectionObject, "."); i > 0 {
		c.connection = c.ConnectionObject[:i]
		c.object = c.ConnectionObject[i+1:]
	} else {
		c.connection = c.ConnectionObject
	}
	c.done = c.ConnectionObject != ""
}
