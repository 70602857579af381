package actions

import (
	"sort"
	"strings"

	"github.com/relloyd/costpipe/constants"
)

var supportedConnectionTypes = map[string]struct{}{
	constants.ConnectionTypeSqlServer: {},
	constants.ConnectionTypeMsSql:     {},
	constants.ConnectionTypePostgres:  {},
	constants.ConnectionTypeSqlite:    {},
	constants.ConnectionTypeSnowflake: {},
	constants.ConnectionTypeS3:        {},
}

// IsSupportedConnectionType returns true if connections of type t can be saved and used.
func IsSupportedConnectionType(t string) bool {
	_, ok := supportedConnectionTypes[t]
	return ok
}

// GetSupportedConnectionTypes returns a sorted, comma separated list of the supported connection types.
func GetSupportedConnectionTypes() string {
	s := make([]string, 0, len(supportedConnectionTypes))
	for k := range supportedConnectionTypes {
		s = append(s, k)
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
