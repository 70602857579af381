package costbyeq

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	h "github.com/relloyd/costpipe/helper"
)

// toWholeNumber coerces v to a number, rounds half to even and returns it as int64.
// Values that cannot be coerced, NaN, infinities and values outside the int64 range become 0.
func toWholeNumber(v interface{}) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		return floatToWholeNumber(float64(n))
	case uint64:
		return floatToWholeNumber(float64(n))
	case float64:
		return floatToWholeNumber(n)
	case float32:
		return floatToWholeNumber(float64(n))
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		return stringToWholeNumber(n)
	case []byte: // DECIMAL and MONEY values arrive as text.
		return stringToWholeNumber(string(n))
	case time.Time:
		return 0
	case fmt.Stringer:
		return stringToWholeNumber(n.String())
	default:
		return 0
	}
}

func stringToWholeNumber(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil { // if the value is an integer already...
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return floatToWholeNumber(f)
}

func floatToWholeNumber(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	r := math.RoundToEven(f)
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return 0
	}
	return int64(r)
}

// toDate parses a work order date.
// The boolean is false when v is null or cannot be parsed.
func toDate(v interface{}) (time.Time, bool) {
	var s string
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, !d.IsZero()
	case string:
		s = d
	case []byte:
		s = string(d)
	default:
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// toText returns v as a string with nulls replaced by the empty string.
func toText(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		if math.IsNaN(s) {
			return ""
		}
	case float32:
		if math.IsNaN(float64(s)) {
			return ""
		}
	}
	return h.GetStringFromInterface(v, false)
}
