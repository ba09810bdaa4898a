package stor

import (
	"fmt"
	"strconv"
	"time"
)

// The central database hands back driver-dependent types: DECIMAL and JSON
// columns arrive as []byte, timestamps as time.Time, booleans as int64. The
// mirror stores text and floats, so fetched values get normalized here.
// Normalization is best-effort; the remote schema is assumed structurally
// compatible with the mirror.

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case int64:
		return int(t)
	case []byte:
		n, _ := strconv.Atoi(string(t))
		return n
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}

func asIntPtr(v interface{}) *int {
	if v == nil {
		return nil
	}
	n := asInt(v)
	return &n
}
