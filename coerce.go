package framesql

import (
	"math"
	"time"
)

// coerceValue normalizes a single cell into a SQL-bindable scalar or nil.
// Missing markers (nil, NaN floats, the Missing sentinel) become nil, so the
// driver binds NULL. Timestamps become ISO-8601 text; the value's own offset
// is kept verbatim, no timezone conversion happens. Everything else passes
// through unchanged and the driver decides whether it is bindable.
func coerceValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case missingValue:
		return nil
	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return val
	case float32:
		if math.IsNaN(float64(val)) {
			return nil
		}
		return val
	case time.Time:
		return isoTimestamp(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return isoTimestamp(*val)
	default:
		return v
	}
}

// isoTimestamp renders a timestamp as ISO-8601 text. Sub-second precision is
// kept only when present, matching the usual isoformat() output.
func isoTimestamp(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02T15:04:05.999999999Z07:00")
	}
	return t.Format(time.RFC3339)
}
