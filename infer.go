package framesql

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datetimePattern pairs a shape regex with the layouts it can match, so
// parsing only runs layouts that have a chance.
type datetimePattern struct {
	pattern *regexp.Regexp
	formats []string
}

// datetimePatterns covers the temporal shapes the loaders and ParseDates
// recognize, most common first.
var datetimePatterns = []datetimePattern{
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339Nano, time.RFC3339},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
}

// parseDatetime parses a temporal string, trying each matching layout.
func parseDatetime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if len(value) < len("2006-01-02") {
		return time.Time{}, false
	}
	for _, dp := range datetimePatterns {
		if !dp.pattern.MatchString(value) {
			continue
		}
		for _, format := range dp.formats {
			if t, err := time.Parse(format, value); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// inferKind infers a column kind from raw string values. Empty cells are
// skipped; a column with no non-empty cells is object. A single value that
// fits none of the narrower kinds makes the whole column object.
func inferKind(values []string) Kind {
	kind := Kind("")
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		kind = widenKind(kind, classifyValue(value))
		if kind == KindObject {
			return KindObject
		}
	}
	if kind == "" {
		return KindObject
	}
	return kind
}

// classifyValue determines the narrowest kind a single value fits.
func classifyValue(value string) Kind {
	switch value {
	case "true", "false", "True", "False":
		return KindBool
	}
	if _, ok := parseDatetime(value); ok {
		return KindDatetime
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return KindInt64
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return KindFloat64
	}
	return KindObject
}

// widenKind merges the kind observed so far with the next value's kind.
// Integers widen to floats; everything else mixed becomes object.
func widenKind(current, next Kind) Kind {
	if current == "" || current == next {
		return next
	}
	if (current == KindInt64 && next == KindFloat64) ||
		(current == KindFloat64 && next == KindInt64) {
		return KindFloat64
	}
	return KindObject
}

// parseCell converts a raw string cell into a typed value for the given
// kind. Empty cells become Missing; cells that do not fit the kind pass
// through as text.
func parseCell(value string, kind Kind) any {
	if strings.TrimSpace(value) == "" {
		return Missing
	}
	switch kind {
	case KindInt64:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case KindFloat64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case KindBool:
		switch value {
		case "true", "True":
			return true
		case "false", "False":
			return false
		}
	case KindDatetime:
		if t, ok := parseDatetime(value); ok {
			return t
		}
	}
	return value
}
