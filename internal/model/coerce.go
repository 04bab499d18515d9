package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayouts are tried in order when parsing date strings.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Coerce converts edit input to the column's value type.
//
//	number:  float64, empty or unparsable input is nil
//	boolean: bool from a bool, "true"/"yes"/"1"/"x" style text
//	others:  the raw string
func Coerce(t ColumnType, input any) any {
	switch t {
	case TypeNumber:
		return coerceNumber(input)
	case TypeBoolean:
		return coerceBool(input)
	default:
		if s, ok := input.(string); ok {
			return s
		}
		if input == nil {
			return ""
		}
		return Stringify(input)
	}
}

func coerceNumber(input any) any {
	if f, ok := ToFloat(input); ok {
		return f
	}
	return nil
}

func coerceBool(input any) bool {
	switch v := input.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1", "x", "on", "[x]":
			return true
		}
		return false
	case nil:
		return false
	default:
		f, ok := ToFloat(v)
		return ok && f != 0
	}
}

// ToFloat converts numeric values and numeric strings to float64.
// Empty strings, NaN and non-numeric values report false.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseDate converts time values, epoch milliseconds and date strings to a
// time. Unparsable input reports false.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range DateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		if ms, ok := ToFloat(v); ok {
			return time.UnixMilli(int64(ms)).UTC(), true
		}
		return time.Time{}, false
	}
}

// Stringify renders a value as plain text for display, filtering and
// export. nil is the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return Stringify(*t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsNull reports whether v counts as a missing value for sorting.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *time.Time:
		return t == nil
	case float64:
		return math.IsNaN(t)
	}
	return false
}
