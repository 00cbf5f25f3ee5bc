// Package coerce converts loosely-typed source values into nullable typed
// values. Every conversion is total: bad input becomes nil, never an error.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// missing reports whether a trimmed string is one of the null markers that
// show up in exported data.
func missing(s string) bool {
	switch s {
	case "", "NaN", "nan", "NAN", "NA", "null", "NULL", "None":
		return true
	}
	return false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		s = strings.TrimSpace(s)
		if missing(s) {
			return "", false
		}
		return s, true
	case float64:
		if math.IsNaN(s) {
			return "", false
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		out := strings.TrimSpace(fmt.Sprint(v))
		if missing(out) {
			return "", false
		}
		return out, true
	}
}

// ToInt converts a value to an integer. Numeric strings carrying a decimal
// point (a trailing ".0" from spreadsheet exports) are parsed as floats and
// truncated toward the float's integer value.
func ToInt(v any) *int64 {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int64(f)
	return &n
}

func ToFloat(v any) *float64 {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ToStr returns the trimmed string form of a value, nil for empty or missing.
func ToStr(v any) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	return &s
}

// ToDate returns a date string. ISO timestamps are truncated at the time
// separator so "2025-07-01T13:30:00" becomes "2025-07-01".
func ToDate(v any) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	return &s
}

// ToJSON serializes a nested value to its canonical JSON form, for columns
// stored as opaque structured blobs. Absent values and empty containers become
// nil rather than "[]"/"{}" sentinels.
func ToJSON(v any) *string {
	if v == nil {
		return nil
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return nil
		}
	case reflect.String:
		if _, ok := asString(v); !ok {
			return nil
		}
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(out)
	return &s
}
