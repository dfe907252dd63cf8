package content

import (
	"reflect"
	"strings"
)

// IsPresent reports whether a stored value should win a lookup. Nil, empty
// strings, false and numeric zero are absent; empty lists and empty objects
// count as present.
func IsPresent(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	case bool:
		return typed
	}
	if isNumber(value) {
		return !isZeroNumber(value)
	}
	return true
}

// HasData reports whether a value carries user data: a non-blank string, a
// non-empty list, an object with keys, true, or a non-zero number.
func HasData(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case bool:
		return typed
	case map[string]any:
		return len(typed) > 0
	case Content:
		return len(typed) > 0
	case TableRow:
		return len(typed) > 0
	}
	if isNumber(value) {
		return !isZeroNumber(value)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return HasData(rv.Elem().Interface())
	case reflect.Struct:
		return !rv.IsZero()
	}
	return true
}

// ListLength returns the number of entries in a list value. Non-list values
// have length zero.
func ListLength(value any) int {
	if value == nil {
		return 0
	}
	if list, ok := value.([]any); ok {
		return len(list)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	}
	return 0
}

// ParseBool reads an explicit flag. Strings accept true/false, 1/0, yes/no
// and on/off. ok is false when the value is not a recognizable flag.
func ParseBool(value any) (flag bool, ok bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

// Section returns the nested object stored under key, if it is one.
func Section(c Content, key string) (map[string]any, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	switch typed := c[key].(type) {
	case map[string]any:
		return typed, true
	case Content:
		return typed, true
	}
	return nil, false
}

// Clone returns a deep copy of the content document.
func Clone(c Content) Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for key, value := range c {
		out[key] = cloneValue(value)
	}
	return out
}

// CloneValue deep-copies a single content value.
func CloneValue(value any) any {
	return cloneValue(value)
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case Content:
		return map[string]any(Clone(typed))
	case TableRow:
		return TableRow(cloneMap(typed))
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(typed))
		for i, item := range typed {
			out[i] = cloneMap(item)
		}
		return out
	default:
		return value
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case interface{ Float64() (float64, error) }:
		return true
	}
	return false
}

func isZeroNumber(value any) bool {
	if number, ok := value.(interface{ Float64() (float64, error) }); ok {
		parsed, err := number.Float64()
		return err == nil && parsed == 0
	}
	return reflect.ValueOf(value).IsZero()
}
