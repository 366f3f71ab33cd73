package normalization

import (
	"strconv"
	"strings"
)

// AsString trims string values and renders numeric identifiers without a fraction.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsInt coerces JSON numbers and numeric strings into ints.
func AsInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	case int:
		return typed
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return parsed
		}
	}
	return 0
}

// AsBool accepts booleans and the textual forms the REST layer emits.
func AsBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	case float64:
		return typed != 0
	default:
		return false
	}
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// AsMap returns value as an object or nil.
func AsMap(value any) map[string]any {
	typed, _ := value.(map[string]any)
	return typed
}

// MapFromPayload unwraps {"data": {...}} envelopes into a plain map.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}

// ItemsFromPayload returns the list held by value, either a bare array or the first of
// keys present on an object envelope.
func ItemsFromPayload(value any, keys ...string) []any {
	if items := AsInterfaceSlice(value); items != nil {
		return items
	}
	envelope := MapFromPayload(value)
	for _, key := range keys {
		if items := AsInterfaceSlice(envelope[key]); items != nil {
			return items
		}
	}
	return nil
}
