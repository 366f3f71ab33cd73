package httputil

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// GenericErrorMessage is shown when a response carries nothing readable.
const GenericErrorMessage = "An unexpected error occurred"

var preferredErrorFields = []string{"detail", "error", "message", "errors"}

var messageCleaner = strings.NewReplacer("'", "", "[", "", "]", "")

// ExtractMessages turns an error response body into user-facing messages.
//
// Array bodies become one joined message. Object bodies use the first non-empty of
// detail, error, message, errors; otherwise one message per field (sorted, status and
// statusCode skipped). A JSON or plain string body is used as-is. When nothing
// readable is found, fallback (or GenericErrorMessage) is returned.
func ExtractMessages(body []byte, fallback string) []string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var payload any
		if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
			if !strings.HasPrefix(trimmed, "<") {
				return []string{formatMessage(trimmed)}
			}
		} else if messages := messagesFromPayload(payload); len(messages) > 0 {
			return messages
		}
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = GenericErrorMessage
	}
	return []string{formatMessage(fallback)}
}

// ExtractMessage joins ExtractMessages into a single line.
func ExtractMessage(body []byte, fallback string) string {
	return strings.Join(ExtractMessages(body, fallback), "; ")
}

func messagesFromPayload(payload any) []string {
	switch typed := payload.(type) {
	case []any:
		if len(typed) == 0 {
			return nil
		}
		return []string{formatMessage(typed)}
	case map[string]any:
		for _, field := range preferredErrorFields {
			if value, ok := typed[field]; ok && truthy(value) {
				return []string{formatMessage(value)}
			}
		}
		fields := make([]string, 0, len(typed))
		for field := range typed {
			if field == "status" || field == "statusCode" {
				continue
			}
			fields = append(fields, field)
		}
		sort.Strings(fields)
		messages := make([]string, 0, len(fields))
		for _, field := range fields {
			if msg := formatMessage(typed[field]); msg != "" {
				messages = append(messages, msg)
			}
		}
		return messages
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return []string{formatMessage(typed)}
	default:
		return nil
	}
}

func formatMessage(value any) string {
	switch typed := value.(type) {
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, messageCleaner.Replace(stringify(item)))
		}
		return strings.Join(parts, ", ")
	default:
		return messageCleaner.Replace(stringify(value))
	}
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case nil:
		return ""
	case map[string]any:
		// nested serializer errors, e.g. {"non_field_errors": [...]}
		raw, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(raw)
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", typed), "0"), ".")
	default:
		return fmt.Sprint(typed)
	}
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	case bool:
		return typed
	case float64:
		return typed != 0
	default:
		return true
	}
}
