package normalization

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a backend primary key. The backend emits integers, callers often pass strings;
// both decode to the same value and numeric IDs are encoded back as JSON numbers.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return []byte(trimmed), nil
	}
	return json.Marshal(trimmed)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(raw))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = ID(number.String())
	return nil
}

// AsID reads an identifier out of a decoded JSON value.
func AsID(value any) ID {
	return ID(AsString(value))
}
