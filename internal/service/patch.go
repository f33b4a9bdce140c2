package service

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// decodePatch unmarshals a JSON object and rejects keys outside allowed.
func decodePatch(data []byte, allowed map[string]bool) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil || raw == nil {
		return nil, invalid("", "Request body must be a JSON object")
	}

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !allowed[key] {
			return nil, invalid(key, "Field '%s' cannot be updated", key)
		}
	}

	return raw, nil
}

func decodeString(field string, value json.RawMessage) (*string, error) {
	var s string
	if isNull(value) || json.Unmarshal(value, &s) != nil {
		return nil, invalid(field, "Field '%s' must be a string", field)
	}
	return &s, nil
}

func decodeNumber(field string, value json.RawMessage) (*float64, error) {
	var f float64
	if isNull(value) || json.Unmarshal(value, &f) != nil {
		return nil, invalid(field, "Field '%s' must be a number", field)
	}
	return &f, nil
}

func decodeInt(field string, value json.RawMessage) (*int, error) {
	var n int
	if isNull(value) || json.Unmarshal(value, &n) != nil || n < 0 {
		return nil, invalid(field, "Field '%s' must be a non-negative integer", field)
	}
	return &n, nil
}

func decodeBool(field string, value json.RawMessage) (*bool, error) {
	var b bool
	if isNull(value) || json.Unmarshal(value, &b) != nil {
		return nil, invalid(field, "Field '%s' must be true or false", field)
	}
	return &b, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
