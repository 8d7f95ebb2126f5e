package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeArg decodes input[key] into dst. The value may be given either as
// JSON (object, array) or as a string holding encoded JSON, which is how
// LLMs often pass nested arguments.
func decodeArg(input map[string]interface{}, key string, dst interface{}, required bool) error {
	v, ok := input[key]
	if !ok || v == nil {
		if required {
			return errMissing(key)
		}
		return nil
	}

	var raw []byte
	if s, isString := v.(string); isString {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return errMissing(key)
			}
			return nil
		}
		raw = []byte(s)
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("argument %q: %w", key, err)
		}
		raw = b
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("argument %q: %w", key, err)
	}
	return nil
}

func errMissing(key string) error {
	return fmt.Errorf("missing required argument %q", key)
}

// stringArg returns input[key] trimmed. An absent or null value is "", any
// other non-string value is an error.
func stringArg(input map[string]interface{}, key string) (string, error) {
	v, ok := input[key]
	if !ok || v == nil {
		return "", nil
	}
	s, isString := v.(string)
	if !isString {
		return "", fmt.Errorf("argument %q: must be a string, got %s", key, jsonType(v))
	}
	return strings.TrimSpace(s), nil
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}
