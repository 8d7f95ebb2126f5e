package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Invoke runs t with raw JSON arguments and always returns a JSON document.
// Any failure is reported as {"error": "..."}.
func Invoke(ctx context.Context, t Tool, raw []byte) []byte {
	out, err := run(ctx, t, raw)
	if err != nil {
		return errorJSON(err)
	}
	return out
}

// run is Invoke with the failure kept as an error so callers can record it.
func run(ctx context.Context, t Tool, raw []byte) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("tool", t.Name).Interface("panic", rec).Msg("tool panicked")
			out, err = nil, fmt.Errorf("internal error in %s", t.Name)
		}
	}()

	input := map[string]interface{}{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &input); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if input == nil {
			input = map[string]interface{}{}
		}
	}

	res, err := t.Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(res)) {
		return nil, fmt.Errorf("%s returned malformed output", t.Name)
	}
	return []byte(res), nil
}

func errorJSON(err error) []byte {
	b, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return b
}

// marshal encodes a tool result.
func marshal(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(b), nil
}
