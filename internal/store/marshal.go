package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
)

// marshalPayload converts a payload to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "{}", nil
	}
	data, err := ir.MarshalCanonical(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// unmarshalPayload parses canonical JSON TEXT. Numbers are decoded via
// json.Number to avoid float64 precision loss for values > 2^53; payloads
// never hold floats.
func unmarshalPayload(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	out, err := convertNumbers(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return out.(map[string]any), nil
}

func convertNumbers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return n, nil
	case map[string]any:
		for k, item := range val {
			conv, err := convertNumbers(item)
			if err != nil {
				return nil, err
			}
			val[k] = conv
		}
		return val, nil
	case []any:
		for i, item := range val {
			conv, err := convertNumbers(item)
			if err != nil {
				return nil, err
			}
			val[i] = conv
		}
		return val, nil
	default:
		return v, nil
	}
}

// instantToColumn stores an end bound: NOW becomes NULL.
func instantToColumn(i ir.Instant) sql.NullInt64 {
	if i.IsNow() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i.Timestamp(), Valid: true}
}

// columnToInstant is the inverse of instantToColumn.
func columnToInstant(n sql.NullInt64) ir.Instant {
	if !n.Valid {
		return ir.Now()
	}
	return ir.At(n.Int64)
}
