package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// marshalParams converts bound parameters to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalParams(params []any) (string, error) {
	arr := make(ir.IRArray, len(params))
	for i, p := range params {
		v, err := ir.FromGo(p)
		if err != nil {
			return "", fmt.Errorf("marshal params: param %d: %w", i, err)
		}
		arr[i] = v
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// unmarshalParams parses canonical JSON TEXT back into driver values.
// Numbers are decoded via json.Number to avoid float64 precision loss for
// values > 2^53.
func unmarshalParams(data string) ([]any, error) {
	if data == "" || data == "[]" {
		return []any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}

	out := make([]any, len(raw))
	for i, r := range raw {
		v, err := ir.FromGo(r)
		if err != nil {
			return nil, fmt.Errorf("unmarshal params: param %d: %w", i, err)
		}
		if out[i], err = ir.ToGo(v); err != nil {
			return nil, fmt.Errorf("unmarshal params: param %d: %w", i, err)
		}
	}
	return out, nil
}
