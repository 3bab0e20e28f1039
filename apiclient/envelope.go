package apiclient

import (
	"bytes"
	"encoding/json"
)

// The competition API answers either with the bare payload or with an envelope
// such as {"data": ...}, {"sets": [...]} or {"set": {...}}.
var envelopeKeys = []string{"data", "sets", "set"}

const maxEnvelopeDepth = 3

// DecodeList normalizes raw into a slice. Missing, null or malformed payloads become an empty slice.
func DecodeList[T any](raw json.RawMessage) []T {
	return decodeList[T](raw, 0)
}

func decodeList[T any](raw json.RawMessage, depth int) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || depth > maxEnvelopeDepth {
		return []T{}
	}
	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil || items == nil {
			return []T{}
		}
		return items
	case '{':
		inner, ok := unwrapEnvelope(raw)
		if !ok {
			return []T{}
		}
		return decodeList[T](inner, depth+1)
	}
	return []T{}
}

// DecodeItem normalizes raw into a single item. ok is false when no item could be read.
func DecodeItem[T any](raw json.RawMessage) (*T, bool) {
	return decodeItem[T](raw, 0)
}

func decodeItem[T any](raw json.RawMessage, depth int) (*T, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || depth > maxEnvelopeDepth {
		return nil, false
	}
	if inner, ok := unwrapEnvelope(raw); ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '{' {
			return decodeItem[T](inner, depth+1)
		}
		return nil, false
	}
	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, false
	}
	return item, true
}

func unwrapEnvelope(raw json.RawMessage) (json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	for _, key := range envelopeKeys {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		return value, true
	}
	return nil, false
}
