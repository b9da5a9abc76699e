package types

import (
	"bytes"
	"encoding/json"
)

// FieldMap is an insertion-ordered field name to value mapping. Decoded action
// payloads preserve the field order declared by the ABI, so plain Go maps
// (which marshal with sorted keys) are not a fit.
type FieldMap struct {
	keys   []string
	values map[string]any
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]any)}
}

// Set stores a value under key. A repeated key keeps its original position.
func (m *FieldMap) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *FieldMap) Get(key string) (any, bool) {
	v, ok := m.values[key]

	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *FieldMap) Keys() []string {
	return m.keys
}

// Len returns the number of stored fields.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// MarshalJSON renders the map as a JSON object whose members appear in
// insertion order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')

		encodedValue, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
