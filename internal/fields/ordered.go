package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pair is a single key/value entry of an ordered map.
type Pair[V any] struct {
	Key   string
	Value V
}

// Map is a flat key/value map that remembers insertion order. The API
// returns JSON objects whose key order is what the dashboard displays, so
// they are decoded into a Map rather than a Go map.
type Map[V any] []Pair[V]

// Get returns the value for key.
func (m Map[V]) Get(key string) (V, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// Set replaces the value of an existing key in place or appends a new one.
func (m *Map[V]) Set(key string, value V) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Pair[V]{Key: key, Value: value})
}

// Keys returns the keys in order.
func (m Map[V]) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Filter returns the entries for which keep returns true, in order.
func (m Map[V]) Filter(keep func(key string, value V) bool) Map[V] {
	var out Map[V]
	for _, p := range m {
		if keep(p.Key, p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// FromPairs builds a Map from pairs. A repeated key keeps its first
// position and takes the later value.
func FromPairs[V any](pairs ...Pair[V]) Map[V] {
	var m Map[V]
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// UnmarshalJSON decodes a JSON object preserving its key order. A JSON
// null decodes to an empty map. Duplicate keys keep their first position
// and the last value.
func (m *Map[V]) UnmarshalJSON(data []byte) error {
	*m = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		m.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
