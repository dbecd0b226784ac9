package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Keyed is a JSON object that remembers key insertion order and resolves keys
// case-insensitively. The hour plan must render in the order the backend wrote
// it, and pickers must list sections the way they are stored.
type Keyed[T any] struct {
	keys []string
	vals map[string]T
}

// Set stores v under key. Existing keys keep their position.
func (k *Keyed[T]) Set(key string, v T) {
	if k.vals == nil {
		k.vals = map[string]T{}
	}
	if _, ok := k.vals[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.vals[key] = v
}

// Keys returns the stored keys in insertion order.
func (k *Keyed[T]) Keys() []string {
	if k == nil {
		return nil
	}
	out := make([]string, len(k.keys))
	copy(out, k.keys)
	return out
}

func (k *Keyed[T]) Len() int {
	if k == nil {
		return 0
	}
	return len(k.keys)
}

// Get returns the value stored under the exact key.
func (k *Keyed[T]) Get(key string) (T, bool) {
	var zero T
	if k == nil || k.vals == nil {
		return zero, false
	}
	v, ok := k.vals[key]
	return v, ok
}

// Resolve returns the stored key matching name. An exact match wins; otherwise
// the first key (in insertion order) equal under case folding is returned.
func (k *Keyed[T]) Resolve(name string) (string, bool) {
	if k == nil {
		return "", false
	}
	if _, ok := k.vals[name]; ok {
		return name, true
	}
	for _, key := range k.keys {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// Lookup is Get after Resolve.
func (k *Keyed[T]) Lookup(name string) (T, bool) {
	key, ok := k.Resolve(name)
	if !ok {
		var zero T
		return zero, false
	}
	return k.Get(key)
}

func (k *Keyed[T]) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*k = Keyed[T]{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	out := Keyed[T]{vals: map[string]T{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", kt)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*k = out
	return nil
}

func (k Keyed[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range k.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(k.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
