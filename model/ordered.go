package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ordered is a string-keyed map that remembers insertion order.
// JSON objects are decoded key by key so the on-disk order survives a round trip.
type ordered[V any] struct {
	keys  []string
	items map[string]V
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

// set inserts or replaces key. New keys go to the end.
func (o *ordered[V]) set(key string, v V) {
	if o.items == nil {
		o.items = make(map[string]V)
	}
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *ordered[V]) delete(key string) {
	if _, ok := o.items[key]; !ok {
		return
	}
	delete(o.items, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *ordered[V]) reset() {
	o.keys = nil
	o.items = nil
}

func (o *ordered[V]) len() int { return len(o.keys) }

// each visits entries in order. It stops early when fn returns false.
func (o *ordered[V]) each(fn func(key string, v V) bool) {
	for _, k := range o.keys {
		if !fn(k, o.items[k]) {
			return
		}
	}
}

func (o ordered[V]) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.items[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (o *ordered[V]) UnmarshalJSON(data []byte) error {
	o.reset()
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
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
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		o.set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
