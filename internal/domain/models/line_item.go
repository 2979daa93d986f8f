package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LineItem is one financial statement row as returned by the DART
// single-company statement endpoint. The schema belongs to the API, so the
// row is kept as an ordered set of text fields rather than a struct.
//
// Keys keep the order in which they first appeared in the JSON object.
// String values are unquoted, null becomes "", and any other JSON value is
// kept as its compact literal text.
type LineItem struct {
	keys   []string
	values map[string]string
}

// NewLineItem builds a LineItem from alternating key/value arguments.
func NewLineItem(kv ...string) LineItem {
	var li LineItem
	for i := 0; i+1 < len(kv); i += 2 {
		li.Set(kv[i], kv[i+1])
	}
	return li
}

// Keys returns the field names in first-seen order.
func (li LineItem) Keys() []string {
	return append([]string(nil), li.keys...)
}

// Get returns the value of key and whether it is present.
func (li LineItem) Get(key string) (string, bool) {
	v, ok := li.values[key]
	return v, ok
}

// Len returns the number of fields.
func (li LineItem) Len() int { return len(li.keys) }

// Set stores value under key; a new key is appended to the key order.
func (li *LineItem) Set(key, value string) {
	if li.values == nil {
		li.values = make(map[string]string)
	}
	if _, ok := li.values[key]; !ok {
		li.keys = append(li.keys, key)
	}
	li.values[key] = value
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("line item: expected JSON object, got %v", tok)
	}

	*li = LineItem{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("line item: unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("line item: field %q: %w", key, err)
		}
		val, err := rawText(raw)
		if err != nil {
			return fmt.Errorf("line item: field %q: %w", key, err)
		}
		li.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the item as a JSON object of strings in key order.
func (li LineItem) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range li.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(li.values[k])
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

func rawText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

// KeyUnion returns the union of the keys of items in first-seen order.
func KeyUnion(items []LineItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		for _, k := range it.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
