package hisaab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter helps construct a JSON object with a specific field order,
// so encoded jsonl lines stay diff-friendly. Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append adds a key-value pair to the JSON object being built.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valJSON, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal field %q: %w", key, err)
		return w
	}
	keyJSON, _ := json.Marshal(key)
	w.Write(keyJSON)
	w.WriteString(":")
	w.Write(valJSON)
	w.WriteString(",")
	return w
}

// Optional adds a key-value pair only when the value is not the zero value of
// its type (empty string, zero, nil or empty slice).
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.Len() == 0 {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON closes the object and returns the complete JSON byte slice.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	inner := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(inner)+2)
	out = append(out, '{')
	out = append(out, inner...)
	out = append(out, '}')
	return out, nil
}
