/*
File: document.go
Description: Typed JSON document model for Xbox Live API responses. Replaces
dynamic traversal with explicit optional-field accessors that return sentinel
defaults, so a missing or mistyped field can never fail a whole response.
*/

package jsondoc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a parsed JSON object with total accessors. Every accessor
// takes a fallback value and returns it when the path is absent or has an
// unexpected type.
type Document map[string]interface{}

// Parse decodes raw JSON bytes into a Document.
// The top-level value must be a JSON object.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// MustParse parses trusted JSON (fixtures, request bodies built by us) and
// panics on failure.
func MustParse(data []byte) Document {
	doc, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return doc
}

// Object descends into a nested object. Returns an empty Document when the
// key is absent or not an object, so chained lookups stay total.
func (d Document) Object(key string) Document {
	if d == nil {
		return Document{}
	}
	if obj, ok := d[key].(map[string]interface{}); ok {
		return Document(obj)
	}
	return Document{}
}

// Array returns the list under key, or an empty slice when absent.
func (d Document) Array(key string) []Document {
	if d == nil {
		return nil
	}
	raw, ok := d[key].([]interface{})
	if !ok {
		return nil
	}
	items := make([]Document, 0, len(raw))
	for _, v := range raw {
		if obj, ok := v.(map[string]interface{}); ok {
			items = append(items, Document(obj))
		}
	}
	return items
}

// First returns the first element of the list under key, or an empty
// Document. Convenience for the service's pervasive single-element arrays
// (titleAssociations, rewards, profileUsers).
func (d Document) First(key string) Document {
	items := d.Array(key)
	if len(items) == 0 {
		return Document{}
	}
	return items[0]
}

// String returns the field as a string, applying the fallback for absent
// fields. Numeric and boolean values are formatted rather than rejected
// because the service is inconsistent about quoting.
func (d Document) String(key, fallback string) string {
	if d == nil {
		return fallback
	}
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fallback
	}
}

// Int returns the field as an int, accepting both JSON numbers and numeric
// strings.
func (d Document) Int(key string, fallback int) int {
	if d == nil {
		return fallback
	}
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Bool returns the field as a bool.
func (d Document) Bool(key string, fallback bool) bool {
	if d == nil {
		return fallback
	}
	if v, ok := d[key].(bool); ok {
		return v
	}
	return fallback
}

// Strings returns the field as a list of strings, formatting scalar
// elements the same way String does.
func (d Document) Strings(key string) []string {
	if d == nil {
		return nil
	}
	raw, ok := d[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch s := v.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		}
	}
	return out
}

// Encode renders the document back to compact JSON. Used when persisting
// fetched documents to disk.
func (d Document) Encode() ([]byte, error) {
	return json.Marshal(map[string]interface{}(d))
}
