// Package pkgjson edits package.json documents without disturbing key order.
package pkgjson

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileName is the canonical package descriptor file name.
const FileName = "package.json"

//go:embed default.json
var defaultDescriptor []byte

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("package descriptor must be a JSON object")

// Document is a package descriptor held as raw JSON.
type Document struct {
	raw []byte
}

// Default returns a fresh copy of the built-in descriptor template.
func Default() *Document {
	return &Document{raw: append([]byte(nil), defaultDescriptor...)}
}

// Parse validates data as a JSON object.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, ErrNotObject
	}
	return &Document{raw: append([]byte(nil), data...)}, nil
}

// Clone returns an independent copy.
func (d *Document) Clone() *Document {
	return &Document{raw: append([]byte(nil), d.raw...)}
}

// Bytes returns the document as stored.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.raw...)
}

// Get returns the top-level value under key.
func (d *Document) Get(key string) gjson.Result {
	return gjson.GetBytes(d.raw, escapeKey(key))
}

// Has reports whether key exists at the top level.
func (d *Document) Has(key string) bool {
	return d.Get(key).Exists()
}

// SetString sets a top-level string. Existing keys keep their position.
func (d *Document) SetString(key, value string) error {
	raw, err := sjson.SetBytes(d.raw, escapeKey(key), value)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	d.raw = raw
	return nil
}

// Delete removes a top-level key. Missing keys are not an error.
func (d *Document) Delete(key string) error {
	raw, err := sjson.DeleteBytes(d.raw, escapeKey(key))
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	d.raw = raw
	return nil
}

// Merge deep-merges overlay onto the document. Overlay values win, nested
// objects merge recursively, base keys keep their order and new keys are
// appended in overlay order.
func (d *Document) Merge(overlay []byte) error {
	over := gjson.ParseBytes(overlay)
	if !over.IsObject() {
		return ErrNotObject
	}
	d.raw = mergeObjects(gjson.ParseBytes(d.raw), over)
	return nil
}

func mergeObjects(base, overlay gjson.Result) []byte {
	type entry struct {
		key   string
		value gjson.Result
	}

	var order []entry
	index := map[string]gjson.Result{}
	overlay.ForEach(func(key, value gjson.Result) bool {
		if _, seen := index[key.String()]; !seen {
			order = append(order, entry{key: key.Raw})
		}
		index[key.String()] = value
		return true
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(rawKey string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(rawKey)
		buf.WriteByte(':')
		buf.Write(value)
	}

	used := map[string]bool{}
	base.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if used[name] {
			return true
		}
		used[name] = true

		over, ok := index[name]
		switch {
		case !ok:
			write(key.Raw, []byte(value.Raw))
		case value.IsObject() && over.IsObject():
			write(key.Raw, mergeObjects(value, over))
		default:
			write(key.Raw, []byte(over.Raw))
		}
		return true
	})

	for _, e := range order {
		name := gjson.Parse(e.key).String()
		if used[name] {
			continue
		}
		used[name] = true
		write(e.key, []byte(index[name].Raw))
	}

	buf.WriteByte('}')
	return buf.Bytes()
}

// ReplaceInScripts replaces every occurrence of placeholder in the string
// values of the scripts object. It returns the names of the scripts changed.
func (d *Document) ReplaceInScripts(placeholder, value string) ([]string, error) {
	scripts := d.Get("scripts")
	if !scripts.IsObject() {
		return nil, nil
	}

	var changed []string
	var err error
	scripts.ForEach(func(key, script gjson.Result) bool {
		if script.Type != gjson.String || !strings.Contains(script.Str, placeholder) {
			return true
		}
		path := "scripts." + escapeKey(key.String())
		d.raw, err = sjson.SetBytes(d.raw, path, strings.ReplaceAll(script.Str, placeholder, value))
		if err != nil {
			err = fmt.Errorf("failed to update script %q: %w", key.String(), err)
			return false
		}
		changed = append(changed, key.String())
		return true
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// Marshal renders the document with two-space indentation, using eol as
// the line terminator including a trailing one.
func (d *Document) Marshal(eol string) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, d.raw); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteString("\n")

	if eol == "" || eol == "\n" {
		return out.Bytes(), nil
	}
	return bytes.ReplaceAll(out.Bytes(), []byte("\n"), []byte(eol)), nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, d.raw); err != nil {
		return nil, err
	}
	return compact.Bytes(), nil
}

// escapeKey quotes gjson/sjson path syntax so key is matched literally.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
