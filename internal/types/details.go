package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recognized attribute field names of a technology record
const (
	FieldKnownRisk             = "KnownRisk"
	FieldConfigFiles           = "ConfigFiles"
	FieldVariables             = "Variables"
	FieldCommonDirectories     = "CommonDirectories"
	FieldLogFiles              = "LogFiles"
	FieldBackupFiles           = "BackupFiles"
	FieldExposedEndpoints      = "ExposedEndpoints"
	FieldEnvironmentVariables  = "EnvironmentVariables"
	FieldDebugModes            = "DebugModes"
	FieldCommonVulnerabilities = "CommonVulnerabilities"
	FieldDefaultCredentials    = "DefaultCredentials"
	FieldUsefulTools           = "UsefulTools"
)

// KnownFields lists the recognized field names in canonical order.
// KnownRisk is the only text field, every other recognized field is a list.
var KnownFields = []string{
	FieldKnownRisk,
	FieldConfigFiles,
	FieldVariables,
	FieldCommonDirectories,
	FieldLogFiles,
	FieldBackupFiles,
	FieldExposedEndpoints,
	FieldEnvironmentVariables,
	FieldDebugModes,
	FieldCommonVulnerabilities,
	FieldDefaultCredentials,
	FieldUsefulTools,
}

// IsKnownField reports whether name is one of the recognized field names
func IsKnownField(name string) bool {
	for _, f := range KnownFields {
		if f == name {
			return true
		}
	}
	return false
}

// Value is an attribute value: either a single string or an ordered list of strings
type Value struct {
	Text   string
	List   []string
	IsList bool
}

// Text returns a single-string value
func Text(s string) Value {
	return Value{Text: s}
}

// List returns a list value. A call without items yields an empty, present list.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{List: items, IsList: true}
}

// Attribute is one named field of a technology record
type Attribute struct {
	Name  string
	Value Value
}

// Details is the attribute record of a technology.
//
// Recognized fields are typed, anything else lands in Extra. The order in which
// keys were declared is kept and drives Attributes, which in turn drives search
// traversal and export.
type Details struct {
	KnownRisk             string
	ConfigFiles           []string
	Variables             []string
	CommonDirectories     []string
	LogFiles              []string
	BackupFiles           []string
	ExposedEndpoints      []string
	EnvironmentVariables  []string
	DebugModes            []string
	CommonVulnerabilities []string
	DefaultCredentials    []string
	UsefulTools           []string

	// Extra holds unrecognized keys
	Extra map[string]Value

	order []string
	set   map[string]bool
}

// listField returns a pointer to the typed list field for name, or nil
func (d *Details) listField(name string) *[]string {
	switch name {
	case FieldConfigFiles:
		return &d.ConfigFiles
	case FieldVariables:
		return &d.Variables
	case FieldCommonDirectories:
		return &d.CommonDirectories
	case FieldLogFiles:
		return &d.LogFiles
	case FieldBackupFiles:
		return &d.BackupFiles
	case FieldExposedEndpoints:
		return &d.ExposedEndpoints
	case FieldEnvironmentVariables:
		return &d.EnvironmentVariables
	case FieldDebugModes:
		return &d.DebugModes
	case FieldCommonVulnerabilities:
		return &d.CommonVulnerabilities
	case FieldDefaultCredentials:
		return &d.DefaultCredentials
	case FieldUsefulTools:
		return &d.UsefulTools
	}
	return nil
}

// Set assigns a field and records its declaration position.
// Recognized fields must carry the right kind of value. Copies of a record
// never observe each other's Set calls.
func (d *Details) Set(name string, v Value) error {
	if name == "" {
		return fmt.Errorf("field name is required")
	}
	if name == FieldKnownRisk && v.IsList {
		return fmt.Errorf("field %s must be a string", name)
	}
	if d.listField(name) != nil && !v.IsList {
		return fmt.Errorf("field %s must be a list of strings", name)
	}

	d.detach()

	switch {
	case name == FieldKnownRisk:
		d.KnownRisk = v.Text
	case d.listField(name) != nil:
		items := slices.Clone(v.List)
		if items == nil {
			items = []string{}
		}
		*d.listField(name) = items
	default:
		if d.Extra == nil {
			d.Extra = make(map[string]Value)
		}
		d.Extra[name] = cloneValue(v)
	}

	if !d.set[name] {
		d.set[name] = true
		d.order = append(d.order, name)
	}
	return nil
}

// detach gives d its own order and presence state before a mutation.
// A record built as a struct literal is seeded from its present fields.
func (d *Details) detach() {
	if d.order == nil {
		attrs := d.Attributes()
		d.order = make([]string, 0, len(attrs)+1)
		d.set = make(map[string]bool, len(attrs)+1)
		for _, attr := range attrs {
			d.order = append(d.order, attr.Name)
			d.set[attr.Name] = true
		}
	} else {
		d.order = slices.Clip(d.order)
		d.set = maps.Clone(d.set)
		if d.set == nil {
			d.set = make(map[string]bool)
		}
	}
	d.Extra = maps.Clone(d.Extra)
}

// cloneValue copies the list of v so callers cannot reach shared storage
func cloneValue(v Value) Value {
	if v.IsList {
		return List(slices.Clone(v.List)...)
	}
	return v
}

// Get returns the value of a field and whether it is present
func (d Details) Get(name string) (Value, bool) {
	if d.set != nil {
		if !d.set[name] {
			return Value{}, false
		}
		return d.value(name), true
	}

	// Built as a struct literal: presence is inferred from non-zero fields
	for _, attr := range d.Attributes() {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return Value{}, false
}

func (d Details) value(name string) Value {
	if name == FieldKnownRisk {
		return Text(d.KnownRisk)
	}
	if p := d.listField(name); p != nil {
		return List(slices.Clone(*p)...)
	}
	return cloneValue(d.Extra[name])
}

// Keys returns the present field names in declaration order
func (d Details) Keys() []string {
	attrs := d.Attributes()
	keys := make([]string, len(attrs))
	for i, attr := range attrs {
		keys[i] = attr.Name
	}
	return keys
}

// Len returns the number of present fields
func (d Details) Len() int {
	return len(d.Attributes())
}

// Attributes returns the present fields in declaration order.
// Records populated without Set fall back to canonical order, with Extra keys
// sorted after the recognized ones.
func (d Details) Attributes() []Attribute {
	if d.order != nil {
		attrs := make([]Attribute, 0, len(d.order))
		for _, name := range d.order {
			attrs = append(attrs, Attribute{Name: name, Value: d.value(name)})
		}
		return attrs
	}

	var attrs []Attribute
	if d.KnownRisk != "" {
		attrs = append(attrs, Attribute{Name: FieldKnownRisk, Value: Text(d.KnownRisk)})
	}
	for _, name := range KnownFields[1:] {
		if p := d.listField(name); *p != nil {
			attrs = append(attrs, Attribute{Name: name, Value: List(slices.Clone(*p)...)})
		}
	}
	extra := make([]string, 0, len(d.Extra))
	for name := range d.Extra {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		attrs = append(attrs, Attribute{Name: name, Value: cloneValue(d.Extra[name])})
	}
	return attrs
}

// MarshalJSON writes the record as an object with keys in declaration order
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range d.Attributes() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(attr.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if attr.Value.IsList {
			val, err = encodeJSON(attr.Value.List)
		} else {
			val, err = encodeJSON(attr.Value.Text)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON marshals v without HTML escaping and without a trailing newline
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads an object of string or string-array values, keeping key order
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("details must be an object")
	}

	var out Details
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if out.set[name] {
			return fmt.Errorf("duplicate field %s", name)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}

		var v Value
		trimmed := bytes.TrimSpace(raw)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '[':
			var items []string
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return fmt.Errorf("field %s: must be a list of strings", name)
			}
			v = List(items...)
		case len(trimmed) > 0 && trimmed[0] == '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			v = Text(s)
		default:
			return fmt.Errorf("field %s: must be a string or a list of strings", name)
		}

		if err := out.Set(name, v); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// UnmarshalYAML reads a mapping of string or string-sequence values, keeping key order
func (d *Details) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: details must be a mapping", node.Line)
	}

	var out Details
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value
		if out.set[name] {
			return fmt.Errorf("line %d: duplicate field %s", keyNode.Line, name)
		}

		var v Value
		switch valNode.Kind {
		case yaml.ScalarNode:
			v = Text(valNode.Value)
		case yaml.SequenceNode:
			items := make([]string, 0, len(valNode.Content))
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: field %s must be a list of strings", item.Line, name)
				}
				items = append(items, item.Value)
			}
			v = List(items...)
		default:
			return fmt.Errorf("line %d: field %s must be a string or a list of strings", valNode.Line, name)
		}

		if err := out.Set(name, v); err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
	}

	*d = out
	return nil
}

// MarshalYAML emits a mapping with keys in declaration order
func (d Details) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, attr := range d.Attributes() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Name}
		var val *yaml.Node
		if attr.Value.IsList {
			val = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, item := range attr.Value.List {
				val.Content = append(val.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
			}
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Value.Text}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// FieldLabel turns a field name into its display label by inserting a space
// before every upper-case ASCII letter, e.g. ExposedEndpoints -> Exposed Endpoints
func FieldLabel(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
