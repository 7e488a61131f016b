package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Document is the persisted form of a Table.
type Document struct {
	SchemaVersion    int                    `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion"`
	TriggerThreshold float64                `json:"triggerThreshold" yaml:"triggerThreshold" toml:"triggerThreshold"`
	Bindings         map[string]ActionEntry `json:"bindings" yaml:"bindings" toml:"bindings"`
}

// ActionEntry is the persisted form of an Action.
type ActionEntry struct {
	Type      string   `json:"type" yaml:"type" toml:"type"`
	Key       string   `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
}

// ToDocument converts t to its persisted form.
func ToDocument(t Table) Document {
	doc := Document{
		SchemaVersion:    t.SchemaVersion,
		TriggerThreshold: t.TriggerThreshold,
		Bindings:         make(map[string]ActionEntry, t.Len()),
	}
	for _, e := range t.Bindings() {
		doc.Bindings[e.Input.String()] = entryFromAction(e.Action)
	}
	return doc
}

func entryFromAction(a Action) ActionEntry {
	e := ActionEntry{Type: a.Kind.String()}
	switch {
	case a.HasKey():
		e.Key = KeyName(a.Key.Code)
		e.Modifiers = a.Key.Modifiers.Names()
	case a.Kind == KindModifiersHold:
		e.Modifiers = a.Modifiers.Names()
	}
	return e
}

// Table converts the document to a Table. Schema migration is the caller's
// concern; the version is copied as-is.
func (d Document) Table() (Table, error) {
	bindings := make(map[InputID]Action, len(d.Bindings))
	for name, e := range d.Bindings {
		id, err := ParseInputID(name)
		if err != nil {
			return Table{}, err
		}
		a, err := e.action()
		if err != nil {
			return Table{}, fmt.Errorf("%s: %w", name, err)
		}
		bindings[id] = a
	}
	t := NewTable(d.TriggerThreshold, bindings)
	t.SchemaVersion = d.SchemaVersion
	return t, nil
}

func (e ActionEntry) action() (Action, error) {
	kind, err := ParseKind(e.Type)
	if err != nil {
		return Action{}, err
	}
	mods, err := ParseModifiers(e.Modifiers)
	if err != nil {
		return Action{}, err
	}
	a := Action{Kind: kind}
	switch {
	case a.HasKey():
		code, err := ParseKey(e.Key)
		if err != nil {
			return Action{}, err
		}
		a.Key = KeySpec{Code: code, Modifiers: mods}
	case kind == KindModifiersHold:
		a.Modifiers = mods
	}
	return a, a.Validate()
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension, defaulting to JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Encode serializes d in the given format.
func Encode(d Document, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatTOML:
		return toml.Marshal(d)
	case FormatJSON, "":
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (Document, error) {
	var d Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	case FormatTOML:
		err = toml.Unmarshal(data, &d)
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&d)
	default:
		return Document{}, fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", f, err)
	}
	return d, nil
}
