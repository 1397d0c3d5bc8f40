package schema

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// SCHEMA — Semantic column types for pair-plot synthesis
// ============================================================================
// A TypeMap declares how each column should be read (quantitative, nominal…).
// It is built by consumers, loaded from a JSON/YAML file, or auto-discovered
// from query results (see discover.go).
//
// Column order matters: pairs are enumerated in TypeMap order, so the map is
// an ordered slice rather than a Go map.
// ============================================================================

// SemanticType is the declared interpretation of a column.
type SemanticType string

const (
	Quantitative SemanticType = "quantitative"
	Temporal     SemanticType = "temporal"
	Ordinal      SemanticType = "ordinal"
	Nominal      SemanticType = "nominal"
	GeoJSON      SemanticType = "geojson"
)

// SemanticTypes lists every member of the enumeration.
var SemanticTypes = []SemanticType{Quantitative, Temporal, Ordinal, Nominal, GeoJSON}

// Valid reports whether t is one of the five known types.
func (t SemanticType) Valid() bool {
	for _, known := range SemanticTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSemanticType converts a case-insensitive name into a SemanticType.
func ParseSemanticType(s string) (SemanticType, error) {
	t := SemanticType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		names := make([]string, len(SemanticTypes))
		for i, known := range SemanticTypes {
			names[i] = string(known)
		}
		return "", errors.WithHint(
			errors.Newf("unknown semantic type %q", s),
			"use one of "+strings.Join(names, ", "))
	}
	return t, nil
}

// Column pairs a column name with its semantic type.
type Column struct {
	Name string       `json:"name" yaml:"name"`
	Type SemanticType `json:"type" yaml:"type"`
}

// TypeMap is an ordered mapping from column name to semantic type.
// The zero value is an empty map ready to use.
type TypeMap struct {
	columns []Column
	index   map[string]int
}

// NewTypeMap builds a TypeMap from columns. Later duplicates overwrite the
// type of earlier ones but keep the first position.
func NewTypeMap(columns ...Column) TypeMap {
	var m TypeMap
	for _, c := range columns {
		m.Set(c.Name, c.Type)
	}
	return m
}

// Set assigns a type to a column, appending it if new.
func (m *TypeMap) Set(name string, t SemanticType) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.columns[i].Type = t
		return
	}
	m.index[name] = len(m.columns)
	m.columns = append(m.columns, Column{Name: name, Type: t})
}

// Get returns the type of a column and whether it is mapped.
func (m TypeMap) Get(name string) (SemanticType, bool) {
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.columns[i].Type, true
}

// Len returns the number of mapped columns.
func (m TypeMap) Len() int { return len(m.columns) }

// Names returns column names in declaration order.
func (m TypeMap) Names() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns a copy of the ordered columns.
func (m TypeMap) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// Nominals returns the nominal column names in declaration order.
func (m TypeMap) Nominals() []string {
	var names []string
	for _, c := range m.columns {
		if c.Type == Nominal {
			names = append(names, c.Name)
		}
	}
	return names
}

// Subset returns a TypeMap restricted to names, in the order given.
// Unknown names are reported back instead of being silently dropped.
func (m TypeMap) Subset(names []string) (TypeMap, []string) {
	var out TypeMap
	var missing []string
	for _, n := range names {
		t, ok := m.Get(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		out.Set(n, t)
	}
	return out, missing
}

// FromStatType builds a TypeMap by asking statType about each column.
// Columns with an empty or unknown type are excluded, matching the query
// shell which only plots columns it can classify.
func FromStatType(columns []string, statType func(string) SemanticType) TypeMap {
	var m TypeMap
	for _, col := range columns {
		if col == "" {
			continue
		}
		t := statType(col)
		if !t.Valid() {
			continue
		}
		m.Set(col, t)
	}
	return m
}

// ── Serialization ────────────────────────────────────────────────────────────
// A TypeMap serializes as a plain object {"col": "type"} in column order.

// MarshalJSON writes the map as an object, preserving column order.
func (m TypeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(string(c.Type))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of column → type, keeping key order.
func (m *TypeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "type map")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("type map must be a JSON object")
	}

	var out TypeMap
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "type map key")
		}
		key, _ := keyTok.(string)

		var raw string
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "type of column %q", key)
		}
		t, err := ParseSemanticType(raw)
		if err != nil {
			return errors.Wrapf(err, "column %q", key)
		}
		out.Set(key, t)
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "type map")
	}

	*m = out
	return nil
}

// UnmarshalYAML reads a YAML mapping of column → type, keeping key order.
func (m *TypeMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return errors.Newf("type map must be a mapping (line %d)", node.Line)
	}

	var out TypeMap
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		t, err := ParseSemanticType(val.Value)
		if err != nil {
			return errors.Wrapf(err, "column %q (line %d)", key.Value, val.Line)
		}
		out.Set(key.Value, t)
	}

	*m = out
	return nil
}
