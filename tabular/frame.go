package tabular

import (
	"encoding/json"
	"sort"
)

// Field describes a single column in a Frame, using the type vocabulary of
// the Frictionless table schema ("integer", "number", "boolean", "string",
// "object").
// https://specs.frictionlessdata.io/table-schema/
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema describes the columns of a Frame.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Frame is the shape a value must have to be treated as a dataframe. Any
// type with column metadata and row records qualifies; the library doesn't
// care how the rows are actually stored.
type Frame interface {
	// Schema returns the column layout
	Schema() Schema
	// Head returns a Frame limited to the first n rows
	Head(n int) Frame
	// Records returns one map per row, keyed by column name
	Records() []map[string]interface{}
}

// DataResource builds the application/vnd.dataresource+json representation
// of a Frame: the schema plus every row record. Frontends with a data
// explorer use this instead of the preview table, so it isn't truncated.
func DataResource(f Frame) map[string]interface{} {
	return map[string]interface{}{
		"schema": f.Schema(),
		"data":   f.Records(),
	}
}

// MemFrame is a records-backed Frame. It's the implementation used when the
// caller has plain row maps rather than a real dataframe type.
type MemFrame struct {
	schema  Schema
	records []map[string]interface{}
}

// NewMemFrame builds a MemFrame with an explicit schema. Rows missing a
// schema field render as empty cells; row keys outside the schema are
// ignored.
func NewMemFrame(s Schema, records []map[string]interface{}) MemFrame {
	return MemFrame{schema: s, records: records}
}

// FromRecords builds a MemFrame from row maps alone, inferring the schema
// from the rows. Column order is alphabetical, since Go maps have no
// inherent one. A column's type comes from the first non-nil value seen
// for it.
func FromRecords(records []map[string]interface{}) MemFrame {
	types := map[string]string{}
	names := []string{}

	for _, r := range records {
		for k, v := range r {
			if _, seen := types[k]; !seen {
				names = append(names, k)
				types[k] = ""
			}
			if types[k] == "" && v != nil {
				types[k] = fieldType(v)
			}
		}
	}
	sort.Strings(names)

	s := Schema{Fields: make([]Field, len(names))}
	for i, n := range names {
		ft := types[n]
		if ft == "" {
			// A column of nothing but nils
			ft = "string"
		}
		s.Fields[i] = Field{Name: n, Type: ft}
	}

	return MemFrame{schema: s, records: records}
}

// fieldType maps a Go value onto the Frictionless type vocabulary. JSON
// decoding produces float64 for every number, so we check whether the value
// is integral before calling it one.
func fieldType(v interface{}) string {
	switch n := v.(type) {
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32:
		if float32(int64(n)) == n {
			return "integer"
		}
		return "number"
	case float64:
		if float64(int64(n)) == n {
			return "integer"
		}
		return "number"
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case string:
		return "string"
	default:
		return "object"
	}
}

// Schema implements Frame.
func (m MemFrame) Schema() Schema {
	return m.schema
}

// Head implements Frame, returning a MemFrame sharing the same backing
// rows.
func (m MemFrame) Head(n int) Frame {
	if n >= len(m.records) {
		return m
	}
	return MemFrame{schema: m.schema, records: m.records[:n]}
}

// Records implements Frame.
func (m MemFrame) Records() []map[string]interface{} {
	return m.records
}
