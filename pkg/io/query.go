package io

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// Field describes one query column.
type Field struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	ValueFormat string `json:"value_format,omitempty"`
}

// Fields groups the query columns by role.
type Fields struct {
	Dimensions []Field `json:"dimension_like"`
	Measures   []Field `json:"measure_like"`
	Pivots     []Field `json:"pivots,omitempty"`
}

// Cell is one value of a data row.
type Cell struct {
	Value    any             `json:"value"`
	Rendered string          `json:"rendered,omitempty"`
	Links    []taxonomy.Link `json:"links,omitempty"`
}

// Query is a decoded query response.
type Query struct {
	Fields Fields            `json:"fields"`
	Data   []map[string]Cell `json:"data"`
}

// ReadQuery decodes and validates a query from r. Numbers are kept exact
// until conversion. ReadQuery does not close r.
func ReadQuery(r io.Reader) (*Query, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var q Query
	if err := dec.Decode(&q); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidQuery, err, "decode query")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// ImportQuery reads and validates the query file at path.
func ImportQuery(path string) (*Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadQuery(f)
}

// Validate checks the query shape: no pivots, at least one dimension and
// exactly one measure.
func (q *Query) Validate() error {
	if n := len(q.Fields.Pivots); n > 0 {
		return errors.New(errors.ErrCodeInvalidQuery, "sunburst does not support pivots, got %d", n)
	}
	if len(q.Fields.Dimensions) == 0 {
		return errors.New(errors.ErrCodeInvalidQuery, "sunburst requires at least 1 dimension")
	}
	if n := len(q.Fields.Measures); n != 1 {
		return errors.New(errors.ErrCodeInvalidQuery, "sunburst requires exactly 1 measure, got %d", n)
	}
	for _, f := range q.Fields.Dimensions {
		if f.Name == "" {
			return errors.New(errors.ErrCodeInvalidQuery, "dimension without a name")
		}
	}
	if q.Fields.Measures[0].Name == "" {
		return errors.New(errors.ErrCodeInvalidQuery, "measure without a name")
	}
	return nil
}

// Measure returns the measure field. Call only on a validated query.
func (q *Query) Measure() Field { return q.Fields.Measures[0] }

// Formatter returns the display formatter of the measure.
func (q *Query) Formatter() format.Formatter {
	if len(q.Fields.Measures) == 0 {
		return format.Default
	}
	return format.Parse(q.Measure().ValueFormat)
}

// Rows converts the data rows. It validates the query first.
func (q *Query) Rows() ([]taxonomy.Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	measure := q.Measure().Name
	known := make(map[string]bool, len(q.Fields.Dimensions)+1)
	for _, f := range q.Fields.Dimensions {
		known[f.Name] = true
	}
	known[measure] = true

	rows := make([]taxonomy.Row, 0, len(q.Data))
	for _, d := range q.Data {
		row := taxonomy.Row{Path: make([]taxonomy.Key, len(q.Fields.Dimensions))}
		for i, f := range q.Fields.Dimensions {
			cell, ok := d[f.Name]
			if !ok {
				row.Path[i] = taxonomy.Null()
				continue
			}
			row.Path[i] = keyOf(cell.Value)
			row.Links = append(row.Links, cell.Links...)
		}
		if cell, ok := d[measure]; ok {
			row.Measure = measureOf(cell.Value)
			row.Links = append(row.Links, cell.Links...)
		}

		var extra []string
		for name := range d {
			if !known[name] {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			row.Links = append(row.Links, d[name].Links...)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func keyOf(v any) taxonomy.Key {
	switch t := v.(type) {
	case nil:
		return taxonomy.Null()
	case string:
		return taxonomy.K(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return taxonomy.K(strconv.FormatFloat(f, 'f', -1, 64))
		}
		return taxonomy.K(t.String())
	case float64:
		return taxonomy.K(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		return taxonomy.K(strconv.FormatBool(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return taxonomy.Null()
		}
		return taxonomy.K(string(b))
	}
}

func measureOf(v any) taxonomy.Measure {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return taxonomy.Measure{}
		}
		return taxonomy.M(f)
	case float64:
		return taxonomy.M(t)
	default:
		return taxonomy.Measure{}
	}
}
