package taxonomy

import "math"

// NullLabel is the display name of the null marker.
const NullLabel = "null"

// RootName is the name of the tree root.
const RootName = "root"

// Key is one segment of a taxonomy path.
type Key struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
}

// K returns a non-null key.
func K(v string) Key { return Key{Value: v} }

// Null returns the null marker.
func Null() Key { return Key{Null: true} }

// String returns the key's display name. Keys fold by this string, so the
// null marker and a literal "null" share a node.
func (k Key) String() string {
	if k.Null {
		return NullLabel
	}
	return k.Value
}

// Path builds a taxonomy path from plain strings.
func Path(keys ...string) []Key {
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = K(k)
	}
	return out
}

// Link is a navigation link attached to a row.
type Link struct {
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	URL   string `json:"url" bson:"url"`
	Type  string `json:"type,omitempty" bson:"type,omitempty"`
}

// Measure is a row's numeric value. Valid is false when the host delivered
// no value or a non-numeric one.
type Measure struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// M returns a valid measure.
func M(v float64) Measure { return Measure{Value: v, Valid: true} }

// Float returns the measure as a drawable value. Missing, non-finite and
// negative measures all become 0.
func (m Measure) Float() float64 {
	if !m.Valid || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value < 0 {
		return 0
	}
	return m.Value
}

// Row is one flat input record.
type Row struct {
	Path    []Key   `json:"path"`
	Measure Measure `json:"measure"`
	Links   []Link  `json:"links,omitempty"`
}
