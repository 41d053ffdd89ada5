// Package tag defines the key/value dimensions attached to recordings.
package tag

import "fmt"

// Cardinality classifies how many distinct values a tag key may take.
type Cardinality int

const (
	// Low marks a tag that is safe to use as a grouping key (e.g. a metric
	// dimension such as an HTTP method or a route template).
	Low Cardinality = iota

	// High marks an identifying tag (e.g. a request ID or a concrete URL).
	// High cardinality tags belong on traces and logs, never on metrics.
	High
)

// String returns the cardinality name.
func (c Cardinality) String() string {
	switch c {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Tag is a key/value pair with a cardinality. Tag is comparable, so equal
// tags can be de-duplicated.
type Tag struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Cardinality Cardinality `json:"cardinality"`
}

// Of returns a low cardinality tag.
func Of(key, value string) Tag {
	return Tag{Key: key, Value: value, Cardinality: Low}
}

// HighOf returns a high cardinality tag.
func HighOf(key, value string) Tag {
	return Tag{Key: key, Value: value, Cardinality: High}
}

// String renders the tag as key=value, marking high cardinality tags.
func (t Tag) String() string {
	if t.Cardinality == High {
		return fmt.Sprintf("%s=%s(high)", t.Key, t.Value)
	}
	return fmt.Sprintf("%s=%s", t.Key, t.Value)
}

// LowOnly returns the low cardinality tags of tags, preserving order.
func LowOnly(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Cardinality == Low {
			out = append(out, t)
		}
	}
	return out
}
