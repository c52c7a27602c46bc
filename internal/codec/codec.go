// Package codec maps domain models to storage records and back.
//
// Every entity declares a Schema naming its temporal fields (by convention
// the ones ending in "_at") and any nested records. ToStorage renders
// temporal values as ISO-8601 text; FromStorage parses them back, keeping the
// original text when it does not parse. Both directions are idempotent.
package codec

import (
	"time"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

// Record is the storage-neutral document shape shared by all stores.
type Record map[string]any

// Schema declares how one entity type is laid out in storage.
type Schema struct {
	Entity   string
	temporal map[string]struct{}
	nested   map[string]*Schema
}

// NewSchema declares an entity with the given temporal fields.
func NewSchema(entity string, temporal ...string) *Schema {
	s := &Schema{
		Entity:   entity,
		temporal: make(map[string]struct{}, len(temporal)),
		nested:   make(map[string]*Schema),
	}
	for _, f := range temporal {
		s.temporal[f] = struct{}{}
	}
	return s
}

// WithNested declares that field holds a record, or a sequence of records,
// laid out by child.
func (s *Schema) WithNested(field string, child *Schema) *Schema {
	s.nested[field] = child
	return s
}

// IsTemporal reports whether field is declared temporal.
func (s *Schema) IsTemporal(field string) bool {
	_, ok := s.temporal[field]
	return ok
}

// ToStorage returns a copy of r with temporal values rendered as text.
func (s *Schema) ToStorage(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		switch {
		case s.IsTemporal(k):
			out[k] = temporalToStorage(v)
		case s.nested[k] != nil:
			out[k] = s.nested[k].mapNested(v, (*Schema).ToStorage)
		default:
			out[k] = v
		}
	}
	return out
}

// FromStorage returns a copy of r with temporal text parsed into
// model.Timestamp values. Unparseable text survives as a raw Timestamp.
func (s *Schema) FromStorage(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		switch {
		case s.IsTemporal(k):
			out[k] = temporalFromStorage(v)
		case s.nested[k] != nil:
			out[k] = s.nested[k].mapNested(v, (*Schema).FromStorage)
		default:
			out[k] = v
		}
	}
	return out
}

func (s *Schema) mapNested(v any, fn func(*Schema, Record) Record) any {
	switch x := v.(type) {
	case Record:
		return fn(s, x)
	case map[string]any:
		return fn(s, Record(x))
	case []Record:
		out := make([]Record, len(x))
		for i, item := range x {
			out[i] = fn(s, item)
		}
		return out
	case []map[string]any:
		out := make([]Record, len(x))
		for i, item := range x {
			out[i] = fn(s, Record(item))
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = s.mapNested(item, fn)
		}
		return out
	default:
		return v
	}
}

func temporalToStorage(v any) any {
	switch x := v.(type) {
	case model.Timestamp:
		if x.IsZero() {
			return nil
		}
		return x.String()
	case *model.Timestamp:
		if x == nil || x.IsZero() {
			return nil
		}
		return x.String()
	case time.Time:
		return FormatTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTime(*x)
	default:
		return v
	}
}

func temporalFromStorage(v any) any {
	switch x := v.(type) {
	case string:
		return model.ParseTimestamp(x)
	case time.Time:
		return model.NewTimestamp(x)
	default:
		return v
	}
}

// FormatTime renders t in the canonical stored form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses stored text leniently; see model.ParseTimestamp.
func ParseTime(s string) model.Timestamp {
	return model.ParseTimestamp(s)
}
