package remotefields

import (
	"bytes"
	"encoding/json"
)

// missingValue is the type of the Missing sentinel.
type missingValue struct{}

func (missingValue) String() string { return "<missing>" }

// MarshalJSON encodes Missing as JSON null. In-process the sentinel stays
// distinct from nil; the distinction collapses only at the JSON boundary.
func (missingValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Missing marks a remote field whose record was not found (or whose lookup
// key was nil). It is distinct from nil so a remote-provided null is never
// conflated with an absent record.
var Missing = missingValue{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingValue)
	return ok
}

// pending marks a remote field slot awaiting the merge. It carries the lookup
// key extracted during local serialization so the fetch phase reads keys from
// the serialized tree instead of re-walking source objects. No pending value
// survives a completed pass.
type pending struct {
	key any
}

type resultField struct {
	name  string
	value any
}

// Result is the ordered serialized output for one object. Field order follows
// schema declaration order and is preserved by MarshalJSON. Nested fields hold
// *Result (single) or []*Result (many) values.
type Result struct {
	fields []resultField
	index  map[string]int
}

func newResult(capacity int) *Result {
	return &Result{
		fields: make([]resultField, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// Len returns the number of fields.
func (r *Result) Len() int { return len(r.fields) }

// Get returns the value for name and whether the field exists.
func (r *Result) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].value, true
}

// Set writes value under name, replacing an existing field in place or
// appending a new one.
func (r *Result) Set(name string, value any) {
	if i, ok := r.index[name]; ok {
		r.fields[i].value = value
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, resultField{name: name, value: value})
}

// Names returns the field names in order.
func (r *Result) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

// MarshalJSON encodes the result as a JSON object preserving field order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
