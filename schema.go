package remotefields

// Object is one local source object being serialized.
type Object = map[string]any

// FieldKind discriminates the three kinds of declared fields.
type FieldKind int

const (
	// KindLocal copies a value from the source object.
	KindLocal FieldKind = iota
	// KindNested serializes a child object (or collection) with a child schema.
	KindNested
	// KindRemote resolves a value from a remote endpoint via a Descriptor.
	KindRemote
)

// Field is one declared output field of a Schema.
type Field struct {
	// Name is the output key.
	Name string
	// Kind selects how the value is produced.
	Kind FieldKind
	// Source is the source object key read for local and nested fields.
	// Defaults to Name.
	Source string
	// Nested is the child schema for KindNested fields.
	Nested *Schema
	// Many marks a nested field that fans out over a collection.
	Many bool
	// Remote is the declaration for KindRemote fields.
	Remote *Descriptor
}

// Local declares a field copied from the source object under its own name.
func Local(name string) Field {
	return Field{Name: name, Kind: KindLocal}
}

// LocalFrom declares a field copied from the source object under source.
func LocalFrom(name, source string) Field {
	return Field{Name: name, Kind: KindLocal, Source: source}
}

// Nested declares a single nested child serialized with child's schema.
func Nested(name string, child *Schema) Field {
	return Field{Name: name, Kind: KindNested, Nested: child}
}

// NestedMany declares a nested collection; each element is serialized with
// child's schema.
func NestedMany(name string, child *Schema) Field {
	return Field{Name: name, Kind: KindNested, Nested: child, Many: true}
}

// RemoteField declares a remote field from its descriptor. The output key is
// the descriptor's name.
func RemoteField(d *Descriptor) Field {
	return Field{Name: d.Name(), Kind: KindRemote, Remote: d}
}

// Schema is the explicit, ordered registration of a serializer's fields.
// Field declarations are fixed at construction; enumeration preserves
// declaration order.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from ordered field declarations.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, configErrorf("schema needs a name")
	}
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, configErrorf("schema %q declares a field without a name", name)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, configErrorf("schema %q declares field %q twice", name, f.Name)
		}
		switch f.Kind {
		case KindLocal:
			if f.Source == "" {
				f.Source = f.Name
			}
		case KindNested:
			if f.Nested == nil {
				return nil, configErrorf("schema %q: nested field %q has no child schema", name, f.Name)
			}
			if f.Source == "" {
				f.Source = f.Name
			}
		case KindRemote:
			if f.Remote == nil {
				return nil, configErrorf("schema %q: remote field %q has no descriptor", name, f.Name)
			}
			if f.Name != f.Remote.Name() {
				return nil, configErrorf("schema %q: remote field %q does not match its descriptor name %q", name, f.Name, f.Remote.Name())
			}
		default:
			return nil, configErrorf("schema %q: field %q has unknown kind %d", name, f.Name, f.Kind)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// Name returns the schema's name, used in events and error messages.
func (s *Schema) Name() string { return s.name }

// Fields enumerates the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}
