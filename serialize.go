package remotefields

// serializeLocal produces the local-only output for one object: local fields
// copied from the source, nested fields recursed, and every remote field slot
// filled with a pending placeholder carrying the extracted lookup key.
func serializeLocal(s *Schema, obj Object) (*Result, error) {
	r := newResult(len(s.fields))
	for _, f := range s.fields {
		switch f.Kind {
		case KindLocal:
			r.Set(f.Name, obj[f.Source])

		case KindNested:
			raw, ok := obj[f.Source]
			if !ok || raw == nil {
				r.Set(f.Name, nil)
				continue
			}
			if f.Many {
				children, err := childObjects(s, f, raw)
				if err != nil {
					return nil, err
				}
				out := make([]*Result, len(children))
				for i, child := range children {
					cr, err := serializeLocal(f.Nested, child)
					if err != nil {
						return nil, err
					}
					out[i] = cr
				}
				r.Set(f.Name, out)
			} else {
				child, ok := raw.(Object)
				if !ok {
					return nil, configErrorf("schema %q: nested field %q holds %T, want an object", s.name, f.Name, raw)
				}
				cr, err := serializeLocal(f.Nested, child)
				if err != nil {
					return nil, err
				}
				r.Set(f.Name, cr)
			}

		case KindRemote:
			// Absent or nil source keys resolve to Missing without ever
			// reaching an endpoint.
			r.Set(f.Name, pending{key: obj[f.Remote.Source()]})
		}
	}
	return r, nil
}

// childObjects coerces the value of a many-nested field into its element
// objects. Accepts []Object directly or []any whose elements are objects.
func childObjects(s *Schema, f Field, raw any) ([]Object, error) {
	switch v := raw.(type) {
	case []Object:
		return v, nil
	case []any:
		out := make([]Object, len(v))
		for i, e := range v {
			obj, ok := e.(Object)
			if !ok {
				return nil, configErrorf("schema %q: nested field %q element %d holds %T, want an object", s.name, f.Name, i, e)
			}
			out[i] = obj
		}
		return out, nil
	default:
		return nil, configErrorf("schema %q: nested field %q holds %T, want a collection", s.name, f.Name, raw)
	}
}
