package remotefields

import "strings"

// pathHop is one traversal step in the serialized tree: the field name and
// whether that hop fans out over a collection.
type pathHop struct {
	Field string
	Many  bool
}

// Path locates one remote field in the serialized tree. The final hop names
// the remote field itself and never fans out.
type Path []pathHop

func (p Path) String() string {
	var b strings.Builder
	for i, h := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(h.Field)
		if h.Many {
			b.WriteString("[]")
		}
	}
	return b.String()
}

// planEntry binds one remote descriptor to its location in the tree. The plan
// is rebuilt for every pass and discarded after the merge.
type planEntry struct {
	path Path
	desc *Descriptor
}

// context selects the endpoint context for this entry: list when the pass is
// many or the path crosses a fan-out hop, detail otherwise.
func (e planEntry) context(many bool) Context {
	if many {
		return ContextList
	}
	for _, h := range e.path {
		if h.Many {
			return ContextList
		}
	}
	return ContextDetail
}

// fieldName returns the output key the entry resolves into.
func (e planEntry) fieldName() string {
	return e.path[len(e.path)-1].Field
}

const defaultMaxDepth = 32

// walkSchema enumerates every remote descriptor in the schema tree with its
// path, depth-first in declaration order. Schemas form a one-way declaration
// structure, so cycles are not expected; the depth guard fails with
// ConfigurationError if nesting ever exceeds maxDepth.
func walkSchema(s *Schema, maxDepth int) ([]planEntry, error) {
	var entries []planEntry
	if err := walkSchemaImpl(s, nil, maxDepth, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func walkSchemaImpl(s *Schema, prefix Path, maxDepth int, out *[]planEntry) error {
	if len(prefix) > maxDepth {
		return configErrorf("schema %q: nesting exceeds depth limit %d at %q", s.name, maxDepth, prefix.String())
	}
	for _, f := range s.fields {
		switch f.Kind {
		case KindRemote:
			path := make(Path, len(prefix), len(prefix)+1)
			copy(path, prefix)
			path = append(path, pathHop{Field: f.Name})
			*out = append(*out, planEntry{path: path, desc: f.Remote})
		case KindNested:
			path := make(Path, len(prefix), len(prefix)+1)
			copy(path, prefix)
			path = append(path, pathHop{Field: f.Name, Many: f.Many})
			if err := walkSchemaImpl(f.Nested, path, maxDepth, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// forEachParent invokes fn for every Result that directly holds the entry's
// remote field slot, following every hop of path but the last. Nil and absent
// branches are skipped.
func forEachParent(roots []*Result, path Path, fn func(node *Result)) {
	for _, r := range roots {
		forEachParentImpl(r, path[:len(path)-1], fn)
	}
}

func forEachParentImpl(r *Result, hops Path, fn func(node *Result)) {
	if r == nil {
		return
	}
	if len(hops) == 0 {
		fn(r)
		return
	}
	h := hops[0]
	v, ok := r.Get(h.Field)
	if !ok || v == nil {
		return
	}
	if h.Many {
		children, ok := v.([]*Result)
		if !ok {
			return
		}
		for _, child := range children {
			forEachParentImpl(child, hops[1:], fn)
		}
		return
	}
	child, ok := v.(*Result)
	if !ok {
		return
	}
	forEachParentImpl(child, hops[1:], fn)
}
