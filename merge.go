package remotefields

// mergeEntry splices one plan entry's fetched records into the serialized
// tree: every pending slot at the entry's path becomes either the projection
// of its matching record or Missing. The merge is total; no pending value
// survives it.
func mergeEntry(roots []*Result, entry planEntry, g *fetchGroup) {
	byKey := make(map[any]Record, len(g.records))
	remoteKey := entry.desc.RemoteKey()
	for _, rec := range g.records {
		if k, ok := rec[remoteKey]; ok && k != nil {
			byKey[normalizeKey(k)] = rec
		}
	}

	name := entry.fieldName()
	forEachParent(roots, entry.path, func(node *Result) {
		v, ok := node.Get(name)
		p, isPending := v.(pending)
		if !ok || !isPending {
			return
		}
		if p.key == nil {
			node.Set(name, Missing)
			return
		}
		rec, found := byKey[normalizeKey(p.key)]
		if !found {
			node.Set(name, Missing)
			return
		}
		node.Set(name, projectRecord(entry.desc, rec))
	})
}

// projectRecord builds the output value for one resolved remote field: an
// ordered mapping from each declared remote attribute to its record value.
// The shape is a mapping also for a single attribute. An attribute the record
// lacks projects to Missing, keeping it distinct from a remote-provided null.
func projectRecord(d *Descriptor, rec Record) *Result {
	out := newResult(len(d.attributes))
	for _, attr := range d.attributes {
		v, ok := rec[attr]
		if !ok {
			out.Set(attr, Missing)
			continue
		}
		out.Set(attr, v)
	}
	return out
}
