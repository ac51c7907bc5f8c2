// Package remotefields augments serializer output with fields fetched from
// external remote services.
//
// A serializer declares its output shape once as a Schema: plain local fields
// copied from the source object, nested child schemas (single or many), and
// remote fields. A remote field is declared with a Descriptor naming the
// output key, the local source key whose value identifies the remote record,
// the remote attributes to expose, and one endpoint per serialization context
// (list or detail):
//
//	thing, _ := remotefields.NewDescriptor(
//		"thing", "thing_id", []string{"id", "name"},
//		map[remotefields.Context]remotefields.Endpoint{
//			remotefields.ContextList:   client.ThingList,
//			remotefields.ContextDetail: client.ThingDetail,
//		},
//	)
//	schema, _ := remotefields.NewSchema("widget",
//		remotefields.Local("id"),
//		remotefields.Local("label"),
//		remotefields.RemoteField(thing),
//	)
//	resolver, _ := remotefields.NewResolver(schema)
//	out, err := resolver.SerializeMany(ctx, objects)
//
// # Execution Model
//
// Each call to SerializeOne or SerializeMany is one pass with three phases:
//
//	A. Plan
//	   - Walk the schema depth-first and record a (path, descriptor) entry for
//	     every remote field at every nesting depth. Each path hop carries the
//	     field name and whether that hop fans out over a collection.
//	   - Serialize every object locally. Remote field slots receive an internal
//	     placeholder carrying the lookup key extracted from the source object,
//	     so later phases read keys from the serialized tree and never re-walk
//	     the source data.
//
//	B. Fetch
//	   - Group plan entries by endpoint. For each distinct endpoint, gather the
//	     deduplicated union of non-nil lookup keys reachable at the bound
//	     entries' paths and call Fetch exactly once per pass with that key set.
//	   - Distinct endpoints are independent and fetched concurrently. A nil or
//	     absent lookup key never reaches an endpoint; the slot resolves to
//	     Missing directly.
//
//	C. Merge
//	   - For every plan entry, index the fetched records by the descriptor's
//	     remote key and replace each placeholder with the projection of the
//	     matching record onto the declared remote attributes, or with Missing
//	     when no record matches. Merging is total: every declared remote field
//	     ends with a value in every object's output.
//
// A core invariant is preserved: for a pass over M objects sharing one
// endpoint, that endpoint is invoked exactly once, not M times.
//
// # Contexts
//
// SerializeMany resolves with each descriptor's list endpoint; SerializeOne
// resolves with the detail endpoint, except that an entry whose path crosses a
// many hop always uses the list endpoint, since it fans out over a collection
// regardless of how the root was invoked. Selecting a context the descriptor
// does not declare fails with ConfigurationError.
//
// # Errors
//
// ConfigurationError reports a malformed declaration (empty remote attributes,
// no endpoints, duplicate field names, nesting beyond the depth guard, or an
// undeclared context). It surfaces at construction or plan time and is never
// degraded.
//
// RemoteFetchError wraps an endpoint failure. Under the default Propagate
// policy the pass fails and in-flight sibling fetches are cancelled. Under
// DegradeToMissing the pass still succeeds and every field bound to the failed
// endpoint resolves to Missing. A record absent from a successful response is
// not an error in either mode: the field resolves to Missing.
//
// Missing is a distinct sentinel, not nil, so "no remote record" never
// conflates with a remote-provided null. It marshals to JSON null.
//
// The value of a remote field is always a mapping from remote attribute name
// to value, also when a single attribute is declared, so the output shape does
// not depend on the attribute count.
//
// Passes are stateless and request-scoped: the plan and all fetch results are
// built fresh per call and discarded after the merge. Nothing is cached across
// passes.
package remotefields
