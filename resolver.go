package remotefields

import (
	"context"
	"time"

	eventbus "github.com/hanpama/remotefields/eventbus"
	events "github.com/hanpama/remotefields/events"
)

// ErrorPolicy controls how a pass reacts to a failed endpoint call.
type ErrorPolicy int

const (
	// Propagate fails the whole pass with RemoteFetchError and cancels
	// in-flight sibling fetches. The default.
	Propagate ErrorPolicy = iota
	// DegradeToMissing lets the pass succeed; every field bound to the failed
	// endpoint resolves to Missing. Pass-level context cancellation still
	// fails the pass.
	DegradeToMissing
)

// Option customizes a Resolver.
type Option func(*Resolver)

// WithOnRemoteError sets the policy applied when an endpoint call fails.
func WithOnRemoteError(p ErrorPolicy) Option {
	return func(r *Resolver) { r.onRemoteError = p }
}

// WithMaxDepth overrides the defensive nesting depth guard (default 32).
func WithMaxDepth(n int) Option {
	return func(r *Resolver) { r.maxDepth = n }
}

// Resolver serializes objects against a schema and resolves all remote fields
// declared anywhere in the schema tree. It holds no per-pass state and is safe
// for concurrent use.
type Resolver struct {
	schema        *Schema
	onRemoteError ErrorPolicy
	maxDepth      int
}

// NewResolver validates the schema tree once and returns a resolver for it.
// Malformed declarations surface here as ConfigurationError rather than at
// serialization time.
func NewResolver(schema *Schema, opts ...Option) (*Resolver, error) {
	if schema == nil {
		return nil, configErrorf("resolver needs a schema")
	}
	r := &Resolver{schema: schema, onRemoteError: Propagate, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxDepth < 1 {
		return nil, configErrorf("depth limit %d is not positive", r.maxDepth)
	}
	if _, err := walkSchema(schema, r.maxDepth); err != nil {
		return nil, err
	}
	return r, nil
}

// SerializeOne serializes a single object. Remote fields resolve with their
// detail endpoints unless their path fans out over a nested collection.
func (r *Resolver) SerializeOne(ctx context.Context, obj Object) (*Result, error) {
	results, err := r.run(ctx, []Object{obj}, false)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// SerializeMany serializes a collection in one pass. Remote fields resolve
// with their list endpoints, one batched call per distinct endpoint for the
// whole collection.
func (r *Resolver) SerializeMany(ctx context.Context, objs []Object) ([]*Result, error) {
	return r.run(ctx, objs, true)
}

// run is one pass: plan, serialize locally, fetch, merge.
func (r *Resolver) run(ctx context.Context, objs []Object, many bool) (results []*Result, err error) {
	pass := events.NextPassID()
	start := time.Now()
	eventbus.Publish(ctx, events.PassStart{
		Pass:    pass,
		Schema:  r.schema.Name(),
		Objects: len(objs),
		Many:    many,
	})
	defer func() {
		eventbus.Publish(ctx, events.PassFinish{
			Pass:     pass,
			Schema:   r.schema.Name(),
			Objects:  len(objs),
			Many:     many,
			Err:      err,
			Duration: time.Since(start),
		})
	}()

	plan, err := walkSchema(r.schema, r.maxDepth)
	if err != nil {
		return nil, err
	}

	roots := make([]*Result, len(objs))
	for i, obj := range objs {
		if roots[i], err = serializeLocal(r.schema, obj); err != nil {
			return nil, err
		}
	}

	if len(plan) > 0 {
		if err = r.resolve(ctx, pass, plan, roots, many); err != nil {
			return nil, err
		}
	}
	return roots, nil
}
