package remotefields

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	eventbus "github.com/hanpama/remotefields/eventbus"
	events "github.com/hanpama/remotefields/events"
)

// fetchGroup is the unit of one remote call: one distinct endpoint and the
// union of keys needed by every plan entry bound to it.
type fetchGroup struct {
	endpoint Endpoint
	context  Context
	entries  []int // indexes into the plan
	keys     []any // deduplicated, first-seen order
	records  []Record
}

// resolve executes the fetch and merge phases of one pass: group plan entries
// by endpoint, gather key sets from the serialized tree, invoke each distinct
// endpoint exactly once, and splice the results back in.
func (r *Resolver) resolve(ctx context.Context, pass uint64, plan []planEntry, roots []*Result, many bool) error {
	groups, err := buildFetchGroups(plan, roots, many)
	if err != nil {
		return err
	}

	if err := r.fetchAll(ctx, pass, groups); err != nil {
		return err
	}

	for _, g := range groups {
		for _, i := range g.entries {
			mergeEntry(roots, plan[i], g)
		}
	}
	return nil
}

// buildFetchGroups groups plan entries by their selected endpoint and gathers
// each group's deduplicated key set from the pending slots in the tree.
func buildFetchGroups(plan []planEntry, roots []*Result, many bool) ([]*fetchGroup, error) {
	var groups []*fetchGroup
	byEndpoint := map[Endpoint]int{}
	for i, entry := range plan {
		c := entry.context(many)
		ep, err := entry.desc.Endpoint(c)
		if err != nil {
			return nil, err
		}
		gi, ok := byEndpoint[ep]
		if !ok {
			gi = len(groups)
			byEndpoint[ep] = gi
			groups = append(groups, &fetchGroup{endpoint: ep, context: c})
		}
		g := groups[gi]
		g.entries = append(g.entries, i)

		seen := make(map[any]struct{}, len(roots))
		for _, k := range g.keys {
			seen[normalizeKey(k)] = struct{}{}
		}
		name := entry.fieldName()
		forEachParent(roots, entry.path, func(node *Result) {
			v, _ := node.Get(name)
			p, ok := v.(pending)
			if !ok || p.key == nil {
				return
			}
			nk := normalizeKey(p.key)
			if _, dup := seen[nk]; dup {
				return
			}
			seen[nk] = struct{}{}
			g.keys = append(g.keys, p.key)
		})
	}
	return groups, nil
}

// fetchAll invokes every group's endpoint once. Distinct endpoints share no
// state and run concurrently. Under Propagate the first failure cancels the
// sibling fetches and fails the pass; under DegradeToMissing each group fails
// independently and its fields resolve to Missing, except that a pass-level
// cancellation still propagates.
func (r *Resolver) fetchAll(ctx context.Context, pass uint64, groups []*fetchGroup) error {
	if r.onRemoteError == Propagate {
		eg, gctx := errgroup.WithContext(ctx)
		for _, g := range groups {
			if len(g.keys) == 0 {
				continue
			}
			eg.Go(func() error {
				return fetchOne(gctx, pass, g)
			})
		}
		return eg.Wait()
	}

	var wg sync.WaitGroup
	for _, g := range groups {
		if len(g.keys) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Failures leave the group without records; its fields merge to
			// Missing.
			_ = fetchOne(ctx, pass, g)
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// fetchOne performs the single batched call for one group and publishes the
// surrounding fetch events.
func fetchOne(ctx context.Context, pass uint64, g *fetchGroup) error {
	name := endpointName(g.endpoint)
	eventbus.Publish(ctx, events.FetchStart{
		Pass:     pass,
		Endpoint: name,
		Context:  string(g.context),
		Keys:     len(g.keys),
	})
	start := time.Now()
	records, err := g.endpoint.Fetch(ctx, g.keys)
	eventbus.Publish(ctx, events.FetchFinish{
		Pass:     pass,
		Endpoint: name,
		Context:  string(g.context),
		Keys:     len(g.keys),
		Records:  len(records),
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return &RemoteFetchError{Endpoint: name, Context: g.context, Keys: len(g.keys), Err: err}
	}
	g.records = records
	return nil
}

func endpointName(ep Endpoint) string {
	if s, ok := ep.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", ep)
}

// normalizeKey canonicalizes lookup keys for equality matching, so an int
// source value matches the float64 a JSON-decoding endpoint returns for the
// same record. Endpoints always receive the values as extracted.
func normalizeKey(k any) any {
	switch v := k.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		if float32(int64(v)) == v {
			return int64(v)
		}
		return float64(v)
	case float64:
		if float64(int64(v)) == v {
			return int64(v)
		}
		return v
	default:
		return k
	}
}
