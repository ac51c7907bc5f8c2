package remotefields

import "context"

// Context selects which of a descriptor's endpoints serves a pass.
type Context string

const (
	ContextList   Context = "list"
	ContextDetail Context = "detail"
)

// Record is one remote object as returned by an endpoint: a mapping from
// remote attribute name to value. Resolution matches records to local objects
// by key equality on the descriptor's remote key; ordering carries no meaning.
type Record map[string]any

// Endpoint is the remote lookup capability consumed by this package. Given
// the deduplicated set of lookup keys needed by one pass, it returns the
// matching records. Implementations must be safe for concurrent use: distinct
// endpoints of one pass are fetched in parallel.
//
// An endpoint may over-return (records for keys that were not requested);
// unmatched records are ignored during the merge.
type Endpoint interface {
	Fetch(ctx context.Context, keys []any) ([]Record, error)
}

// defaultRemoteKey is the record attribute matched against the local source
// value unless WithRemoteKey overrides it.
const defaultRemoteKey = "id"

// Descriptor declares one remote-backed output field. It is immutable after
// construction; accessors return copies of any mutable state.
type Descriptor struct {
	name       string
	source     string
	attributes []string
	remoteKey  string
	endpoints  map[Context]Endpoint
}

// DescriptorOption customizes a Descriptor at construction time.
type DescriptorOption func(*Descriptor)

// WithRemoteKey sets the record attribute whose value identifies a record
// during the merge. Defaults to "id".
func WithRemoteKey(key string) DescriptorOption {
	return func(d *Descriptor) { d.remoteKey = key }
}

// NewDescriptor declares a remote field: name is the output key, source is the
// key on the local object holding the remote lookup value, attributes are the
// remote attributes to expose, and endpoints maps each supported context to
// the endpoint serving it.
func NewDescriptor(name, source string, attributes []string, endpoints map[Context]Endpoint, opts ...DescriptorOption) (*Descriptor, error) {
	if name == "" {
		return nil, configErrorf("remote field needs a name")
	}
	if source == "" {
		return nil, configErrorf("remote field %q needs a local source key", name)
	}
	if len(attributes) == 0 {
		return nil, configErrorf("remote field %q declares no remote attributes", name)
	}
	if len(endpoints) == 0 {
		return nil, configErrorf("remote field %q declares no endpoints", name)
	}
	d := &Descriptor{
		name:       name,
		source:     source,
		attributes: append([]string(nil), attributes...),
		remoteKey:  defaultRemoteKey,
		endpoints:  make(map[Context]Endpoint, len(endpoints)),
	}
	for c, ep := range endpoints {
		if c != ContextList && c != ContextDetail {
			return nil, configErrorf("remote field %q declares unknown context %q", name, c)
		}
		if ep == nil {
			return nil, configErrorf("remote field %q declares a nil endpoint for context %q", name, c)
		}
		d.endpoints[c] = ep
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.remoteKey == "" {
		return nil, configErrorf("remote field %q declares an empty remote key", name)
	}
	return d, nil
}

// Name returns the output key the resolved value is written under.
func (d *Descriptor) Name() string { return d.name }

// Source returns the local object key holding the remote lookup value.
func (d *Descriptor) Source() string { return d.source }

// Attributes returns the remote attribute names exposed by this field.
func (d *Descriptor) Attributes() []string {
	return append([]string(nil), d.attributes...)
}

// RemoteKey returns the record attribute matched against the source value.
func (d *Descriptor) RemoteKey() string { return d.remoteKey }

// Endpoint selects the endpoint serving ctx. Selecting a context the
// descriptor does not declare fails with ConfigurationError.
func (d *Descriptor) Endpoint(c Context) (Endpoint, error) {
	ep, ok := d.endpoints[c]
	if !ok {
		return nil, configErrorf("remote field %q has no endpoint for context %q", d.name, c)
	}
	return ep, nil
}
