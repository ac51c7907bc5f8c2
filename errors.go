package remotefields

import "fmt"

// ConfigurationError reports a malformed declaration: a descriptor without
// remote attributes or endpoints, a schema with duplicate field names, nesting
// beyond the depth guard, or endpoint selection for an undeclared context.
// It surfaces at construction or plan time and is never degraded.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// RemoteFetchError reports a failed endpoint invocation. Each error covers one
// endpoint call of one pass; sibling endpoints fail or succeed independently.
type RemoteFetchError struct {
	// Endpoint identifies the failed endpoint (its String() when available,
	// otherwise its Go type).
	Endpoint string
	// Context is the serialization context the endpoint was selected for.
	Context Context
	// Keys is the number of keys the call requested.
	Keys int
	// Err is the underlying transport or remote error.
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch %s (%s context, %d keys): %v", e.Endpoint, e.Context, e.Keys, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }
