package remotefields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDescriptor_Validation(t *testing.T) {
	ep := NewMockEndpoint("things")
	endpoints := map[Context]Endpoint{ContextList: ep}

	t.Run("valid", func(t *testing.T) {
		d, err := NewDescriptor("thing", "thing_id", []string{"id", "name"}, endpoints)
		require.NoError(t, err)
		require.Equal(t, "thing", d.Name())
		require.Equal(t, "thing_id", d.Source())
		require.Equal(t, []string{"id", "name"}, d.Attributes())
		require.Equal(t, "id", d.RemoteKey())
	})

	t.Run("no name", func(t *testing.T) {
		_, err := NewDescriptor("", "thing_id", []string{"id"}, endpoints)
		requireConfigError(t, err)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := NewDescriptor("thing", "", []string{"id"}, endpoints)
		requireConfigError(t, err)
	})

	t.Run("no remote attributes", func(t *testing.T) {
		_, err := NewDescriptor("thing", "thing_id", nil, endpoints)
		requireConfigError(t, err)
	})

	t.Run("no endpoints", func(t *testing.T) {
		_, err := NewDescriptor("thing", "thing_id", []string{"id"}, nil)
		requireConfigError(t, err)
	})

	t.Run("unknown context", func(t *testing.T) {
		_, err := NewDescriptor("thing", "thing_id", []string{"id"},
			map[Context]Endpoint{Context("bulk"): ep})
		requireConfigError(t, err)
	})

	t.Run("nil endpoint", func(t *testing.T) {
		_, err := NewDescriptor("thing", "thing_id", []string{"id"},
			map[Context]Endpoint{ContextList: nil})
		requireConfigError(t, err)
	})

	t.Run("empty remote key", func(t *testing.T) {
		_, err := NewDescriptor("thing", "thing_id", []string{"id"}, endpoints,
			WithRemoteKey(""))
		requireConfigError(t, err)
	})
}

func TestDescriptor_EndpointSelection(t *testing.T) {
	list := NewMockEndpoint("things-list")
	detail := NewMockEndpoint("things-detail")
	d, err := NewDescriptor("thing", "thing_id", []string{"id"}, map[Context]Endpoint{
		ContextList:   list,
		ContextDetail: detail,
	})
	require.NoError(t, err)

	got, err := d.Endpoint(ContextList)
	require.NoError(t, err)
	require.Same(t, list, got)

	got, err = d.Endpoint(ContextDetail)
	require.NoError(t, err)
	require.Same(t, detail, got)
}

func TestDescriptor_UndeclaredContext(t *testing.T) {
	d, err := NewDescriptor("thing", "thing_id", []string{"id"},
		map[Context]Endpoint{ContextList: NewMockEndpoint("things")})
	require.NoError(t, err)

	_, err = d.Endpoint(ContextDetail)
	requireConfigError(t, err)
}

func TestDescriptor_Immutable(t *testing.T) {
	attrs := []string{"id", "name"}
	d, err := NewDescriptor("thing", "thing_id", attrs,
		map[Context]Endpoint{ContextList: NewMockEndpoint("things")})
	require.NoError(t, err)

	attrs[0] = "mutated"
	require.Equal(t, []string{"id", "name"}, d.Attributes())

	d.Attributes()[1] = "mutated"
	require.Equal(t, []string{"id", "name"}, d.Attributes())
}

func requireConfigError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %T: %v", err, err)
}
