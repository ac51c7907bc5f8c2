// Package grpcendpoint adapts a unary gRPC lookup method into a
// remotefields.Endpoint. The wire contract is structpb-based: the request is a
// ListValue holding the lookup keys, the response a ListValue whose elements
// are Structs, one per record. Any service can satisfy it without sharing
// generated code with this package.
package grpcendpoint

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	remotefields "github.com/hanpama/remotefields"
)

// Endpoint invokes one full gRPC method, e.g. "/things.Lookup/BatchGet".
type Endpoint struct {
	cc     grpc.ClientConnInterface
	method string
	opts   []grpc.CallOption
}

var _ remotefields.Endpoint = (*Endpoint)(nil)

// New wraps a client connection and a full method name as an Endpoint.
func New(cc grpc.ClientConnInterface, method string, opts ...grpc.CallOption) *Endpoint {
	return &Endpoint{cc: cc, method: method, opts: opts}
}

// Fetch encodes keys as a structpb list, invokes the method, and decodes the
// response records.
func (e *Endpoint) Fetch(ctx context.Context, keys []any) ([]remotefields.Record, error) {
	req, err := structpb.NewList(keys)
	if err != nil {
		return nil, fmt.Errorf("encode keys: %w", err)
	}
	resp := &structpb.ListValue{}
	if err := e.cc.Invoke(ctx, e.method, req, resp, e.opts...); err != nil {
		return nil, err
	}
	records := make([]remotefields.Record, 0, len(resp.Values))
	for i, v := range resp.Values {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("record %d is not a struct", i)
		}
		records = append(records, remotefields.Record(s.AsMap()))
	}
	return records, nil
}

func (e *Endpoint) String() string { return "grpc:" + e.method }
