// Package httpendpoint adapts an HTTP JSON batch-lookup URL into a
// remotefields.Endpoint. The request is a POST with body {"keys": [...]};
// the response is a JSON array of record objects.
package httpendpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	remotefields "github.com/hanpama/remotefields"
)

// Endpoint performs one batched lookup per Fetch against a fixed URL.
type Endpoint struct {
	client *http.Client
	url    string
}

var _ remotefields.Endpoint = (*Endpoint)(nil)

// New wraps url as an Endpoint. A nil client falls back to
// http.DefaultClient.
func New(client *http.Client, url string) *Endpoint {
	if client == nil {
		client = http.DefaultClient
	}
	return &Endpoint{client: client, url: url}
}

// Fetch posts the key batch and decodes the record array.
func (e *Endpoint) Fetch(ctx context.Context, keys []any) ([]remotefields.Record, error) {
	body, err := json.Marshal(map[string]any{"keys": keys})
	if err != nil {
		return nil, fmt.Errorf("encode keys: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote status %s", resp.Status)
	}
	var records []remotefields.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (e *Endpoint) String() string { return e.url }
