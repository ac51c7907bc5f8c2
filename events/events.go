// Package events declares the typed events published around serialization
// passes and remote fetches. Subscribe to them through the eventbus package;
// the otel package ships a ready-made subscriber producing trace spans.
package events

import (
	"sync/atomic"
	"time"
)

var passSeq atomic.Uint64

// NextPassID returns a process-unique id for one serialization pass. All
// events of a pass carry the same id.
func NextPassID() uint64 { return passSeq.Add(1) }

// PassStart is published when a serialization pass begins, before the plan is
// built.
type PassStart struct {
	Pass    uint64
	Schema  string
	Objects int
	Many    bool
}

// PassFinish is published when a pass ends, after the merge or on failure.
type PassFinish struct {
	Pass     uint64
	Schema   string
	Objects  int
	Many     bool
	Err      error
	Duration time.Duration
}

// FetchStart is published before one batched endpoint call.
type FetchStart struct {
	Pass     uint64
	Endpoint string
	Context  string
	Keys     int
}

// FetchFinish is published after one batched endpoint call.
type FetchFinish struct {
	Pass     uint64
	Endpoint string
	Context  string
	Keys     int
	Records  int
	Err      error
	Duration time.Duration
}
