package apiclient

import (
	"context"
	"time"
)

// Invocation summarizes one completed executor call.
type Invocation struct {
	ID        string        `json:"id"`
	Endpoint  string        `json:"endpoint"`
	Method    string        `json:"method"`
	Succeeded bool          `json:"succeeded"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	StartedAt time.Time     `json:"started_at"`
}

// Recorder receives an Invocation after every completed call. Errors are
// logged by the client and never change the call's outcome.
type Recorder interface {
	Record(ctx context.Context, inv Invocation) error
}
