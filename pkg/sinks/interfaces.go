package sinks

import (
	"context"

	"github.com/samvad-hq/skillbank-client/pkg/logging"
)

// Sink delivers state-change events to a downstream renderer (HTTP, SQS, SNS, Pub/Sub).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}

// Logger receives delivery diagnostics.
type Logger = logging.Logger

// Closer is implemented by sinks that hold connections.
type Closer interface {
	Close() error
}
