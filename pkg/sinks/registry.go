package sinks

import (
	"context"
	"fmt"

	"github.com/samvad-hq/skillbank-client/pkg/logging"
)

// Builder creates a Sink from a normalized config entry.
type Builder func(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)

// Builders maps a sink type to its constructor.
type Builders map[string]Builder

// DefaultBuilders returns constructors for every supported sink type.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPSink,
		TypeSQS:    newSQSSink,
		TypeSNS:    newSNSSink,
		TypePubSub: newPubSubSink,
	}
}

// Build normalizes cfg and constructs the sink for its type.
func (b Builders) Build(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	cfg = cfg.normalized()
	if cfg.Type == "" {
		return nil, fmt.Errorf("sink %q has no type configured", cfg.ID)
	}
	build, ok := b[cfg.Type]
	if !ok || build == nil {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}
	return build(orBackground(ctx), cfg, logging.OrDiscard(log))
}

// BuildAll constructs a sink per config. Sinks built before a failure are
// closed.
func BuildAll(ctx context.Context, b Builders, cfgs []SinkConfig, log Logger) ([]Sink, error) {
	out := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := b.Build(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(out).Close()
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}
