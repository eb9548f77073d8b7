// Package storage keeps an audit journal of executor invocations. The
// journal is never consulted to answer requests.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

// Store records completed invocations and lists the most recent ones.
type Store interface {
	Close() error
	Record(ctx context.Context, inv apiclient.Invocation) error
	Recent(limit int) ([]apiclient.Invocation, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = opts.withDefaults()

	switch typ {
	case "", "none", "disabled":
		return discardStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func (opts Options) withDefaults() Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// discardStore backs the "none" journal type.
type discardStore struct{}

func (discardStore) Close() error                                        { return nil }
func (discardStore) Record(context.Context, apiclient.Invocation) error { return nil }
func (discardStore) Recent(int) ([]apiclient.Invocation, error)          { return nil, nil }
