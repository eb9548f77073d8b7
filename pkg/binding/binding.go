// Package binding ties the lifecycle of an API request to the lifecycle of a
// rendering instance: fetch on mount, refetch when the request descriptor
// changes, and expose loading/error/data state until disposal.
package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
	"github.com/samvad-hq/skillbank-client/pkg/logging"
)

// UnexpectedErrorMessage is stored when a failed call carries no message.
const UnexpectedErrorMessage = "An unexpected error occurred"

// ErrDisposed is returned by Update once the binding has been disposed.
var ErrDisposed = errors.New("binding disposed")

// Fetcher executes one request. *apiclient.Client satisfies it.
type Fetcher interface {
	Execute(ctx context.Context, req apiclient.Request) (any, error)
}

// State is the observable triple exposed to a renderer. Data is nil and
// Error is empty when absent.
type State struct {
	Data    any    `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Listener is invoked after every state change. Listeners run on the
// goroutine that produced the change and must not call back into the
// binding synchronously.
type Listener func(State)

// Logger receives dispatch diagnostics.
type Logger = logging.Logger

// Option configures a Binding at mount time.
type Option func(*Binding)

// WithListener registers a re-render callback.
func WithListener(fn Listener) Option {
	return func(b *Binding) {
		if fn != nil {
			b.listeners = append(b.listeners, fn)
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(log Logger) Option {
	return func(b *Binding) { b.log = logging.OrDiscard(log) }
}

// Binding owns the lifecycle state of one rendering instance.
type Binding struct {
	id      string
	fetcher Fetcher
	parent  context.Context
	log     Logger

	mu       sync.Mutex
	state    State
	version  uint64
	key      string
	epoch    uint64
	cancel   context.CancelFunc
	disposed bool

	notifyMu  sync.Mutex
	notified  uint64
	listeners []Listener

	wg sync.WaitGroup
}

// Mount creates a binding for req and dispatches its first call. The
// returned binding starts in the loading state with no data or error.
func Mount(ctx context.Context, fetcher Fetcher, req apiclient.Request, opts ...Option) (*Binding, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	key, err := req.Key()
	if err != nil {
		return nil, fmt.Errorf("request key: %w", err)
	}

	b := &Binding{
		id:      uuid.NewString(),
		fetcher: fetcher,
		parent:  ctx,
		log:     logging.Discard,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.mu.Lock()
	b.state = State{Loading: true}
	snap, version, start := b.dispatchLocked(key, req)
	b.mu.Unlock()

	b.publish(snap, version)
	start()
	return b, nil
}

// ID returns the instance identifier of the binding.
func (b *Binding) ID() string { return b.id }

// State returns the current lifecycle state.
func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Update re-evaluates the watched descriptor. A new call is dispatched only
// when the endpoint, method or serialized payload differs from the last
// dispatched one; previous data and error stay visible while it runs.
func (b *Binding) Update(req apiclient.Request) (bool, error) {
	key, err := req.Key()
	if err != nil {
		return false, fmt.Errorf("request key: %w", err)
	}

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return false, ErrDisposed
	}
	if key == b.key {
		b.mu.Unlock()
		return false, nil
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.state.Loading = true
	snap, version, start := b.dispatchLocked(key, req)
	b.mu.Unlock()

	b.publish(snap, version)
	start()
	return true, nil
}

// Dispose detaches the binding. Results of in-flight calls are discarded
// and the state is never written again.
func (b *Binding) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return
	}
	b.disposed = true
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// Wait blocks until every dispatched call has returned.
func (b *Binding) Wait() {
	b.wg.Wait()
}

// dispatchLocked tags a new call with a fresh epoch and returns the state
// snapshot to publish plus the function that launches the call. The loading
// snapshot is published before the call starts so listeners always see it
// first. b.mu must be held.
func (b *Binding) dispatchLocked(key string, req apiclient.Request) (State, uint64, func()) {
	b.key = key
	b.epoch++
	epoch := b.epoch

	ctx, cancel := context.WithCancel(b.parent)
	b.cancel = cancel
	b.version++

	b.wg.Add(1)
	start := func() { go b.run(ctx, cancel, epoch, req) }
	return b.state, b.version, start
}

func (b *Binding) run(ctx context.Context, cancel context.CancelFunc, epoch uint64, req apiclient.Request) {
	defer b.wg.Done()
	defer cancel()

	data, err := b.fetcher.Execute(ctx, req)

	b.mu.Lock()
	if b.disposed || epoch != b.epoch {
		b.mu.Unlock()
		b.log.DebugObj("stale dispatch discarded", "binding_discard", map[string]any{
			"binding_id": b.id,
			"endpoint":   req.Endpoint,
			"epoch":      epoch,
		})
		return
	}
	if err != nil {
		msg := apiclient.Message(err)
		if msg == "" {
			msg = UnexpectedErrorMessage
		}
		b.state.Error = msg
	} else {
		b.state.Data = data
		b.state.Error = ""
	}
	b.state.Loading = false
	b.cancel = nil
	b.version++
	snap, version := b.state, b.version
	b.mu.Unlock()

	b.publish(snap, version)
}

// publish delivers snap to listeners unless a newer version was already
// delivered.
func (b *Binding) publish(snap State, version uint64) {
	if len(b.listeners) == 0 {
		return
	}
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()
	if version <= b.notified {
		return
	}
	b.notified = version
	for _, fn := range b.listeners {
		fn(snap)
	}
}
