package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/skillbank-client/internal/config"
	"github.com/samvad-hq/skillbank-client/internal/logger"
	"github.com/samvad-hq/skillbank-client/internal/render"
	"github.com/samvad-hq/skillbank-client/internal/storage"
	"github.com/samvad-hq/skillbank-client/pkg/binding"
	"github.com/samvad-hq/skillbank-client/pkg/sinks"
	"github.com/samvad-hq/skillbank-client/pkg/views"
)

// Renderer displays the state of one view.
type Renderer interface {
	Render(name string, s binding.State) error
}

// mountedView pairs a live binding with the latest definition of its view.
type mountedView struct {
	view    atomic.Pointer[views.View]
	binding *binding.Binding
}

// Watcher keeps one lifecycle binding per configured view. It reloads the
// views file on an interval, mounting new views, re-triggering changed ones
// and disposing removed ones. Every state change is rendered and fanned out
// to sinks.
type Watcher struct {
	cfg      *config.Config
	id       string
	fetcher  binding.Fetcher
	fanout   *sinks.Fanout
	renderer Renderer
	store    storage.Store
	log      logger.Logger
	interval time.Duration

	mu      sync.Mutex
	mounted map[string]*mountedView
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := openJournal(cfg, log)
	if err != nil {
		fanout.Close()
		return nil, err
	}

	return &Watcher{
		cfg:      cfg,
		id:       uuid.NewString(),
		fetcher:  newAPIClient(cfg, log, store),
		fanout:   fanout,
		renderer: render.NewTerminal(out),
		store:    store,
		log:      log,
		interval: cfg.ReloadInterval,
		mounted:  make(map[string]*mountedView),
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*sinks.Fanout, error) {
	if cfg.SinksFile == "" {
		return sinks.NewFanout(nil), nil
	}

	reg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabled := reg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultBuilders(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, s := range enabled {
		summaries = append(summaries, map[string]string{"id": s.ID, "type": s.Type})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return sinks.NewFanout(built), nil
}

// Run reconciles views until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.fetcher == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.shutdown()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"watch_id":        w.id,
		"views_file":      w.cfg.ViewsFile,
		"sinks_count":     w.fanout.Size(),
		"reload_interval": w.interval.String(),
	})

	if err := w.Sync(ctx); err != nil {
		w.log.ErrorObj("initial view sync failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.log.ErrorObj("view sync failed", "error", err)
			}
		}
	}
}

// Sync loads the views file once and reconciles mounted bindings against it.
// A view whose descriptor is unchanged is left alone; a changed descriptor
// triggers a refetch on the existing binding.
func (w *Watcher) Sync(ctx context.Context) error {
	reg, err := views.LoadRegistry(w.cfg.ViewsFile)
	if err != nil {
		return fmt.Errorf("load views: %w", err)
	}
	return w.reconcile(ctx, reg.All())
}

func (w *Watcher) reconcile(ctx context.Context, desired []views.View) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	keep := make(map[string]struct{}, len(desired))
	mountedCount, refetched := 0, 0

	for _, v := range desired {
		keep[v.ID] = struct{}{}
		view := v

		if mv, ok := w.mounted[v.ID]; ok {
			mv.view.Store(&view)
			dispatched, err := mv.binding.Update(view.Request())
			if err != nil {
				errs = append(errs, fmt.Errorf("update view %s: %w", v.ID, err))
				continue
			}
			if dispatched {
				refetched++
			}
			continue
		}

		mv := &mountedView{}
		mv.view.Store(&view)
		b, err := binding.Mount(ctx, w.fetcher, view.Request(),
			binding.WithListener(w.listener(ctx, mv)),
			binding.WithLogger(w.log),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("mount view %s: %w", v.ID, err))
			continue
		}
		mv.binding = b
		w.mounted[v.ID] = mv
		mountedCount++
	}

	disposed := 0
	for id, mv := range w.mounted {
		if _, ok := keep[id]; ok {
			continue
		}
		mv.binding.Dispose()
		delete(w.mounted, id)
		disposed++
	}

	w.log.DebugObj("views reconciled", "sync_meta", map[string]any{
		"views":     len(desired),
		"mounted":   mountedCount,
		"refetched": refetched,
		"disposed":  disposed,
	})
	return errors.Join(errs...)
}

func (w *Watcher) listener(ctx context.Context, mv *mountedView) binding.Listener {
	return func(s binding.State) {
		view := *mv.view.Load()
		if err := w.renderer.Render(view.Name, s); err != nil {
			w.log.WarnObj("render failed", "render_error", map[string]any{
				"view_id": view.ID,
				"error":   err.Error(),
			})
		}
		if w.fanout.Size() == 0 {
			return
		}
		if _, err := w.fanout.Send(ctx, sinks.NewEvent(w.id, view, s)); err != nil {
			w.log.ErrorObj("sink delivery failed", "sink_error", map[string]any{
				"view_id": view.ID,
				"error":   err.Error(),
			})
		}
	}
}

// Snapshot returns the current state of every mounted view keyed by view id.
func (w *Watcher) Snapshot() map[string]binding.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]binding.State, len(w.mounted))
	for id, mv := range w.mounted {
		out[id] = mv.binding.State()
	}
	return out
}

// wait blocks until every mounted binding has no call in flight.
func (w *Watcher) wait() {
	w.mu.Lock()
	bs := make([]*binding.Binding, 0, len(w.mounted))
	for _, mv := range w.mounted {
		bs = append(bs, mv.binding)
	}
	w.mu.Unlock()
	for _, b := range bs {
		b.Wait()
	}
}

// shutdown disposes every binding and releases sinks and the journal.
func (w *Watcher) shutdown() {
	w.mu.Lock()
	bs := make([]*binding.Binding, 0, len(w.mounted))
	for id, mv := range w.mounted {
		mv.binding.Dispose()
		bs = append(bs, mv.binding)
		delete(w.mounted, id)
	}
	w.mu.Unlock()

	for _, b := range bs {
		b.Wait()
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("sink close failed", "error", err)
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("journal close failed", "error", err)
		}
	}
}
