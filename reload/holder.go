// Package reload keeps an Evaluator in sync with a format configuration file.
//
// Registries are immutable once an Evaluator is built from them, so a reload
// never edits the live registry. It builds a fresh registry and Evaluator and
// swaps the pointer; in-flight validations finish against the old one.
package reload

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
	"github.com/reoring/oastype/metrics"
)

// Builder turns a loaded configuration into an Evaluator.
type Builder func(cfg *formats.Config) (*oastype.Evaluator, error)

// NewBuilder returns a Builder that applies cfg to a new registry using the
// given registry options and creates the Evaluator with opts. Deferred entries
// are warmed so a broken validator fails the reload instead of a request.
func NewBuilder(regOpts []formats.Option, opts ...oastype.Option) Builder {
	return func(cfg *formats.Config) (*oastype.Evaluator, error) {
		reg, err := cfg.Build(regOpts...)
		if err != nil {
			return nil, err
		}
		if err := reg.Warm(); err != nil {
			return nil, err
		}
		return oastype.New(reg, opts...), nil
	}
}

// Holder provides thread-safe access to the current Evaluator with hot reload.
type Holder struct {
	path    string
	build   Builder
	logger  zerolog.Logger
	metrics *metrics.Collector
	current atomic.Pointer[oastype.Evaluator]

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Holder.
type Option func(*Holder)

// WithMetrics counts reloads and reload failures on m.
func WithMetrics(m *metrics.Collector) Option { return func(h *Holder) { h.metrics = m } }

// NewHolder loads path and builds the initial Evaluator.
func NewHolder(path string, build Builder, logger zerolog.Logger, opts ...Option) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	h := &Holder{
		path:   absPath,
		build:  build,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	ev, err := h.load()
	if err != nil {
		return nil, fmt.Errorf("load formats: %w", err)
	}
	h.current.Store(ev)
	return h, nil
}

// Evaluator returns the current Evaluator.
func (h *Holder) Evaluator() *oastype.Evaluator { return h.current.Load() }

func (h *Holder) load() (*oastype.Evaluator, error) {
	cfg, err := formats.LoadConfigFile(h.path)
	if err != nil {
		return nil, err
	}
	return h.build(cfg)
}

// Reload rebuilds the Evaluator from disk. On failure the current Evaluator
// stays in place.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading formats")

	ev, err := h.load()
	if err != nil {
		if h.metrics != nil {
			h.metrics.ReloadErrors.Inc()
		}
		h.logger.Error().Err(err).Msg("formats reload failed, keeping old registry")
		return fmt.Errorf("reload formats: %w", err)
	}
	h.current.Store(ev)
	if h.metrics != nil {
		h.metrics.Reloads.Inc()
	}
	h.logger.Info().Int("formats", len(ev.Formats().List())).Msg("formats reloaded")
	return nil
}

// WatchFile starts watching the configuration file. Changes trigger Reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory (more reliable for editors that do atomic saves)
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	h.wg.Add(1)
	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching formats file for changes")
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit. It is safe to
// call more than once.
func (h *Holder) Stop() {
	h.mu.Lock()
	select {
	case <-h.stopCh:
	default:
		close(h.stopCh)
	}
	w := h.watcher
	h.watcher = nil
	h.mu.Unlock()
	if w != nil {
		w.Close()
	}
	h.wg.Wait()
}

func (h *Holder) watchLoop(w *fsnotify.Watcher) {
	defer h.wg.Done()
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("formats file changed")
				_ = h.Reload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
