package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/config"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/ipc"
	"github.com/1broseidon/progman/internal/logging"
	"github.com/1broseidon/progman/internal/metrics"
	"github.com/1broseidon/progman/internal/runtimepath"
	"github.com/1broseidon/progman/internal/tiling"
	"github.com/1broseidon/progman/internal/web"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Daemon.
type Options struct {
	Config *config.Config
	// SocketPath and LockPath default to the runtime directory.
	SocketPath string
	LockPath   string
	Logger     *zap.Logger
}

// Daemon owns one desktop and serves it over IPC and HTTP.
type Daemon struct {
	cfg    *config.Config
	logger *zap.Logger

	live    *apps.Live
	store   *desktop.Store
	broker  *desktop.Broker
	metrics *metrics.Metrics
	watcher *apps.Watcher

	socketPath string
	lockPath   string

	ready   chan struct{}
	mu      sync.Mutex
	webAddr string
}

// DesktopOptions maps the desktop section of cfg onto store options.
func DesktopOptions(cfg config.DesktopConfig) desktop.Options {
	opts := desktop.DefaultOptions()
	opts.Desktop = cfg.Size()
	opts.IconStrip = cfg.IconStrip
	opts.TileInset = cfg.TileInset
	opts.Launch = tiling.Stagger{Base: cfg.Launch.Base, Step: cfg.Launch.Step, Wrap: cfg.Launch.Wrap}
	opts.Cascade = tiling.Stagger{Base: cfg.Cascade.Base, Step: cfg.Cascade.Step}
	opts.CascadeSize = cfg.Cascade.Size
	return opts
}

// New loads the app catalog and builds the desktop. Nothing listens until Run.
func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reg, err := apps.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load app catalog: %w", err)
	}

	socketPath := opts.SocketPath
	if socketPath == "" {
		if socketPath, err = runtimepath.SocketPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	lockPath := opts.LockPath
	if lockPath == "" {
		if lockPath, err = runtimepath.LockPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve lock path: %w", err)
		}
	}

	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		live:       apps.NewLive(reg),
		socketPath: socketPath,
		lockPath:   lockPath,
		ready:      make(chan struct{}),
	}
	d.store = desktop.NewStore(d.live, DesktopOptions(cfg.Desktop))
	d.broker = desktop.NewBroker(d.store.Snapshot())

	d.store.Subscribe(logging.NewActionObserver(logger))
	d.store.Subscribe(d.broker)
	if cfg.Metrics.Enabled {
		d.metrics = metrics.New()
		d.metrics.CatalogApps.Set(float64(reg.Len()))
		d.store.Subscribe(d.metrics)
	}

	if cfg.Catalog.Path != "" {
		d.watcher = apps.NewWatcher(cfg.Catalog.Path, d.live, logger, d.catalogReloaded)
	}
	return d, nil
}

// Store returns the daemon's desktop.
func (d *Daemon) Store() *desktop.Store { return d.store }

// Apps returns the live application catalog.
func (d *Daemon) Apps() *apps.Live { return d.live }

// Metrics returns the daemon's collectors, or nil when metrics are disabled.
func (d *Daemon) Metrics() *metrics.Metrics { return d.metrics }

// SocketPath returns the IPC socket path.
func (d *Daemon) SocketPath() string { return d.socketPath }

// WebAddr returns the bound HTTP address once Run has started the web
// server, or "" when it is disabled or not yet listening.
func (d *Daemon) WebAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.webAddr
}

// Ready is closed once Run is serving IPC and, if enabled, HTTP.
func (d *Daemon) Ready() <-chan struct{} { return d.ready }

func (d *Daemon) catalogReloaded(reg *apps.Registry, err error) {
	if d.metrics == nil {
		return
	}
	n := 0
	if reg != nil {
		n = reg.Len()
	}
	d.metrics.CatalogReloaded(n, err)
}

// Reload re-reads the app catalog and returns the number of apps. Without a
// catalog file the builtin set is all there is.
func (d *Daemon) Reload() (int, error) {
	if d.watcher == nil {
		return d.live.Registry().Len(), nil
	}
	if err := d.watcher.Reload(); err != nil {
		return 0, err
	}
	return d.live.Registry().Len(), nil
}

// Run takes the single-instance lock and serves until ctx is cancelled. It
// may be called once.
func (d *Daemon) Run(ctx context.Context) error {
	lock, err := Lock(d.lockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	ipcServer, err := ipc.NewServer(d.socketPath, ipc.Deps{
		Store:   d.store,
		Apps:    d.live,
		Reload:  d.Reload,
		Metrics: d.metrics,
		Logger:  d.logger,
	})
	if err != nil {
		return err
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		webSv *web.Server
	)
	errCh := make(chan error, 1)

	if d.cfg.Web.Enabled {
		webSv = web.New(web.Config{Listen: d.cfg.Web.Listen}, web.Deps{
			Store:   d.store,
			Broker:  d.broker,
			Apps:    d.live,
			Metrics: d.metrics,
			Logger:  d.logger,
		})
		ln, err := webSv.Listen()
		if err != nil {
			return err
		}
		d.setWebAddr(webSv.Addr())

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webSv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				select {
				case errCh <- fmt.Errorf("web server: %w", err):
				default:
				}
			}
		}()
	}

	if d.watcher != nil && d.cfg.Catalog.Watch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.watcher.Run(ctx); err != nil {
				// The desktop keeps working on the catalog it has.
				d.logger.Warn("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	d.logger.Info("progman daemon started",
		zap.String("session", d.store.SessionID()),
		zap.String("socket", d.socketPath),
		zap.String("web", d.WebAddr()),
		zap.Int("apps", d.live.Registry().Len()),
	)
	close(d.ready)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	d.logger.Info("shutting down progman daemon")
	cancel()

	if webSv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := webSv.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("web shutdown failed", zap.Error(err))
		}
		cancelShutdown()
		d.setWebAddr("")
	}
	wg.Wait()
	return runErr
}

func (d *Daemon) setWebAddr(addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.webAddr = addr
}
