package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/vulnscan-web/internal/api"
	"github.com/raysh454/vulnscan-web/internal/cli"
	"github.com/raysh454/vulnscan-web/internal/interfaces"
	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
	"github.com/raysh454/vulnscan-web/internal/server"
	"github.com/raysh454/vulnscan-web/internal/session"
	"github.com/raysh454/vulnscan-web/internal/submission"
)

// Application is the global runtime state container.
// It holds config, parsed CLI args and the services shared across modules.
// Pass Application into modules that need access to the global state rather
// than using package-level variables.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs

	Logger   logging.Logger
	API      interfaces.ScanAPI
	Store    resultcache.Store
	Sessions *session.Manager
	Server   *server.Server

	closeAPI   func() error
	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLogger builds the logger selected by cfg.
func NewLogger(cfg LogConfig) logging.Logger {
	if cfg.Backend == LogZap {
		return logging.NewZapLogger(cfg.ZapConfig())
	}
	return logging.NewStdoutLogger("vulnscan-web").SetLevel(logging.ParseLevel(cfg.Level))
}

// NewApplication wires the backend client, result store, sessions and HTTP
// server described by cfg. scanAPI may be nil, in which case an api.Client
// for cfg.Backend.BaseURL is created.
func NewApplication(cfg *Config, args *cli.CLIArgs, logger logging.Logger, scanAPI interfaces.ScanAPI) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = NewLogger(cfg.Log)
	}

	a := &Application{
		Config:   cfg,
		Args:     args,
		Logger:   logger,
		API:      scanAPI,
		closeAPI: func() error { return nil },
		serveErr: make(chan error, 1),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	if a.API == nil {
		client, err := api.NewClient(cfg.Backend.BaseURL, nil, logger)
		if err != nil {
			return nil, err
		}
		a.API = client
		a.closeAPI = client.Close
	}

	store, err := openStore(cfg.Cache, logger)
	if err != nil {
		_ = a.closeAPI()
		return nil, err
	}
	a.Store = store

	sessions, err := session.NewManager(session.Config{
		Secret:      []byte(cfg.Session.Secret),
		CookieName:  cfg.Session.CookieName,
		TTL:         cfg.Session.TTL,
		IdleTimeout: cfg.Session.IdleTimeout,
		Secure:      cfg.Session.Secure,
	}, func(id string, observer submission.Observer) *submission.Form {
		return submission.NewForm(a.API, resultcache.NewSlot(store, id), logger, observer)
	}, logger)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.Sessions = sessions

	srv, err := server.NewServer(server.Config{
		ListenAddr:   cfg.Server.ListenAddr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		HistoryLimit: cfg.Server.HistoryLimit,
	}, a.API, store, sessions, logger)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.Server = srv
	return a, nil
}

func openStore(cfg CacheConfig, logger logging.Logger) (resultcache.Store, error) {
	if cfg.Backend == CacheSQLite {
		store, err := resultcache.OpenSQLiteStore(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening result cache: %w", err)
		}
		return store, nil
	}
	return resultcache.NewMemoryStore(), nil
}

// Start binds the listen address, then serves and sweeps idle sessions in
// the background. Serve errors are reported on Err.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	ln, err := net.Listen("tcp", a.Config.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.Config.Server.ListenAddr, err)
	}
	a.listener = ln
	a.httpServer = a.Server.HTTPServer()

	a.Logger.Info("application starting",
		logging.Field{Key: "addr", Value: ln.Addr().String()},
		logging.Field{Key: "backend", Value: a.Config.Backend.BaseURL},
		logging.Field{Key: "cache", Value: a.Config.Cache.Backend})

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
	}()
	go func() {
		defer a.wg.Done()
		a.sweepLoop()
	}()
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (a *Application) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Err delivers a fatal serve error.
func (a *Application) Err() <-chan error {
	return a.serveErr
}

func (a *Application) sweepLoop() {
	interval := a.Config.Session.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.Sessions.Sweep()
		}
	}
}

// Shutdown stops accepting requests, waits for in-flight ones within ctx,
// then releases the store and the backend client.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("http shutdown returned error", logging.Field{Key: "error", Value: err.Error()})
			errs = append(errs, err)
		}
	}

	// cancel internal ctx to stop the sweeper
	a.cancel()
	a.wg.Wait()

	if err := a.closeAll(); err != nil {
		errs = append(errs, err)
	}
	if z, ok := a.Logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
	return errors.Join(errs...)
}

func (a *Application) closeAll() error {
	var errs []error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing result cache: %w", err))
		}
	}
	if err := a.closeAPI(); err != nil {
		errs = append(errs, fmt.Errorf("closing backend client: %w", err))
	}
	return errors.Join(errs...)
}
