package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/xid"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/vulnscan-web/internal/history"
	"github.com/raysh454/vulnscan-web/internal/interfaces"
	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
	"github.com/raysh454/vulnscan-web/internal/session"

	_ "github.com/raysh454/vulnscan-web/internal/server/docs" // swagger spec
)

// Server is the HTML + JSON + WebSocket surface of the scanner front end.
type Server struct {
	cfg      Config
	api      interfaces.ScanAPI
	store    resultcache.Store
	sessions *session.Manager
	history  *history.Loader
	pages    *renderer
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	now      func() time.Time
}

// NewServer wires the routes over the given backend client, result store and
// session manager.
func NewServer(cfg Config, scanAPI interfaces.ScanAPI, store resultcache.Store, sessions *session.Manager, logger logging.Logger) (*Server, error) {
	if scanAPI == nil || store == nil || sessions == nil {
		return nil, errors.New("server requires a scan api, a result store and a session manager")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}
	logger = logger.With(logging.Field{Key: "component", Value: "server"})

	s := &Server{
		cfg:      cfg,
		api:      scanAPI,
		store:    store,
		sessions: sessions,
		history:  history.NewLoader(scanAPI, cfg.HistoryLimit, logger),
		router:   chi.NewRouter(),
		logger:   logger,
		now:      time.Now,
	}
	pages, err := newRenderer(func() time.Time { return s.now() })
	if err != nil {
		return nil, err
	}
	s.pages = pages

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(securityHeaders)
	r.NotFound(s.handleNotFound)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleHome)
		r.Post("/", s.handleSubmit)
		r.Get("/scan-result/{scanId}", s.handleResult)
		r.Get("/scan-history", s.handleHistory)
		r.Get("/scan-history/{scanId}", s.handleOpenHistory)
		r.Get("/pricing", s.handlePricing)

		r.Get("/api/result", s.handleCachedResult)
		r.Get("/ws/scan-status", s.handleStatusWS)
	})
}

// ServeHTTP implements http.Handler. Every request gets an id, echoed in
// X-Request-ID, and one log line. Bodies are not logged since pasted logs
// can be large.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = xid.New().String()
	}
	w.Header().Set("X-Request-ID", id)
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

	fields := []logging.Field{
		{Key: "request_id", Value: id},
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "body_size", Value: r.ContentLength})
	}
	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the result store.
func (s *Server) Close() error {
	return s.store.Close()
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: 0, // allow streaming
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if err := s.pages.render(w, status, name, p); err != nil {
		s.logger.Error("rendering page",
			logging.Field{Key: "page", Value: name},
			logging.Field{Key: "request_id", Value: requestID(r.Context())},
			logging.Field{Key: "error", Value: err.Error()})
		http.Error(w, fmt.Sprintf("internal error (request %s)", requestID(r.Context())), http.StatusInternalServerError)
	}
}
