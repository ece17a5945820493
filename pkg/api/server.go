// Package api serves profile documents over HTTP.
//
// Every request that edits a profile loads the stored document, repairs it,
// applies the edit through a [board.Board] and saves the result only when
// the board reports a change. Layout projection is also offered as a
// stateless endpoint whose results are cached by canonical grid.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/bento/{username}
//	POST   /api/bento/{username}/sync
//	POST   /api/bento/{username}/widgets
//	PATCH  /api/bento/{username}/widgets/{id}
//	DELETE /api/bento/{username}/widgets/{id}
//	PUT    /api/bento/{username}/layouts/{breakpoint}
//	POST   /api/layout/project
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Store          store.Store
	Cache          cache.Cache      // projection cache; nil disables it
	Keyer          cache.Keyer      // defaults to cache.NewDefaultKeyer()
	ProjectionTTL  time.Duration    // defaults to cache.TTLProjection
	Breakpoints    grid.Breakpoints // defaults to grid.DefaultBreakpoints
	ReflowOnResize bool
	AdoptOrphans   bool
	AllowedOrigins []string // CORS origins; "*" allows any
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// Server is the HTTP front end for a document store.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.ProjectionTTL <= 0 {
		opts.ProjectionTTL = cache.TTLProjection
	}
	if opts.Breakpoints == nil {
		opts.Breakpoints = grid.DefaultBreakpoints
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors(s.opts.AllowedOrigins))
	}
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/layout/project", s.project)
		r.Route("/bento/{username}", func(r chi.Router) {
			r.Get("/", s.getBento)
			r.Post("/sync", s.syncBento)
			r.Post("/widgets", s.addWidget)
			r.Patch("/widgets/{id}", s.updateWidget)
			r.Delete("/widgets/{id}", s.removeWidget)
			r.Put("/layouts/{breakpoint}", s.commitLayout)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
