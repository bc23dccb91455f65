// Package server exposes pages, sections and layout commands over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /pages/{slug}
//	PUT    /pages/{slug}
//	GET    /pages/{slug}/sections
//	POST   /pages/{slug}/reorder
//	GET    /sections/{id}
//	PUT    /sections/{id}
//	DELETE /sections/{id}
//	POST   /sections/{id}/commands
//
// Errors are returned as {"code", "message", "path"} with a status derived
// from the error code.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/store"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Options configures a server.
type Options struct {
	Store *store.Store
	// Registry is the document schema; nil uses [schema.Default].
	Registry *schema.Registry
	// HistoryDepth is passed to the editing session of each command.
	HistoryDepth int
	// Logger receives request logs; nil uses log.Default().
	Logger *log.Logger
}

// Server is the admin API.
type Server struct {
	store        *store.Store
	reg          *schema.Registry
	historyDepth int
	logger       *log.Logger
	router       chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		store:        opts.Store,
		reg:          opts.Registry,
		historyDepth: opts.HistoryDepth,
		logger:       opts.Logger,
	}
	if s.reg == nil {
		s.reg = schema.Default()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.health)
	r.Route("/pages/{slug}", func(r chi.Router) {
		r.Get("/", s.getPage)
		r.Put("/", s.putPage)
		r.Get("/sections", s.listSections)
		r.Post("/reorder", s.reorderSections)
	})
	r.Route("/sections/{id}", func(r chi.Router) {
		r.Get("/", s.getSection)
		r.Put("/", s.putSection)
		r.Delete("/", s.deleteSection)
		r.Post("/commands", s.runCommand)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Serve listens on addr and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("listening", "addr", addr)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
