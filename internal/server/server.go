package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/config"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/expand"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/query"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

// Server serves mock collections over HTTP.
type Server struct {
	store    *store.Store
	pipeline *query.Pipeline
	cfg      config.Config
	log      zerolog.Logger
}

// New wires a Server around an existing store. Relationship descriptors
// from cfg drive $expand per tenant; tenants without descriptors fall
// back to naming conventions.
func New(st *store.Store, cfg config.Config, log zerolog.Logger) *Server {
	exp := newTenantExpander(st, cfg, log)
	return &Server{
		store:    st,
		pipeline: query.New(st, exp, log),
		cfg:      cfg,
		log:      log,
	}
}

// Routes builds the router:
//
//	GET    /api/{tenant}/{collection}            query with $-parameters
//	POST   /api/{tenant}/{collection}            create
//	POST   /api/{tenant}/{collection}/$reset     drop all documents
//	GET    /api/{tenant}/{collection}/{id}       fetch one
//	PUT    /api/{tenant}/{collection}/{id}       replace
//	PATCH  /api/{tenant}/{collection}/{id}       shallow merge
//	DELETE /api/{tenant}/{collection}/{id}       remove
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/api/{tenant}/{collection}", func(r chi.Router) {
		r.Get("/", s.handleQuery)
		r.Post("/", s.handleCreate)
		r.Post("/$reset", s.handleReset)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleReplace)
			r.Patch("/", s.handleMerge)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

// ListenAndServe blocks until ctx is canceled or the listener fails,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Routes()}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", s.cfg.Listen).Msg("serving mock API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// tenantExpander picks the resolver matching the request's tenant. One
// resolver exists per tenant with declared relationships, plus a shared
// convention-only fallback.
type tenantExpander struct {
	byTenant map[string]*expand.Resolver
	fallback *expand.Resolver
}

func newTenantExpander(st *store.Store, cfg config.Config, log zerolog.Logger) *tenantExpander {
	e := &tenantExpander{
		byTenant: make(map[string]*expand.Resolver, len(cfg.Relationships)),
		fallback: expand.NewResolver(st, nil, log),
	}
	for tenantName, descriptors := range cfg.Relationships {
		e.byTenant[tenantName] = expand.NewResolver(st, descriptors, log)
	}
	return e
}

func (e *tenantExpander) Expand(tenantName, collectionName string, items []*entity.Object, expandExpr string) []*entity.Object {
	if r, ok := e.byTenant[tenantName]; ok {
		return r.Expand(tenantName, collectionName, items, expandExpr)
	}
	return e.fallback.Expand(tenantName, collectionName, items, expandExpr)
}
