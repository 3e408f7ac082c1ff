package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/apod-edge/internal/apod"
	"github.com/DeafMist/apod-edge/internal/logger"
	"github.com/DeafMist/apod-edge/internal/metrics"
)

// MethodPurge is accepted alongside GET and HEAD.
const MethodPurge = "PURGE"

func init() {
	// chi answers unknown verbs with 405 before routing; PURGE must reach "/".
	chi.RegisterMethod(MethodPurge)
}

// Upstream fetches the raw feed for a query.
type Upstream interface {
	Fetch(ctx context.Context, q apod.Query) (*apod.Result, error)
	Backend() string
}

// Options configures a Server. Zero values fall back to the defaults of the
// public upstream.
type Options struct {
	APIKeyHeader     string
	CredentialHeader string
	Now              func() time.Time
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
}

// Server exposes the single aggregation route over HTTP.
type Server struct {
	router           chi.Router
	upstream         Upstream
	apiKeyHeader     string
	credentialHeader string
	now              func() time.Time
	log              *slog.Logger
	metrics          *metrics.Metrics
}

// NewServer wires the method filter, router and pipeline around upstream.
func NewServer(upstream Upstream, opts Options) *Server {
	s := &Server{
		upstream:         upstream,
		apiKeyHeader:     opts.APIKeyHeader,
		credentialHeader: opts.CredentialHeader,
		now:              opts.Now,
		log:              opts.Logger,
		metrics:          opts.Metrics,
	}
	if s.apiKeyHeader == "" {
		s.apiKeyHeader = "x-custom-apod-api-key"
	}
	if s.credentialHeader == "" {
		s.credentialHeader = "Fastly-Key"
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(s.metrics.Middleware(routeLabel))
	r.Use(middleware.Recoverer)
	r.Use(methodFilter)

	r.HandleFunc("/", s.handleLatestImage)
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	s.router = r
	return s
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleLatestImage(w http.ResponseWriter, r *http.Request) {
	s.latestImage(r).write(w)
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	textResponse(http.StatusNotFound, "The page you requested could not be found\n").write(w)
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	methodNotAllowed().write(w)
}

// routeLabel keeps metric cardinality bounded: one label for the aggregation
// route and one for everything else.
func routeLabel(r *http.Request) string {
	if r.URL.Path == "/" {
		return "/"
	}
	return "other"
}
