package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"precatorios/internal/amqp"
	"precatorios/internal/core"
	applog "precatorios/internal/log"
	"precatorios/internal/middleware/ratelimit"
	"precatorios/internal/middleware/security"
	"precatorios/internal/middleware/trace"
)

// readTimeout bounds a single dataset read
const readTimeout = 7 * time.Second

// DatasetLoader loads the records of one source
type DatasetLoader interface {
	Load(ctx context.Context, source core.Source) ([]core.Record, error)
}

// ImportPublisher queues an import of one source
type ImportPublisher interface {
	PublishImportRequest(ctx context.Context, msg *amqp.ImportRequest) error
}

// Options configures a Server. Only Loader is required.
type Options struct {
	Loader             DatasetLoader
	Publisher          ImportPublisher
	Ready              func(ctx context.Context) error
	RateLimitPerMinute int
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	loader    DatasetLoader
	publisher ImportPublisher
	ready     func(ctx context.Context) error
	logger    *applog.Logger

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer wires the routes behind the middleware chain:
// trace, CORS, security headers, probe detection, rate limiting.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		loader:    opts.Loader,
		publisher: opts.Publisher,
		ready:     opts.Ready,
		logger:    logger,
		detector:  detector,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		tracer: trace.NewMiddleware(detector.ExtractClientIP, logger),
	}

	mux := http.NewServeMux()
	for _, src := range core.Sources() {
		mux.HandleFunc("GET "+src.Path(), s.handleDataset(src))
	}
	mux.HandleFunc("POST /imports/{source}", s.handleImport)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, s.onRateLimit)(h)
	h = detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = security.CORS(security.DefaultCORSConfig())(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.")
}

// Shutdown stops background goroutines and drains the listener
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	})
	return err
}
