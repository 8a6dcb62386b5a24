package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// BuildInfo identifies the running binary in health and metrics output.
type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr              string // e.g. ":5000"
	Build             BuildInfo
	Auth              AuthConfig
	UploadDir         string
	UploadRoute       string // e.g. "/" or "/upload"
	PublicURL         string // prefix of returned image URLs
	MaxUploadBytes    int64
	ReadHeaderTimeout time.Duration
	Logger            *Logger
}

type Server struct {
	httpServer *http.Server

	store   *DiskStore
	auth    AuthConfig
	log     *Logger
	metrics *Metrics
	build   BuildInfo

	publicURL      string
	maxUploadBytes int64
}

// uploadPattern turns the configured route into a ServeMux pattern.
// The root route must match "/" exactly, not every path.
func uploadPattern(route string) string {
	if route == "" || route == "/" {
		return "POST /{$}"
	}
	return "POST " + route
}

func New(cfg Config) *Server {
	s := &Server{
		store:          NewDiskStore(cfg.UploadDir),
		auth:           cfg.Auth,
		log:            cfg.Logger,
		metrics:        NewMetrics(),
		build:          cfg.Build,
		publicURL:      cfg.PublicURL,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", metricsHandler(s.metrics, s.store, s.build))

	mux.Handle(uploadPattern(cfg.UploadRoute), s.uploadHandler())

	// Stored images are served from the root. "/" itself lists nothing.
	mux.HandleFunc("GET /{$}", http.NotFound)
	mux.Handle("GET /{name}", s.staticHandler())

	// Wrap middleware: requestID -> logging -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler, s.log, s.metrics)
	handler = requestIDMiddleware(handler)

	readHeaderTimeout := cfg.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Metrics returns the server's metrics set.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
