package diagnostics

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/netsdr/client/internal/metrics"
)

// SessionStatus is the subset of session.Session's state the diagnostics
// surface reports. Defined here rather than imported directly so this
// package can be exercised with a fake in tests without constructing a
// real transport pair.
type SessionStatus interface {
	Connected() bool
	IQStarted() bool
}

// Server owns the diagnostics HTTP router: health, readiness, Prometheus
// metrics, and a session status snapshot.
type Server struct {
	router  *gin.Engine
	addr    string
	started time.Time
	status  SessionStatus
}

// New constructs a diagnostics server bound to addr, reporting status from
// the given SessionStatus. An empty corsOrigins defaults to
// localhost:3000.
func New(addr string, corsOrigins []string, status SessionStatus) *Server {
	registerMetrics()
	metrics.Register()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Logger))
	r.Use(RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		router:  r,
		addr:    addr,
		started: time.Now(),
		status:  status,
	}
	s.registerRoutes()
	return s
}

// Serve blocks, running the HTTP server on the configured address.
func (s *Server) Serve() error {
	return s.router.Run(s.addr)
}

// Handler returns the underlying gin engine for tests that want to drive
// requests without binding a socket.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
