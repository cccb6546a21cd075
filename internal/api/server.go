package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/mqtt-scribe/internal/capture"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/config"
	"github.com/nerrad567/mqtt-scribe/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker reports broker connectivity for the health endpoint.
// Implemented by the mqtt client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the status server.
type Deps struct {
	Config  config.StatusConfig
	Logger  *logging.Logger
	Stats   *capture.Stats
	Broker  HealthChecker
	Version string
}

// Server is the read-only status/health HTTP endpoint.
//
// It exposes the dispatcher's reception counters and the broker connection
// state for monitoring. There is no write surface and no authentication;
// the default bind is loopback.
type Server struct {
	cfg     config.StatusConfig
	logger  *logging.Logger
	stats   *capture.Stats
	broker  HealthChecker
	version string
	server  *http.Server
}

// New creates a status server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("api: logger is required")
	}
	if deps.Stats == nil {
		return nil, fmt.Errorf("api: stats is required")
	}

	s := &Server{
		cfg:     deps.Config,
		logger:  deps.Logger.With("component", "api"),
		stats:   deps.Stats,
		broker:  deps.Broker,
		version: deps.Version,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", deps.Config.Host, deps.Config.Port),
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(deps.Config.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(deps.Config.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(deps.Config.Timeouts.Idle) * time.Second,
	}

	return s, nil
}

// Start begins serving in a background goroutine.
//
// Listener failures after startup are logged, not returned; the status
// endpoint is auxiliary and must never take the capture pipeline down.
func (s *Server) Start() {
	s.logger.Info("status server listening", "addr", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server failed", "error", err)
		}
	}()
}

// Close shuts the server down gracefully, waiting for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down status server: %w", err)
	}
	return nil
}
