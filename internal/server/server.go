package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/hub"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/parser"
	"github.com/atikulmunna/gastroguard/internal/simulator"
	"github.com/atikulmunna/gastroguard/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Options wires the server's dependencies. Sessions and Hub are required.
type Options struct {
	Sessions  *store.Sessions
	Hub       *hub.Hub
	Logger    *zap.Logger
	Simulator *simulator.Simulator
	Field     model.TimeField
	Now       func() time.Time
}

// Server holds the Gin engine and dependencies for the JSON API.
type Server struct {
	engine   *gin.Engine
	sessions *store.Sessions
	hub      *hub.Hub
	log      *zap.Logger
	sim      *simulator.Simulator
	parser   parser.Parser
	field    model.TimeField
	now      func() time.Time
}

// New creates the API server.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:   engine,
		sessions: opts.Sessions,
		hub:      opts.Hub,
		log:      opts.Logger,
		sim:      opts.Simulator,
		parser:   parser.NewJSONParser(),
		field:    opts.Field,
		now:      opts.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.sim == nil {
		s.sim = simulator.New(simulator.Options{})
	}
	if s.field == "" {
		s.field = model.FieldLogged
	}
	if s.now == nil {
		s.now = time.Now
	}

	engine.Use(gin.Recovery())
	engine.Use(sessionMiddleware())
	engine.Use(requestLogger(s.log))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/entries", s.handleListEntries)
	api.POST("/entries", s.handleAppendEntry)
	api.GET("/stats/foods", s.handleFoods)
	api.GET("/stats/remedies", s.handleRemedies)
	api.GET("/stats/peak-hours", s.handlePeakHours)
	api.GET("/stats/overview", s.handleOverview)
	api.GET("/remedies/:name/effectiveness", s.handleEffectiveness)
	api.GET("/simulate", s.handleSimulate)
	api.GET("/export.csv", s.handleExport)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
