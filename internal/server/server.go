package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-solo/internal/events"
	"ctchen222/tictactoe-solo/internal/hub"
	"ctchen222/tictactoe-solo/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

// Options configures request handling.
type Options struct {
	ServiceName string
	DefaultMode session.Mode
}

type Server struct {
	hub      *hub.Hub
	bus      events.Subscriber
	opts     Options
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(h *hub.Hub, bus events.Subscriber, opts Options) *Server {
	s := &Server{
		hub:    h,
		bus:    bus,
		opts:   opts,
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery(), otelgin.Middleware(opts.ServiceName), requestLogger())
	s.RegisterHandlers()
	return s
}

// Engine exposes the gin engine for http.Server and tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterHandlers() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api/sessions")
	api.POST("", s.createSession)
	api.GET("/:id", s.getSession)
	api.DELETE("/:id", s.deleteSession)
	api.POST("/:id/cells/:index", s.selectCell)
	api.PUT("/:id/mode", s.setMode)
	api.POST("/:id/reset", s.resetSession)

	s.engine.GET("/ws/sessions/:id", s.handleWebSocket)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
