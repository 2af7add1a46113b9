package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrdrop/api/controllers"
	"github.com/moyoez/qrdrop/api/middlewares"
	"github.com/moyoez/qrdrop/tool"
	"github.com/moyoez/qrdrop/types"
)

// Server is the delivery listener: one token-gated GET endpoint, handled
// concurrently, with the session injected into its handlers.
type Server struct {
	host      string
	port      int
	rateLimit int
	session   *types.Session

	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
	mu       sync.RWMutex
}

// NewServer creates the delivery server. port 0 lets the OS pick a free one;
// the bound port is available from Port after Start.
func NewServer(host string, port int, session *types.Session, rateLimit int) *Server {
	return &Server{
		host:      host,
		port:      port,
		rateLimit: rateLimit,
		session:   session,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RateLimit(s.rateLimit))

	downloadCtrl := controllers.NewDownloadController(s.session)
	engine.GET("/:token", downloadCtrl.HandleDownload)
	engine.NoRoute(controllers.HandleUnknownPath)

	return engine
}

// Start binds the listener. It returns once the port is held, so the caller
// can build the final URL before any request arrives; Serve does the actual
// accepting.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to bind %s:%d: %w", s.host, s.port, err)
	}

	s.mu.Lock()
	s.engine = engine
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.server = &http.Server{
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Listening on %s", listener.Addr())
	return nil
}

// Serve accepts connections until Shutdown. Each connection runs in its own
// goroutine, so a slow client never blocks the others.
func (s *Server) Serve() error {
	s.mu.RLock()
	server, listener := s.server, s.listener
	s.mu.RUnlock()
	if server == nil {
		return errors.New("server not started")
	}
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Port returns the bound port. Only meaningful after Start.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// Shutdown stops accepting new connections and waits for in-flight
// transfers to finish, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
