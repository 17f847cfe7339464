package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ubc-ctlt/kaltura-mcp/configs"
	"github.com/ubc-ctlt/kaltura-mcp/nonce"
)

// AppServer wires the Kaltura service to its two transports: the gin
// HTTP API consumed by the editor panel, and the MCP tool surface.
type AppServer struct {
	cfg            *configs.Config
	kalturaService *KalturaService
	nonces         *nonce.Store
	mcpServer      *mcp.Server
	sessionManager *SessionManager
	router         *gin.Engine
	httpServer     *http.Server
}

// NewAppServer creates the application server.
func NewAppServer(cfg *configs.Config, kalturaService *KalturaService) *AppServer {
	appServer := &AppServer{
		cfg:            cfg,
		kalturaService: kalturaService,
		nonces:         nonce.NewStore(cfg.NonceTTL),
	}

	// The MCP server registers tools against the appServer, so it is
	// initialized after the struct exists.
	appServer.mcpServer = InitMCPServer(appServer)
	appServer.sessionManager = NewSessionManager(appServer)

	return appServer
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *AppServer) Start(port string) error {
	s.router = setupRoutes(s)

	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.router,
	}

	go func() {
		logrus.Infof("starting HTTP server on %s", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("server failed: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("timed out waiting for connections to close, forcing exit: %v", err)
	} else {
		logrus.Info("server stopped cleanly")
	}

	return nil
}
