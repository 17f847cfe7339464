package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupRoutes builds the gin router.
func setupRoutes(appServer *AppServer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Liveness check.
	router.GET("/health", appServer.healthHandler)

	// MCP endpoint. Each unique session gets its own server instance,
	// keyed by the X-Session-Id header.
	mcpHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			sessionID := r.Header.Get("X-Session-Id")
			if sessionID == "" {
				sessionID = r.RemoteAddr
			}
			return appServer.sessionManager.GetOrCreateSession(sessionID)
		},
		&mcp.StreamableHTTPOptions{
			JSONResponse: true,
		},
	)
	router.POST("/mcp", gin.WrapH(mcpHandler))
	router.POST("/mcp/*path", gin.WrapH(mcpHandler))

	// Editor-facing API. The two Kaltura operations are guarded by the
	// single-use nonce; the nonce itself is fetched first by the editor
	// page.
	api := router.Group("/api/v1")
	{
		api.GET("/nonce", appServer.nonceHandler)

		guarded := api.Group("/kaltura", requireNonce(appServer.nonces))
		{
			guarded.POST("/verify_source", appServer.verifySourceHandler)
			guarded.POST("/upload", appServer.uploadVideoHandler)
		}
	}

	return router
}
