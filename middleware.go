package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ubc-ctlt/kaltura-mcp/nonce"
)

// nonceHeader carries the single-use anti-forgery token issued by
// GET /api/v1/nonce.
const nonceHeader = "X-Upload-Nonce"

// requireNonce consumes the request's anti-forgery token before the
// handler runs. A missing, expired, or reused token is rejected with
// 403 and no Kaltura call is ever made for that request.
func requireNonce(store *nonce.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(nonceHeader)
		if err := store.Consume(token); err != nil {
			logrus.Warnf("blocked request %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			respondError(c, http.StatusForbidden, "INVALID_NONCE",
				"Request could not be authenticated.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// corsMiddleware answers preflight requests from the editor iframe. The
// editor calls are same-origin in production, so this only matters for
// local development setups.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-Id, "+nonceHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
