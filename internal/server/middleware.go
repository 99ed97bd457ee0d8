// internal/server/middleware.go
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID assigns each request an id, honoring one supplied by the caller.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// /metrics and /healthz polling would drown the log at info level
		path := c.Request.URL.Path
		if path == "/metrics" || path == "/healthz" {
			return
		}

		s.logger.Info("request handled", map[string]interface{}{
			"requestID": c.GetString("requestID"),
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
		})
	}
}
