// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"propertychat/internal/models"
)

const errorNarrative = "Hi! I'm Shora from roarrealty.ae. I'm experiencing some technical difficulties, but I'm here to help you find your perfect property. Please try again!"

const filterOptionsCacheKey = "chat:filter-options"

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChatGET(c *gin.Context) {
	s.handleChat(c, c.Query("msg"))
}

func (s *Server) handleChatPOST(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"example": `{"message": "3 bedroom villa in Damac Hills"}`,
		})
		return
	}
	s.handleChat(c, req.Message)
}

func (s *Server) handleChat(c *gin.Context, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Please provide a message!",
			"example": "Try: 'Hi' or '3 bedroom villa in Damac Hills under 2 crore'",
		})
		return
	}

	start := time.Now()
	resp, err := s.pipeline.Handle(c.Request.Context(), message)
	if err != nil {
		s.logger.Error("chat request failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": errorNarrative,
			"error":   "Internal server error",
		})
		return
	}

	if s.obs != nil {
		s.obs.RecordRequest(c.Request.Context(), string(resp.Intent))
		s.obs.RecordDuration(c.Request.Context(), time.Since(start), string(resp.Intent))
	}

	c.JSON(http.StatusOK, resp)
}

// handleFilterOptions serves the distinct filter values for search
// suggestions, cached briefly so the aggregation doesn't run per keystroke.
func (s *Server) handleFilterOptions(c *gin.Context) {
	ctx := c.Request.Context()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, filterOptionsCacheKey); err == nil {
			var opts models.FilterOptions
			if err := json.Unmarshal([]byte(cached), &opts); err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "filters": opts})
				return
			}
		}
	}

	opts, err := s.store.FilterOptions(ctx)
	if err != nil {
		s.logger.Error("filter options lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Could not load filter options",
		})
		return
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(opts); err == nil {
			ttl := time.Duration(s.config.Search.FilterCacheTTL) * time.Second
			if err := s.cache.Set(ctx, filterOptionsCacheKey, string(encoded), ttl); err != nil {
				s.logger.Warn("filter options cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "filters": opts})
}
