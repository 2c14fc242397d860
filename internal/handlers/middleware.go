package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(userIDKey, userId)
	c.Next()
}

// queryTokenMiddleware turns ?token= into a bearer header when none was sent.
func (h *Handler) queryTokenMiddleware(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		if token := c.Query("token"); token != "" {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		}
	}
	c.Next()
}

// requestMetrics counts and times every request by route template, and logs it at debug.
func (h *Handler) requestMetrics(c *gin.Context) {
	begin := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	elapsed := time.Since(begin)
	status := c.Writer.Status()

	if h.metrics != nil {
		h.metrics.HistRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		h.metrics.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	}
	if h.log != nil {
		h.log.Debugw("http_request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency", elapsed,
		)
	}
}
