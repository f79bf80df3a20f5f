package diagnostics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.started).String(),
			"component": "netsdr-client",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.status != nil && s.status.Connected()
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"ready":  ready,
			"uptime": time.Since(s.started).String(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/session", func(c *gin.Context) {
		if s.status == nil {
			c.JSON(http.StatusOK, gin.H{
				"connected":  false,
				"iq_started": false,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"connected":  s.status.Connected(),
			"iq_started": s.status.IQStarted(),
		})
	})
}
