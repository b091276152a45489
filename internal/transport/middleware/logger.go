package middleware

import (
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger writes one structured line per request and records its latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		elapsed := time.Since(began)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		monitoring.TrackHTTP(c.Request.Method, route, status, elapsed)

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"route":     route,
			"path":      c.Request.URL.Path,
			"status":    status,
			"bytes":     c.Writer.Size(),
			"latency":   elapsed.String(),
			"client_ip": c.ClientIP(),
		}
		if claims, ok := Claims(c); ok {
			fields["user_id"] = claims.UserID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := logrus.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}
