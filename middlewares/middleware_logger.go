package middlewares

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/utils"
)

const HeaderRequestID = "X-Request-ID"

// LoggerMiddleware tags each request with an ID (taken from X-Request-ID
// when the client sent one) and logs it once it completes.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(utils.RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		if raw != "" && !strings.Contains(raw, "token=") {
			path = path + "?" + raw
		}

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"ip":         c.ClientIP(),
		}
		if staffID, ok := c.Get(CtxStaffID); ok {
			fields["staff_id"] = staffID
		}

		entry := utils.InfoLogger.WithFields(fields)
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Info(path)
	}
}
