package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RequestIDKey is where the request logger stores the request ID.
const RequestIDKey = "request_id"

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error envelope. Server errors carry the request
// ID so a report from the till can be matched to the log line, and are
// attached to the context for the request logger.
func RespondError(c *gin.Context, code int, err error) {
	resp := JSONResponse{Status: false, Message: err.Error()}
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		resp.RequestID = c.GetString(RequestIDKey)
	}
	c.JSON(code, resp)
}
