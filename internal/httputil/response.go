// Package httputil holds response helpers shared by the API handlers and
// middleware.
package httputil

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every error response the engine returns.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes a standardized JSON error and aborts the handler
// chain. The request ID is attached when the middleware has set one.
func RespondError(c *gin.Context, status int, code, message string) {
	body := ErrorBody{Code: code, Message: message}

	if rid, ok := c.Get("request_id"); ok {
		if s, ok := rid.(string); ok {
			body.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, body)
}
