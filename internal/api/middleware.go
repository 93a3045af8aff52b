package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zulandar/pressyard/internal/locale"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// langOf returns the language of the request: ?lang= when supported, else
// the Accept-Language header, else the server default.
func (s *server) langOf(c *gin.Context) locale.Lang {
	if l, ok := locale.Parse(c.Query("lang")); ok {
		return l
	}
	return locale.Resolve(c.GetHeader("Accept-Language"), s.lang)
}
