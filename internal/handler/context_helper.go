package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest marks requests abandoned by the client before a response was ready.
const statusClientClosedRequest = 499

// courseIDParam parses the :id path parameter. Anything other than a positive integer is rejected.
func courseIDParam(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// abandoned reports whether the request context ended, in which case the handler
// must not render anything.
func abandoned(c *gin.Context, err error) bool {
	if c.Request.Context().Err() == nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	c.AbortWithStatus(statusClientClosedRequest)
	return true
}
