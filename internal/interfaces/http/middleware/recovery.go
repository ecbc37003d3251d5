package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"quickpay/internal/shared/logger"
	"quickpay/internal/shared/utils"
)

// Recovery turns handler panics into a 500 envelope and logs the stack.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if checkBrokenConnection(recovered) {
			log.Errorw("connection broken during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(RequestIDKey),
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
		c.Abort()
	})
}

// checkBrokenConnection checks if the error is a broken connection
func checkBrokenConnection(recovered any) bool {
	var brokenConnections = []string{
		"connection reset by peer",
		"broken pipe",
	}

	err, ok := recovered.(error)
	if !ok {
		return false
	}

	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}

	errStr := strings.ToLower(se.Error())
	for _, s := range brokenConnections {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}
