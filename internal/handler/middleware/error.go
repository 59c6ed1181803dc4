package middleware

import (
	"log/slog"
	"net/http"

	"hotel-reservation/internal/handler/httperr"
	"hotel-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 12

// ErrorHandler answers requests whose handler recorded an error without
// writing a body, and logs server-side failures with their stack.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ge := range c.Errors {
			resp, ok := ge.Meta.(httperr.Response)
			if ok && resp.Status < http.StatusInternalServerError {
				continue
			}
			logger.Error("request failed",
				"request_id", GetRequestID(c),
				"route", c.FullPath(),
				"error", ge.Err.Error(),
				"stack", errs.StackLines(ge.Err, stackLinesLogged),
			)
		}

		if c.Writer.Written() {
			return
		}
		// 最後に積まれた公開エラーを優先
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) > 0 {
			c.JSON(http.StatusInternalServerError, internalError())
		}
	}
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("recovered from panic",
					"request_id", GetRequestID(c),
					"path", c.Request.URL.Path,
					"panic", rec,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
			}
		}()
		c.Next()
	}
}

func internalError() httperr.Response {
	return httperr.New(http.StatusInternalServerError, "Internal server error")
}
