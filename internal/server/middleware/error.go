package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/metasearch/pkg/api"
	"go.uber.org/zap"
)

const problemContentType = "application/problem+json"

// ErrorHandler renders the last error attached by a handler as an RFC 9457 problem.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var problem *api.Problem
		if !errors.As(err, &problem) {
			problem = api.InternalError("An unexpected error occurred.", err)
		}
		if problem.Log != nil {
			logger.Error("Internal Error", zap.Error(problem.Log), zap.String("title", problem.Title))
		}

		if problem.Instance == "" {
			problem.Instance = c.Request.URL.Path
		}

		c.Header("Content-Type", problemContentType)
		c.JSON(problem.Status, problem)
		c.Abort()
	}
}
