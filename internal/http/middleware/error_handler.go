package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: типизированные
// ошибки переводятся в статус и код, внутренние маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		body := gin.H{
			"error": "внутренняя ошибка сервера",
			"code":  string(apperror.ErrCodeInternal),
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			statusCode = appErr.HTTPStatus
			body = gin.H{
				"error": appErr.Message,
				"code":  string(appErr.Code),
			}
			if appErr.Field != "" {
				body["field"] = appErr.Field
			}
		}

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"code":   body["code"],
			})
			if statusCode >= http.StatusInternalServerError {
				entry.Error("request error")
			} else {
				entry.Warn("request rejected")
			}
		}

		c.JSON(statusCode, body)
	}
}
