package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trend-story-api/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Code: status})
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Store failures are logged with their cause and answered with a generic
// message.
func ErrorHandler(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var ve *apperr.ValidationError
		switch {
		case errors.As(err, &ve):
			AbortWithError(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, apperr.ErrNotFound):
			AbortWithError(c, http.StatusNotFound, "Not Found")
		case errors.Is(err, apperr.ErrStoreUnavailable):
			log.WithField("request_id", GetRequestID(c)).WithError(err).Error("Store unavailable")
			AbortWithError(c, http.StatusInternalServerError, "Database Error")
		default:
			log.WithField("request_id", GetRequestID(c)).WithError(err).Error("Database error")
			AbortWithError(c, http.StatusInternalServerError, "Database Error")
		}
	}
}

// NotFound answers unknown routes and missing static files.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		AbortWithError(c, http.StatusNotFound, "Not Found")
	}
}

// Recovery turns a panic into a 500 with the JSON error body.
func Recovery(log *logrus.Entry) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"panic":      recovered,
		}).Error("Recovered from panic")
		AbortWithError(c, http.StatusInternalServerError, "Internal Server Error")
	})
}
