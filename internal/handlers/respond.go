package handlers

import (
	"errors"
	"net/http"

	"lms-quiz-service/internal/flow"
	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// respondError maps the service and session error taxonomy onto HTTP
// statuses. Anything unrecognized is logged and surfaced as a generic 500
// so upstream failures never leak driver internals to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, flow.ErrInvalidAccessCode), errors.Is(err, flow.ErrBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, flow.ErrAlreadySubmitted), errors.Is(err, flow.ErrQuestionLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, flow.ErrNotStarted), errors.Is(err, flow.ErrOutOfRange), errors.Is(err, flow.ErrUnknownQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
