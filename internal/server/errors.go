package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindPrecondition:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConfirmation:
		return http.StatusPreconditionRequired
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "kind"} with the status its kind maps to.
// Internal errors are logged and their message is not exposed.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		message = "internal error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"kind":  kind.String(),
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.respondError(c, apperr.Wrap(apperr.KindValidation, "invalid request", err))
}
