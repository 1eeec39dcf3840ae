package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazaar-backend/internal/apperr"
)

// ok writes the success envelope. payload keys are merged in next to
// "success": true.
func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail maps the error kind to its status uniformly. Internal errors are
// logged with the route and get a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "message": apperr.Message(err)})
}

func (s *Server) failValidation(c *gin.Context, err error) {
	s.fail(c, apperr.Wrap(apperr.Validation, "Invalid request body", err))
}
