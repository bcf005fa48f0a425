package handlers

import (
	"net/http"

	"quizengine/quizfile"
	"quizengine/services"
	"quizengine/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, session.ErrUnknownOption),
		errors.Is(err, session.ErrIndexOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, quizfile.ErrNotFound),
		errors.Is(err, services.ErrAttemptNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAttemptForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return id, true
}
