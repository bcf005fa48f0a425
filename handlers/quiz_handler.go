package handlers

import (
	"net/http"
	"strconv"

	"quizengine/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	attemptService *services.AttemptService
}

func NewQuizHandler(attemptService *services.AttemptService) *QuizHandler {
	return &QuizHandler{
		attemptService: attemptService,
	}
}

// GetSequence shows how a quiz is assembled: presentation items, navigation order and any data
// issues found on the way.
func (h *QuizHandler) GetSequence(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	view, err := h.attemptService.PreviewSequence(c.Request.Context(), uint(quizID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
