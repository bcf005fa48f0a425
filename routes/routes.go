package routes

import (
	"net/http"

	"quizengine/handlers"
	"quizengine/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	attemptHandler *handlers.AttemptHandler,
	wsHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.GET("/quizzes/:id/sequence", quizHandler.GetSequence)

		attempts := api.Group("/attempts")
		{
			attempts.POST("", attemptHandler.StartAttempt)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.POST("/:id/answers", attemptHandler.SubmitAnswer)
			attempts.POST("/:id/seek", attemptHandler.Seek)
			attempts.POST("/:id/next", attemptHandler.Next)
			attempts.POST("/:id/prev", attemptHandler.Prev)
		}
	}

	// WebSocket endpoint pushing attempt updates to the learner's open tabs
	router.GET("/ws/attempts/:id", middleware.AuthMiddleware(jwtSecret), wsHandler.WatchAttempt)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
