package main

import (
	"quizengine/config"
	"quizengine/handlers"
	"quizengine/middleware"
	"quizengine/models"
	"quizengine/quizfile"
	"quizengine/routes"
	"quizengine/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.InitLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Quiz{},
		&models.QuizContext{},
		&models.Question{},
		&models.Option{},
		&models.Attempt{},
		&models.AttemptAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Quiz payloads come from the database or, for local work, from quiz files
	var quizzes services.QuizSource = services.NewQuizService(db)
	if cfg.QuizSource == config.QuizSourceFile {
		log.Printf("Serving quizzes from %s", cfg.QuizDir)
		quizzes = quizfile.NewSource(cfg.QuizDir)
	}

	// Initialize services
	attemptService := services.NewAttemptService(
		quizzes,
		services.NewGormAttemptRepository(db),
		services.NewRedisStateStore(redisClient, cfg.AttemptTTL),
	)

	// Initialize WebSocket hub
	hub := services.NewHub(attemptService)
	attemptService.SetNotifier(hub)
	go hub.Run()

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(attemptService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	wsHandler := handlers.NewWebSocketHandler(attemptService, hub)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, quizHandler, attemptHandler, wsHandler, cfg.JWTSecret)

	addr := cfg.BindAddress + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
