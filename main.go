package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cerebrum-service/internal/config"
	"cerebrum-service/internal/db"
	"cerebrum-service/internal/event"
	"cerebrum-service/internal/handlers"
	"cerebrum-service/internal/models"
	"cerebrum-service/internal/repository"
	"cerebrum-service/internal/session"
	"cerebrum-service/internal/stats"
	"cerebrum-service/internal/trivia"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	defer db.CloseMongo()
	redisClient := db.InitRedis(cfg.RedisURI)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, quiz events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID", "X-User-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.MongoDatabase)

	// Persistence
	resultRepo := repository.NewResultRepository(database)
	statsRepo := repository.NewStatsRepository(database)
	leaderboardRepo := repository.NewLeaderboardRepository(database, redisClient, time.Duration(cfg.LeaderboardTTL)*time.Second)

	// Stats aggregation
	aggregator := stats.NewAggregator(statsRepo, leaderboardRepo, resultRepo)

	// Question source
	triviaClient := trivia.NewClient(cfg.TriviaBaseURL, cfg.TriviaCountURL, time.Duration(cfg.TriviaTimeout)*time.Second)

	// Session manager; completion fires once per session whether the user
	// submitted or the last question timed out.
	manager := session.NewManager(time.Duration(cfg.QuestionTime) * time.Second)
	manager.SetCompletionHandler(func(s *session.Session, result models.QuizResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		aggregator.SaveCompleted(ctx, s.UserID, s.UserName, result)
		if publisher != nil {
			publisher.Publish("quiz.session.completed", gin.H{
				"session_id": s.ID,
				"user_id":    s.UserID,
				"score":      result.ScorePercent,
				"timestamp":  time.Now(),
			})
		}
	})

	sessionHandler := handlers.NewSessionHandler(manager, triviaClient, aggregator)
	statsHandler := handlers.NewStatsHandler(aggregator)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardRepo, cfg.LeaderboardSize)
	categoryHandler := handlers.NewCategoryHandler(triviaClient)

	// Public routes - categories and leaderboard
	publicQuiz := r.Group("/public/quiz")
	{
		publicQuiz.GET("/category", categoryHandler.ListCategories)
		publicQuiz.GET("/category/:id/count", categoryHandler.GetCategoryCount)
		publicQuiz.GET("/leaderboard", func(c *gin.Context) {
			leaderboardHandler.GetLeaderboard(c)
			if publisher != nil {
				publisher.Publish("quiz.leaderboard.viewed", nil)
			}
		})
	}

	setupSessionRoutes(r, sessionHandler, publisher)

	// Protected routes - stats and dashboard require an authenticated user
	protectedStats := r.Group("/protected/quiz")
	protectedStats.Use(requireUser())
	{
		protectedStats.GET("/stats", statsHandler.GetStats)
		protectedStats.GET("/dashboard", func(c *gin.Context) {
			statsHandler.GetDashboard(c)
			if publisher != nil {
				publisher.Publish("quiz.dashboard.viewed", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
	}

	r.Run(":" + cfg.Port)
}

func setupSessionRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	// Sessions are public so guests can play; guest results are simply not
	// persisted.
	quizSession := r.Group("/public/quiz/session")
	{
		quizSession.POST("/", func(c *gin.Context) {
			sessionHandler.StartSession(c)
			if publisher != nil {
				publisher.Publish("quiz.session.started", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		quizSession.GET("/:id", sessionHandler.GetSession)

		quizSession.POST("/:id/answer", func(c *gin.Context) {
			sessionHandler.RecordAnswer(c)
			if publisher != nil {
				publisher.Publish("quiz.answer.recorded", gin.H{
					"session_id": c.Param("id"),
					"timestamp":  time.Now(),
				})
			}
		})

		quizSession.POST("/:id/goto", sessionHandler.GoToQuestion)
		quizSession.POST("/:id/next", sessionHandler.NextQuestion)
		quizSession.POST("/:id/prev", sessionHandler.PreviousQuestion)

		quizSession.POST("/:id/submit", func(c *gin.Context) {
			sessionHandler.SubmitSession(c)
			if publisher != nil {
				publisher.Publish("quiz.session.submitted", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})

		quizSession.GET("/:id/review", sessionHandler.GetReview)
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
