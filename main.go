package main

import (
	"context"
	"os"
	"strings"
	"time"

	"lms-quiz-service/internal/cache"
	"lms-quiz-service/internal/db"
	"lms-quiz-service/internal/event"
	"lms-quiz-service/internal/flow"
	"lms-quiz-service/internal/handlers"
	"lms-quiz-service/internal/repository"
	"lms-quiz-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using system env")
	}
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logrus.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	database := db.Client.Database("lms_quiz")

	// Redis quiz cache, optional.
	var quizCache *cache.QuizCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		quizCache = cache.NewQuizCache(addr)
		if err := quizCache.Ping(context.Background()); err != nil {
			logrus.WithError(err).Fatal("failed to connect to Redis")
		}
	} else {
		logrus.Info("Redis not configured, quiz cache disabled")
	}

	// RabbitMQ event publisher, optional.
	var publisher *event.Publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	exchange := os.Getenv("RABBITMQ_EXCHANGE")
	if rabbitURL != "" && exchange != "" {
		var err error
		publisher, err = event.NewPublisher(rabbitURL, exchange)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer publisher.Close()
	} else {
		logrus.Info("RabbitMQ not configured, events will not be published")
	}

	quizRepo := repository.NewQuizRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	courseRepo := repository.NewCourseRepository(database)

	quizService := service.NewQuizService(quizRepo, quizCache, publisher)
	attemptService := service.NewAttemptService(quizService, attemptRepo, publisher)
	sessions := flow.NewManager()

	quizHandler := handlers.NewQuizHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	sessionHandler := handlers.NewSessionHandler(quizService, attemptService, sessions, publisher)
	courseHandler := handlers.NewCourseHandler(courseRepo, quizService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api", handlers.RequireUser())
	{
		api.GET("/courses", courseHandler.ListCourses)
		api.GET("/courses/:cid", courseHandler.GetCourse)
		api.GET("/courses/:cid/breadcrumb", courseHandler.GetBreadcrumb)
		api.GET("/courses/:cid/quizzes", quizHandler.ListQuizzes)
		api.GET("/quizzes/:qid", quizHandler.GetQuiz)

		faculty := api.Group("", handlers.RequireFaculty())
		{
			faculty.POST("/courses/:cid/quizzes", quizHandler.CreateQuiz)
			faculty.PUT("/quizzes/:qid", quizHandler.UpdateQuiz)
			faculty.DELETE("/quizzes/:qid", quizHandler.DeleteQuiz)
			faculty.PUT("/quizzes/:qid/publish", quizHandler.PublishQuiz)
		}

		api.GET("/quizzes/:qid/attempts", attemptHandler.ListAttempts)
		api.POST("/quizzes/:qid/attempts", attemptHandler.SubmitAttempt)

		api.POST("/quizzes/:qid/sessions", sessionHandler.OpenSession)
		api.GET("/sessions/:sid", sessionHandler.GetSession)
		api.DELETE("/sessions/:sid", sessionHandler.CloseSession)
		api.POST("/sessions/:sid/access-code", sessionHandler.VerifyAccessCode)
		api.POST("/sessions/:sid/start", sessionHandler.StartSession)
		api.PUT("/sessions/:sid/answers", sessionHandler.SaveAnswer)
		api.POST("/sessions/:sid/next", sessionHandler.NextQuestion)
		api.POST("/sessions/:sid/previous", sessionHandler.PreviousQuestion)
		api.POST("/sessions/:sid/goto", sessionHandler.GotoQuestion)
		api.POST("/sessions/:sid/submit", sessionHandler.SubmitSession)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logrus.WithField("addr", addr).Info("quiz service listening")
	if err := r.Run(addr); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		return strings.Split(raw, ",")
	}
	return []string{"http://localhost:3000"}
}
