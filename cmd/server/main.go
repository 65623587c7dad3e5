package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskscreen/internal/cache"
	"riskscreen/internal/config"
	"riskscreen/internal/gateway"
	"riskscreen/internal/repository"
	"riskscreen/internal/scoring"
	"riskscreen/internal/service"
	"riskscreen/internal/survey"
	"riskscreen/internal/transport/rest"
	"riskscreen/internal/transport/ws"
)

// @title Risk Screening API
// @version 1.0
// @description Anonymous multi-stage risk questionnaire over a chat transport
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	// Question bank and scoring tables are static per process; any
	// inconsistency between them is fatal here, never at answer time.
	bank, err := survey.Load(cfg.QuestionsDir)
	if err != nil {
		log.Fatal("Failed to load question bank: ", err)
	}
	for _, category := range bank.Categories() {
		log.Printf("Question bank: category %s, %d questions", category, bank.Count(category))
	}

	tables, err := scoring.LoadTables(cfg.ScoringPath)
	if err != nil {
		log.Fatal("Failed to load scoring tables: ", err)
	}
	engine, err := scoring.NewEngine(bank, tables)
	if err != nil {
		log.Fatal("Scoring configuration rejected: ", err)
	}
	log.Println("Scoring tables validated")

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB: ", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis: ", err)
	}
	log.Println("Connected to Redis")

	// WebSocket hub for the operator live feed
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories and caches
	respondentRepo := repository.NewRespondentRepo(db)
	reportRepo := repository.NewReportRepo(db)
	sessionCache := cache.NewSessionCache(rdb)

	// Outbound chat transport
	transportClient := gateway.NewClient(cfg.TransportBaseURL, cfg.TransportToken)

	// Services
	authSvc := service.NewAuthService(cfg.OperatorUsername, cfg.OperatorPassword, cfg.JWTSecret)
	surveySvc := service.NewSurveyService(bank, engine, respondentRepo, sessionCache, transportClient)
	reportSvc := service.NewReportService(reportRepo, transportClient)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	surveySvc.SetBroadcaster(wsHub)
	reportSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:   authSvc,
		SurveyService: surveySvc,
		ReportService: reportSvc,
		Respondents:   respondentRepo,
		WSHub:         wsHub,
		WebhookSecret: cfg.WebhookSecret,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/webhook/events")
		log.Println("  POST /v1/webhook/reports")
		log.Println("  GET  /v1/respondents")
		log.Println("  GET  /v1/respondents/summary")
		log.Println("  GET  /v1/reports")
		log.Println("  WS   /v1/ws/operator")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe: ", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited")
}
