package main

import (
	"alcyxob/workout-planner/internal/api"
	"alcyxob/workout-planner/internal/config"
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/repository"
	"alcyxob/workout-planner/internal/repository/memory"
	"alcyxob/workout-planner/internal/repository/mongo"
	"alcyxob/workout-planner/internal/service"
	"alcyxob/workout-planner/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// repositories groups the four stores the services need.
type repositories struct {
	plans    repository.PlanRepository
	cards    repository.WorkcardRepository
	history  repository.SessionRecordRepository
	profiles repository.ProfileRepository
}

// @title Workout Planner API
// @version 1.0
// @description Workout plan generation, workcard checklists and session history.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Workout Planner Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Repositories ---
	var repos repositories
	switch cfg.Database.Driver {
	case "memory":
		log.Println("WARN: Using in-memory repositories; data is lost on restart.")
		repos = repositories{
			plans:    memory.NewPlanRepository(),
			cards:    memory.NewWorkcardRepository(),
			history:  memory.NewSessionRecordRepository(),
			profiles: memory.NewProfileRepository(),
		}
	case "mongo", "":
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		log.Println("Ensuring database indexes...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
		}()

		repos = repositories{
			plans:    mongo.NewMongoPlanRepository(appDB),
			cards:    mongo.NewMongoWorkcardRepository(appDB),
			history:  mongo.NewMongoSessionRecordRepository(appDB),
			profiles: mongo.NewMongoProfileRepository(appDB),
		}
	default:
		log.Fatalf("FATAL: Unknown database driver %q", cfg.Database.Driver)
	}

	// --- Transcript Storage ---
	var transcripts storage.FileStorage = storage.NoopStorage{}
	if cfg.S3.BucketName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		transcripts, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("INFO: No S3 bucket configured, generation transcripts are not archived.")
	}

	// --- Generation ---
	if cfg.Generation.APIKey == "" {
		log.Println("WARN: GENERATION_API_KEY is empty; every generation attempt will fail.")
	}
	generator := generation.NewClient(cfg.Generation)

	// --- Services ---
	log.Println("Initializing services...")
	planService := service.NewPlanService(repos.plans, repos.profiles, generator, transcripts)
	workcardService := service.NewWorkcardService(repos.plans, repos.cards, repos.history)
	cascadeService := service.NewCascadeService(repos.plans, repos.cards, repos.history, transcripts)
	historyService := service.NewHistoryService(repos.history)
	profileService := service.NewProfileService(repos.profiles)

	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, planService, workcardService, cascadeService, historyService, profileService)

	// --- Start HTTP Server ---
	// WriteTimeout bounds the synchronous generation call as seen by the client.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// In-flight generations get the write timeout to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
