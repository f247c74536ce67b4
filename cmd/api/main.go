package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fieldscribe/scribe-api/internal/config"
	"github.com/fieldscribe/scribe-api/internal/database"
	"github.com/fieldscribe/scribe-api/internal/handler"
	"github.com/fieldscribe/scribe-api/internal/middleware"
	"github.com/fieldscribe/scribe-api/internal/models"
	"github.com/fieldscribe/scribe-api/internal/repository"
	"github.com/fieldscribe/scribe-api/internal/router"
	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/pkg/ai"
	cloud "github.com/fieldscribe/scribe-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Technician{},
		&models.EquipmentModel{},
		&models.SpecLabel{},
		&models.Submission{},
		&models.QAPair{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var events service.SubmissionEventPublisher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()

		events = service.NewNATSEventPublisher(natsConn, cfg.EventSubject, logger)
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	aiClient, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:          cfg.OpenAIAPIKey,
		TranscribeModel: cfg.TranscribeModel,
		ChatModel:       cfg.ChatModel,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("failed to create openai client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	technicianRepo := repository.NewTechnicianRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	transcriptionService := service.NewTranscriptionService(aiClient, aiClient, cfg.MaxAudioMB, logger)
	submissionService := service.NewSubmissionService(submissionRepo, technicianRepo, equipmentRepo, redisClient, validate, uploader, events, cfg.DedupeTTL, logger)
	referenceService := service.NewReferenceService(technicianRepo, equipmentRepo, redisClient, cfg.ReferenceCacheTTL, logger)
	seedService := service.NewSeedService(technicianRepo, equipmentRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	transcriptionHandler := handler.NewTranscriptionHandler(transcriptionService, logger)
	referenceHandler := handler.NewReferenceHandler(referenceService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxAudioMB + 5) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler:    submissionHandler,
		TranscriptionHandler: transcriptionHandler,
		ReferenceHandler:     referenceHandler,
		SeedHandler:          seedHandler,
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
