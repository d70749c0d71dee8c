package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hyphema-tracker/internal/config"
	"hyphema-tracker/internal/database"
	"hyphema-tracker/internal/detector"
	"hyphema-tracker/internal/logger"
	"hyphema-tracker/internal/repository"
	"hyphema-tracker/internal/server"
	"hyphema-tracker/internal/server/handlers"
	"hyphema-tracker/internal/services"
	"hyphema-tracker/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting hyphema tracker")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	photos, err := storage.NewPhotoStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("Failed to prepare photo store", "error", err)
	}

	patientRepo := repository.NewPatientRepository(db)
	injuryRepo := repository.NewInjuryRepository(db)
	eyeRepo := repository.NewEyeRepository(db)

	invoker := detector.NewInvoker(cfg.Detector)

	patientSvc := services.NewPatientService(patientRepo)
	injurySvc := services.NewInjuryService(injuryRepo, patientRepo)
	analysisSvc := services.NewAnalysisService(photos, invoker, injuryRepo, eyeRepo)
	logger.Info("Services initialized")

	h := handlers.New(patientSvc, injurySvc, analysisSvc, photos)
	srv := server.New(cfg.Server, h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server stopped with error", "error", err)
		}
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}
