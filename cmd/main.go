package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/adapters/audio"
	"github.com/voicequery/voicequery/adapters/llm"
	"github.com/voicequery/voicequery/adapters/stt"
	"github.com/voicequery/voicequery/domain/repositories"
	"github.com/voicequery/voicequery/internal/api"
	"github.com/voicequery/voicequery/internal/config"
	"github.com/voicequery/voicequery/internal/export"
	"github.com/voicequery/voicequery/internal/metrics"
	"github.com/voicequery/voicequery/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Local development reads a .env file; deployments set real env vars
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize adapters
	loader := audio.NewLoader(audio.LoaderConfig{}, logger)
	speechToText := buildSpeechToText(cfg, logger)
	generator := buildQueryGenerator(cfg, logger)
	exporter := buildExporter(cfg, logger)
	m := metrics.NewMetrics()

	// Initialize usecase service
	pipeline := usecase.NewPipelineService(
		loader,
		speechToText,
		generator,
		exporter,
		cfg.Export.Format,
		m,
		logger,
	)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit()))

	// Initialize API routes
	api.InitRoutes(e, pipeline, m, cfg.Auth.JWTSecret, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Server.Address()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("address", cfg.Server.Address()),
		zap.String("stt_backend", cfg.STT.Backend),
		zap.String("model", speechToText.Model()),
		zap.Bool("query_generation_available", pipeline.QueryGenerationAvailable()),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func buildSpeechToText(cfg *config.Config, logger *zap.Logger) repositories.SpeechToText {
	switch cfg.STT.Backend {
	case config.BackendGoogle:
		return stt.NewGoogleSpeechToText(stt.GoogleConfig{
			DefaultLanguage: cfg.STT.DefaultLanguage,
		}, logger)
	case config.BackendMock:
		return stt.NewMockSpeechToText(logger)
	default:
		transcriber, err := stt.NewWhisperTranscriber(stt.WhisperConfig{
			ServerURL:   cfg.STT.ServerURL,
			APIKey:      cfg.STT.APIKey,
			Model:       cfg.STT.Model,
			Temperature: cfg.STT.Temperature,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize speech recognition", zap.Error(err))
		}
		return transcriber
	}
}

// buildQueryGenerator returns nil when no API key is configured. The
// service still serves /transcribe; /generate-query and /process report
// 503 until a key is provided.
func buildQueryGenerator(cfg *config.Config, logger *zap.Logger) repositories.QueryGenerator {
	if cfg.Gemini.APIKey == "" {
		// The mock backend stays usable end to end without a credential
		if cfg.STT.Backend == config.BackendMock {
			logger.Info("Using mock query generator")
			return llm.NewMockQueryGenerator()
		}
		logger.Warn("GOOGLE_API_KEY not set, query generation is disabled")
		return nil
	}

	generator, err := llm.NewGeminiQueryGenerator(llm.GeminiConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	}, logger)
	if err != nil {
		logger.Warn("Failed to initialize query generator, continuing without it", zap.Error(err))
		return nil
	}
	return generator
}

func buildExporter(cfg *config.Config, logger *zap.Logger) repositories.TranscriptExporter {
	if cfg.Export.Dir == "" {
		return nil
	}

	exporter, err := export.NewFileExporter(cfg.Export.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize transcript exporter", zap.Error(err))
	}
	return exporter
}
