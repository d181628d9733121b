package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/rolespeak/server/adapters/elevenlabs"
	"github.com/satriahrh/rolespeak/server/adapters/llm"
	"github.com/satriahrh/rolespeak/server/adapters/storage"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
	"github.com/satriahrh/rolespeak/server/internal/api"
	"github.com/satriahrh/rolespeak/server/internal/observability"
	"github.com/satriahrh/rolespeak/server/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger := newLogger()
	defer logger.Sync()

	ctx := context.Background()

	// Metrics
	namespace := os.Getenv("METRICS_NAMESPACE")
	if namespace == "" {
		namespace = "roleplay"
	}
	metrics := observability.NewMetrics(namespace, prometheus.NewRegistry())

	// Initialize adapters
	generator := newContentGenerator(ctx, metrics, logger)

	voiceClient, err := elevenlabs.NewClient(elevenlabs.NewElevenLabsConfigFromEnv(), metrics.HTTPClient("elevenlabs"), logger)
	if err != nil {
		logger.Fatal("Failed to create ElevenLabs client", zap.Error(err))
	}

	objectStorage, err := storage.New(ctx, storage.NewConfigFromEnv(), metrics.HTTPClient("storage"), logger)
	if err != nil {
		logger.Fatal("Failed to create object storage", zap.Error(err))
	}
	if closer, ok := objectStorage.(io.Closer); ok {
		defer closer.Close()
	}

	// Initialize usecase services
	roleplayService := usecase.NewRoleplayService(generator, objectStorage, logger)
	agentService := usecase.NewAgentService(voiceClient, voiceClient, voiceClient.Voices(), logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(corsConfig()))
	e.Use(metrics.Middleware())

	// Initialize API routes
	api.InitRoutes(e, roleplayService, agentService, metrics, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Roleplay server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// corsConfig permits every origin, method and header
func corsConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodConnect,
			http.MethodTrace,
		},
		AllowHeaders: []string{"*"},
	}
}

// newLogger builds a development logger when APP_ENV=development, production otherwise
func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	if os.Getenv("APP_ENV") == "development" {
		config = zap.NewDevelopmentConfig()
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func newContentGenerator(ctx context.Context, metrics *observability.Metrics, logger *zap.Logger) repositories.ContentGenerator {
	if strings.EqualFold(os.Getenv("LLM_PROVIDER"), "mock") {
		logger.Warn("Using mock content generator")
		return llm.NewMockGeminiClient()
	}

	gemini, err := llm.NewGeminiLLM(ctx, llm.NewGeminiConfigFromEnv(), metrics.HTTPClient("gemini"), logger)
	if err != nil {
		logger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	return gemini
}
