package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/dkravets/conversai/pkg/api"
	"github.com/dkravets/conversai/pkg/api/handler"
	"github.com/dkravets/conversai/pkg/logger"
	"github.com/dkravets/conversai/pkg/openai"
	"github.com/dkravets/conversai/pkg/repository"
	"github.com/dkravets/conversai/pkg/service"
	"github.com/dkravets/conversai/pkg/workers"
)

type Config struct {
	OpenAIAPIKey       string   `env:"OPENAI_API_KEY"`
	Port               int      `env:"PORT" envDefault:"3001"`
	MaxTokens          int      `env:"MAX_TOKENS" envDefault:"200"`
	Temperature        float32  `env:"TEMPERATURE" envDefault:"0.7"`
	MaxHistoryMessages int      `env:"MAX_HISTORY_MESSAGES" envDefault:"20"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	Environment        string   `env:"ENVIRONMENT" envDefault:"development"`
	SpeechCacheSize    int      `env:"SPEECH_CACHE_SIZE" envDefault:"128"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	serviceGroup, err := setupServices()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices() (service.Group, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	startedAt := time.Now()

	audioCache := repository.NewAudioCache(cfg.SpeechCacheSize)
	gateway := openai.NewClient(openai.Config{
		APIKey:             cfg.OpenAIAPIKey,
		MaxTokens:          cfg.MaxTokens,
		Temperature:        cfg.Temperature,
		MaxHistoryMessages: cfg.MaxHistoryMessages,
	}, audioCache)

	router := api.NewRouter(api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
		Chat:           handler.NewChat(gateway).GenerateResponse,
		TextToSpeech:   handler.NewSpeech(gateway).Synthesize,
		ConnectionTest: handler.NewConnectionTest(gateway).TestConnection,
		Status: handler.NewStatus(handler.StatusConfig{
			MaxTokens:      cfg.MaxTokens,
			Temperature:    cfg.Temperature,
			AllowedOrigins: cfg.AllowedOrigins,
			HasAPIKey:      cfg.OpenAIAPIKey != "",
		}, startedAt).Status,
		Health: handler.NewHealth(cfg.Environment, startedAt).Health,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"hasApiKey", cfg.OpenAIAPIKey != "",
		"allowedOrigins", cfg.AllowedOrigins,
	)

	return service.Group{workers.NewHTTPServer(addr, router)}, nil
}
