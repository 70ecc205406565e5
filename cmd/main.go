package main

import (
	"context"
	"os/signal"
	"syscall"

	"part-inspector/config"
	telegram "part-inspector/internal/api"
	"part-inspector/internal/container"
	"part-inspector/internal/infrastructure/storage"
	"part-inspector/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to load config")
	}

	log.NewLogger(log.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})

	// Хранилища в памяти процесса
	userRepo := storage.NewMemoryUserRepository()
	inspectionRepo := storage.NewMemoryInspectionRepository()

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, userRepo, inspectionRepo)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to build services")
	}
	defer appContainer.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(log.Fields{"camera_id": appContainer.CameraID, "rules_file": cfg.RulesFile}, "Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "Bot error")
	}
	log.Info(nil, "Bot stopped")
}
