// Package main запускает продюсера статистики Spotify.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/app"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/config"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", app.ModeScheduler, "run mode: scheduler, once or status")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)
	defer func() {
		_ = log.Sync()
	}()

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Создание приложения через фабрику
	producerApp, err := app.NewApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	// Запуск в выбранном режиме
	if err := producerApp.Run(ctx, *mode); err != nil {
		log.Error("Application stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}
