package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"sigplot/internal/config"
	"sigplot/internal/container"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}
	logger.SetLevel(appConfig.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		logger.Fatal("failed to create application container", "err", err)
	}
	defer appContainer.Shutdown()

	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("profiling server starting", "port", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				logger.Error("pprof server failed", "err", err)
			}
		}()
	}

	logger.Info("starting sigplot server", "port", appConfig.Server.Port, "persistent", appContainer.Service.Persistent())
	if err := appContainer.Server.ListenAndServe(ctx, ":"+appConfig.Server.Port, appConfig.Server.ReadTimeout, appConfig.Server.WriteTimeout); err != nil {
		logger.Error("server stopped", "err", err)
		appContainer.Shutdown()
		os.Exit(1)
	}
}
