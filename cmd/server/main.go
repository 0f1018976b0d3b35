package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/injector"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// .env 可选
	_ = godotenv.Load()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	logger.ReplaceGlobal(log)

	for _, p := range config.Problems() {
		log.Error("configuration problem", zap.String("problem", p))
	}

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		log.Error("failed to initialize application", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Sweeper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.HTTPServer.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.HTTPServer.Stop(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
