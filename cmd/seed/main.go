// Command seed loads the embedded starter content into the configured store.
// It takes no flags: STUDIO_CONFIG names the config file and STUDIO_SEED_*
// variables set the admin account and generated padding rows.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/injector"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/seed"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	_ = godotenv.Load()

	path := os.Getenv("STUDIO_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	config, err := conf.LoadConfig(path)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 种子脚本始终输出到控制台
	config.Log.Output = "console"
	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	code := run(config, log)
	_ = log.Sync()
	os.Exit(code)
}

func run(config *conf.Config, log *logger.Logger) int {
	seeder, cleanup, err := injector.InitializeSeeder(config, log)
	if err != nil {
		log.Error("failed to initialize seeder", zap.Error(err))
		return 1
	}
	defer cleanup()

	ds, err := seed.Default()
	if err != nil {
		log.Error("failed to load seed data", zap.Error(err))
		return 1
	}
	if n := config.Seed.FakeRows; n > 0 {
		seed.NewFactory(config.Seed.FakerSeed).Pad(ds, n)
		log.Info("padded seed data with generated rows", zap.Int("per_table", n))
	}

	ctx := context.Background()
	report, err := seeder.Runner.Run(ctx, ds)
	if err != nil {
		log.Error("seed run aborted", zap.Error(err))
		return 1
	}

	if err := seeder.Runner.EnsureAdmin(ctx, seed.Admin{
		Name:     config.Seed.AdminName,
		Email:    config.Seed.AdminEmail,
		Password: config.Seed.AdminPassword,
	}); err != nil {
		log.Error("admin account not created", zap.Error(err))
	}

	log.Info("seed finished", zap.Int("rows", ds.Len()), zap.Int("failed", report.TotalFailed()))
	return 0
}
