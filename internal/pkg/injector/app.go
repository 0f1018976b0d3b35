package injector

import (
	"github.com/lk2023060901/yoga-studio-backend/internal/conf"
	"github.com/lk2023060901/yoga-studio-backend/internal/data"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/seed"
	"github.com/lk2023060901/yoga-studio-backend/internal/server"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	Data       *data.Data
	HTTPServer *server.HTTPServer
	Sweeper    *eventbiz.Sweeper
}

// Seeder is what cmd/seed runs
type Seeder struct {
	Config *conf.Config
	Logger *logger.Logger
	Runner *seed.Runner
}

func newApp(config *conf.Config, log *logger.Logger, d *data.Data, httpServer *server.HTTPServer, sweeper *eventbiz.Sweeper) *App {
	return &App{
		Config:     config,
		Logger:     log,
		Data:       d,
		HTTPServer: httpServer,
		Sweeper:    sweeper,
	}
}

func newSeeder(config *conf.Config, log *logger.Logger, runner *seed.Runner) *Seeder {
	return &Seeder{Config: config, Logger: log, Runner: runner}
}
