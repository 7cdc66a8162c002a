package container

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"sigplot/adapters/postgres"
	"sigplot/adapters/stats/engine"
	"sigplot/app"
	"sigplot/internal/api"
	"sigplot/internal/config"
	"sigplot/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config   *config.Config
	Settings config.ChartSettings
	Logger   *log.Logger

	// Infrastructure; nil when DATABASE_URL is unset
	DB           *sqlx.DB
	AnalysisRepo ports.AnalysisRepository

	Engine  *engine.StatsEngine
	Service *app.AnalysisService
	Server  *api.Server
}

// New loads chart settings, connects the optional database and builds the
// service graph.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	settings, err := config.LoadChartSettings(cfg.Analysis.SettingsFile)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		Settings: settings,
		Logger:   logger,
	}

	if cfg.Database.Enabled() {
		db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.ConnMaxLifetime, cfg.Database.ResetOnStart)
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.AnalysisRepo = postgres.NewAnalysisRepository(db)
		logger.Info("analysis storage enabled")
	}

	c.Engine = engine.NewStatsEngine(
		engine.WithThresholds(settings.Thresholds),
		engine.WithAlpha(cfg.Analysis.Alpha),
		engine.WithLogger(logger.WithPrefix("engine")),
	)

	opts := []app.ServiceOption{
		app.WithDefaultStrategy(cfg.Analysis.Strategy),
		app.WithServiceLogger(logger.WithPrefix("service")),
	}
	if c.AnalysisRepo != nil {
		opts = append(opts, app.WithRepository(c.AnalysisRepo))
	}
	c.Service = app.NewAnalysisService(c.Engine, opts...)
	c.Server = api.NewServer(c.Service, settings, logger.WithPrefix("http"))
	return c, nil
}

// Shutdown releases the database connection, if any.
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
