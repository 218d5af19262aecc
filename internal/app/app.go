package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/config"
	"github.com/yungbote/amrdb/internal/data/db"
	"github.com/yungbote/amrdb/internal/data/repos"
	"github.com/yungbote/amrdb/internal/observability"
	"github.com/yungbote/amrdb/internal/platform/logger"
	"github.com/yungbote/amrdb/internal/platform/objstore"
)

// Version is stamped into traces and the CLI.
const Version = "0.1.0"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      *config.Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics
	Store    *objstore.Store

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// Options tweak bootstrap; the zero value loads AMRDB_CONFIG (or the embedded
// default) and migrates the schema.
type Options struct {
	ConfigPath  string
	SkipMigrate bool
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(ctx, cfg, log, opts)
}

// NewWithConfig wires the app from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	dbService, err := db.Open(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if !opts.SkipMigrate {
		if err := dbService.AutoMigrateAll(); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	tracing := cfg.Observability.Tracing
	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Observability.ServiceName,
		Version:     Version,
		Enabled:     tracing.Enabled,
		Exporter:    tracing.Exporter,
		Endpoint:    tracing.Endpoint,
		Insecure:    tracing.Insecure,
		Headers:     tracing.Headers,
		SampleRatio: tracing.SampleRatio,
	})
	metrics := observability.NewMetrics()
	store := objstore.New(log, objstore.S3Config{
		Region:    cfg.Storage.S3Region,
		Endpoint:  cfg.Storage.S3Endpoint,
		PathStyle: cfg.Storage.S3PathStyle,
	})

	log.Info("Wiring repos...")
	reposet := repos.NewSet(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Store:        store,
		dbService:    dbService,
		otelShutdown: shutdown,
	}, nil
}

// Close flushes metrics and traces, then releases clients and the database.
func (a *App) Close() {
	if a == nil {
		return
	}
	if path := a.Cfg.Observability.MetricsTextfile; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			a.Log.Warn("write metrics textfile failed", "path", path, "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("object store close failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
		a.dbService = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
