package cmd

import (
	"context"
	"fmt"

	"datapath/core/config"
	"datapath/core/database"
	"datapath/core/logger"
	"datapath/core/schema"
	"datapath/core/scope"
	"datapath/core/storage"
	"datapath/feature/integrity"
	"datapath/feature/models"
	"datapath/feature/records"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the components shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	schemas *schema.Registry
	models  *schema.ModelSource
	stored  *schema.StorageSource
	beans   *scope.Beans
	scopes  *scope.Registry
}

// bootstrap loads configuration and wires the schema registry and the bean
// scopes. Database and storage are optional: a failed connection drops the
// sources depending on it.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	rt.models = schema.NewModelSource(nil)
	if err := models.Register(rt.models); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}
	sources := []schema.Source{rt.models}

	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Optional storage client failed", zap.Error(err))
	} else if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
		logg.Warn("Schema bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	} else {
		rt.store = client
		rt.stored = schema.NewStorageSource(client, cfg.Storage.Bucket, cfg.Schema.Prefix)
		sources = append(sources, rt.stored)
	}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))
		if cfg.Schema.Tables {
			sources = append(sources, schema.NewDatabaseSource(conn))
		}
	}

	rt.schemas = schema.NewRegistry(cfg.Schema.TTL(), logg, sources...)

	rt.beans = scope.NewBeans(logg, nil)
	rt.scopes = scope.Default()
	rt.scopes.RegisterBeans(rt.beans)
	if rt.db != nil {
		if err := records.DefineBeans(rt.beans, rt.db, cfg.Tenant.Column, logg); err != nil {
			return nil, fmt.Errorf("failed to define datastore beans: %w", err)
		}
	}
	return rt, nil
}

// integrityConfig returns the sources checked by the integrity feature.
func (rt *runtime) integrityConfig() integrity.Config {
	return integrity.Config{
		Models:   rt.models,
		Storage:  rt.stored,
		DB:       rt.db,
		Registry: rt.schemas,
		CacheTTL: rt.cfg.Schema.TTL(),
	}
}
