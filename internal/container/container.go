package container

import (
	"context"
	"fmt"
	"log"

	"hetracker/adapters/fetcher"
	"hetracker/adapters/sources"
	"hetracker/app"
	"hetracker/internal"
	"hetracker/internal/config"
	"hetracker/internal/metadata"
	"hetracker/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Source   ports.DatasetSource
	SQL      *sources.SQLSource
	Registry *metadata.Registry
	Fetcher  *fetcher.Cache

	// Query pipeline
	Providers *app.ProviderMap
	Queries   *app.QueryService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:   cfg,
		Registry: metadata.NewBuiltinRegistry(),
	}

	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	if err := c.initSource(); err != nil {
		return nil, fmt.Errorf("failed to initialize dataset source: %w", err)
	}
	c.initPipeline()

	log.Printf("Container initialized with %s dataset source and %d providers", cfg.Data.Source, len(c.Providers.Providers()))
	return c, nil
}

// NewWithSource builds the pipeline over an existing source
func NewWithSource(cfg *config.Config, source ports.DatasetSource) *Container {
	c := &Container{
		Config:   cfg,
		Source:   source,
		Registry: metadata.NewBuiltinRegistry(),
	}
	c.initPipeline()
	return c
}

// initSource opens the configured dataset source
func (c *Container) initSource() error {
	switch c.Config.Data.Source {
	case config.SourceMemory:
		c.Source = sources.NewMemorySource()
	case config.SourceFiles:
		c.Source = sources.NewFileSource(c.Config.Data.Dir)
	case config.SourceSQL:
		db := c.Config.Database
		sql, err := sources.OpenSQLSource(db.Driver, db.URL, db.TablePrefix, db.MaxOpenConns, db.ConnMaxLifetime)
		if err != nil {
			return err
		}
		if err := sql.EnsureCatalog(context.Background()); err != nil {
			sql.Close()
			return err
		}
		c.SQL = sql
		c.Source = sql
	default:
		return fmt.Errorf("unknown dataset source %q", c.Config.Data.Source)
	}
	return nil
}

// initPipeline wires the dataset cache, providers and query service
func (c *Container) initPipeline() {
	c.Fetcher = fetcher.NewCache(c.Source, c.Registry)
	c.Providers = app.NewDefaultProviderMap(c.Fetcher, c.Config)
	maxConcurrent := c.Config.Pipeline.MaxConcurrentProviders
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	c.Queries = app.NewQueryService(c.Providers, maxConcurrent)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.SQL != nil {
		return c.SQL.Close()
	}
	return nil
}
