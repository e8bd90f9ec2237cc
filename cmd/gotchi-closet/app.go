package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/api"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/basetraits"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/config"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/logging"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
)

// app is everything a command needs, built once from config.
type app struct {
	closed  bool
	cfg     *config.Config
	log     *zap.Logger
	catalog *sets.Catalog
	client  *basetraits.Client
	svc     *api.Service
	closers []func() error
}

func newApp(configPath string, verbose bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger}

	a.catalog, err = loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	if dups := a.catalog.DuplicateIDs(); len(dups) > 0 {
		logger.Warn("catalog has duplicate set ids; lookups return the first match",
			zap.Strings("ids", dups))
	}
	logger.Debug("catalog loaded",
		zap.String("path", cfg.Catalog.Path), zap.Int("sets", a.catalog.Len()))

	var store basetraits.Store
	switch cfg.Cache.Driver {
	case "sqlite":
		s, err := basetraits.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		store = s
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s, err := basetraits.OpenPostgres(ctx, cfg.Cache.DSN)
		cancel()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		store = s
	default:
		store = basetraits.NewMemoryStore()
	}

	timeout, err := cfg.UpstreamTimeout()
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Upstream.URL == "" {
		logger.Info("no upstream url configured; respec simulations use fallback traits")
	}
	a.client = basetraits.New(cfg.Upstream.URL,
		basetraits.WithTimeout(timeout),
		basetraits.WithStore(store),
		basetraits.WithLogger(logger.Named("basetraits")),
	)
	a.svc = api.NewService(a.catalog, a.client, api.Options{
		DefaultLimit: cfg.Rank.DefaultLimit,
		Logger:       logger.Named("api"),
	})
	return a, nil
}

func loadCatalog(cfg config.CatalogConfig) (*sets.Catalog, error) {
	var opts []sets.Option
	if cfg.RequireUniqueIDs {
		opts = append(opts, sets.WithUniqueIDs())
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return sets.Embedded(opts...)
	}
	return sets.Load(cfg.Path, opts...)
}

// Close releases the cache and flushes the logger.
func (a *app) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var errs []error
	for _, fn := range a.closers {
		errs = append(errs, fn())
	}
	// Sync on stderr fails on some platforms; not worth reporting.
	_ = a.log.Sync()
	return errors.Join(errs...)
}
